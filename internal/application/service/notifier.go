package service

// AccountNotifier delivers account e-mails. *email.EmailService satisfies it.
type AccountNotifier interface {
	Enabled() bool
	SendPasswordResetEmail(toEmail, token string) error
	SendAccountApprovedEmail(toEmail, name string) error
	SendAccountRejectedEmail(toEmail, name string) error
}
