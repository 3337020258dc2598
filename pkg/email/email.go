package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
	AppName      string
}

// Dialer sends fully built messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService renders and sends account notifications
type EmailService struct {
	config EmailConfig
	dialer Dialer
}

// NewEmailService creates a new email service backed by an SMTP dialer
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword),
	}
}

// NewEmailServiceWithDialer is used when the transport is supplied by the caller.
func NewEmailServiceWithDialer(config EmailConfig, dialer Dialer) *EmailService {
	return &EmailService{config: config, dialer: dialer}
}

// Enabled reports whether an SMTP host is configured.
func (s *EmailService) Enabled() bool {
	return s != nil && s.config.SMTPHost != ""
}

// SendPasswordResetEmail sends a password reset link
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	return s.send(toEmail, "Restablecer contraseña", messageData{
		Title:     "Restablecer contraseña",
		Greeting:  toEmail,
		Body:      "Recibimos una solicitud para restablecer tu contraseña. El enlace expira en 1 hora.",
		ActionURL: resetURL,
		Action:    "Restablecer contraseña",
	})
}

// SendAccountApprovedEmail tells a user their registration was approved
func (s *EmailService) SendAccountApprovedEmail(toEmail, name string) error {
	return s.send(toEmail, "Cuenta aprobada", messageData{
		Title:     "Cuenta aprobada",
		Greeting:  name,
		Body:      "Un administrador aprobó tu registro. Ya puedes iniciar sesión.",
		ActionURL: s.config.FrontendURL + "/login",
		Action:    "Iniciar sesión",
	})
}

// SendAccountRejectedEmail tells a user their registration was rejected
func (s *EmailService) SendAccountRejectedEmail(toEmail, name string) error {
	return s.send(toEmail, "Registro rechazado", messageData{
		Title:    "Registro rechazado",
		Greeting: name,
		Body:     "Tu solicitud de registro fue rechazada. Contacta a un administrador si crees que es un error.",
	})
}

type messageData struct {
	AppName   string
	Title     string
	Greeting  string
	Body      string
	ActionURL string
	Action    string
}

func (s *EmailService) send(to, subject string, data messageData) error {
	data.AppName = s.config.AppName
	htmlBody, err := render(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject+" - "+s.config.AppName)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var layout = template.Must(template.New("layout").Parse(layoutTemplate))

func render(data messageData) (string, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,sans-serif;background-color:#f4f7fa;">
  <table role="presentation" style="max-width:600px;margin:40px auto;background:#ffffff;border-radius:12px;">
    <tr><td style="background:#1a365d;padding:32px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:26px;">{{.AppName}}</h1>
    </td></tr>
    <tr><td style="padding:32px;">
      <h2 style="color:#1a1a2e;margin:0 0 16px 0;">{{.Title}}</h2>
      <p style="color:#4a5568;font-size:16px;">Hola {{.Greeting}},</p>
      <p style="color:#4a5568;font-size:16px;">{{.Body}}</p>
      {{if .ActionURL}}
      <p style="text-align:center;margin:32px 0;">
        <a href="{{.ActionURL}}" style="background:#2b6cb0;color:#ffffff;padding:14px 28px;border-radius:8px;text-decoration:none;">{{.Action}}</a>
      </p>
      {{end}}
    </td></tr>
  </table>
</body>
</html>
`
