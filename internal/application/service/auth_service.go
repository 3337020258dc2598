package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/domain/enum"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/logger"
	"github.com/sangkips/bonos-api/pkg/sanitize"
	"github.com/sangkips/bonos-api/pkg/utils"
)

const resetTokenTTL = time.Hour

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	notifier          AccountNotifier
	passwordMaxAge    time.Duration
	now               func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	notifier AccountNotifier,
	passwordMaxAge time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		notifier:          notifier,
		passwordMaxAge:    passwordMaxAge,
		now:               time.Now,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User            *entity.User
	AccessToken     string
	RefreshToken    string
	PasswordExpired bool
}

// checkAccess rejects users that may not sign in.
func checkAccess(user *entity.User) error {
	switch user.ApprovalStatus {
	case enum.ApprovalStatusPending:
		return apperror.ErrAccountPending
	case enum.ApprovalStatusRejected:
		return apperror.ErrAccountRejected
	}
	if !user.IsActive {
		return apperror.ErrAccountInactive
	}
	return nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:            user,
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		PasswordExpired: user.PasswordExpired(s.passwordMaxAge, s.now()),
	}, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := checkAccess(user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
}

// Register creates a user account that waits for administrator approval
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	existingUser, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FullName:          sanitize.Text(input.FullName),
		Username:          username,
		Email:             email,
		Password:          hashedPassword,
		Role:              enum.UserRoleUser,
		ApprovalStatus:    enum.ApprovalStatusPending,
		IsActive:          true,
		PasswordChangedAt: s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered, pending approval", "user_id", user.ID)
	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}
	if err := checkAccess(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// GetProfile returns the current user. Users whose password has expired get
// ErrPasswordExpired and must change it first.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if user.PasswordExpired(s.passwordMaxAge, s.now()) {
		return nil, apperror.ErrPasswordExpired
	}
	return user, nil
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID   uuid.UUID
	FullName *string
	Email    *string
}

// UpdateProfile updates the user's own name and e-mail
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			existingUser, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existingUser != nil && existingUser.ID != user.ID {
				return nil, apperror.NewConflictError("Email already registered")
			}
			user.Email = email
		}
	}
	if input.FullName != nil {
		if name := sanitize.Text(*input.FullName); name != "" {
			user.FullName = name
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password and restarts its expiry clock
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}
	if input.CurrentPassword == input.NewPassword {
		return apperror.NewBadRequestError("New password must be different from the current one")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	user.PasswordChangedAt = s.now()
	return s.userRepo.Update(ctx, user)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword mails a one hour reset link. It succeeds silently for
// unknown addresses so callers cannot probe which e-mails exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		log.Error("password reset lookup failed", "error", err)
		return nil
	}
	if user == nil {
		return nil
	}

	_ = s.passwordResetRepo.DeleteByUser(ctx, user.ID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	token := hex.EncodeToString(tokenBytes)

	resetToken := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if s.notifier == nil || !s.notifier.Enabled() {
		log.Warn("SMTP not configured, password reset e-mail not sent", "user_id", user.ID)
		return nil
	}
	if err := s.notifier.SendPasswordResetEmail(user.Email, token); err != nil {
		log.Error("failed to send password reset e-mail", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPassword sets a new password using a valid reset token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	invalid := apperror.NewBadRequestError("Invalid or expired reset token")

	resetToken, err := s.passwordResetRepo.GetByHash(ctx, hashResetToken(input.Token))
	if err != nil {
		return err
	}
	if resetToken == nil || !resetToken.Usable(s.now()) {
		return invalid
	}

	user, err := s.userRepo.GetByID(ctx, resetToken.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return invalid
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	user.PasswordChangedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkAsUsed(ctx, resetToken.ID); err != nil {
		logger.FromContext(ctx).Error("failed to mark reset token used", "error", err)
	}
	_ = s.passwordResetRepo.DeleteByUser(ctx, user.ID)

	return nil
}
