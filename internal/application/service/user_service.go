package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/domain/enum"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/logger"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/sangkips/bonos-api/pkg/sanitize"
)

// UserService handles user administration
type UserService struct {
	userRepo repository.UserRepository
	notifier AccountNotifier
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, notifier AccountNotifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// ListUsers returns a paginated list of users, optionally by approval status
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string, status *enum.ApprovalStatus) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params, search, status)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// ListPendingUsers returns registrations waiting for a decision
func (s *UserService) ListPendingUsers(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.User], error) {
	pending := enum.ApprovalStatusPending
	return s.ListUsers(ctx, params, "", &pending)
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserInput represents the admin update user input
type UpdateUserInput struct {
	ID       uuid.UUID
	FullName *string
	Email    *string
	Username *string
	Role     *enum.UserRole
	IsActive *bool
}

// UpdateUser updates any user's account fields
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, apperror.NewConflictError("Email already registered")
			}
			user.Email = email
		}
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, apperror.NewConflictError("Username already taken")
			}
			user.Username = username
		}
	}
	if input.FullName != nil {
		if name := sanitize.Text(*input.FullName); name != "" {
			user.FullName = name
		}
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "role", Message: "Role must be admin or user"}})
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ApproveUser approves a registration and notifies the user
func (s *UserService) ApproveUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ApprovalStatus == enum.ApprovalStatusApproved {
		return nil, apperror.NewBadRequestError("User is already approved")
	}

	user.ApprovalStatus = enum.ApprovalStatusApproved
	user.IsActive = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notify(ctx, user, func(n AccountNotifier) error {
		return n.SendAccountApprovedEmail(user.Email, user.FullName)
	})
	return user, nil
}

// RejectUser rejects a registration and notifies the user
func (s *UserService) RejectUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ApprovalStatus == enum.ApprovalStatusRejected {
		return nil, apperror.NewBadRequestError("User is already rejected")
	}

	user.ApprovalStatus = enum.ApprovalStatusRejected
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notify(ctx, user, func(n AccountNotifier) error {
		return n.SendAccountRejectedEmail(user.Email, user.FullName)
	})
	return user, nil
}

// notify sends an account e-mail. Delivery failures are logged, not returned;
// the decision has already been stored.
func (s *UserService) notify(ctx context.Context, user *entity.User, send func(AccountNotifier) error) {
	log := logger.FromContext(ctx)
	if s.notifier == nil || !s.notifier.Enabled() {
		log.Warn("SMTP not configured, account e-mail not sent", "user_id", user.ID)
		return
	}
	if err := send(s.notifier); err != nil {
		log.Error("failed to send account e-mail", "user_id", user.ID, "error", err)
	}
}

// DeleteUser deletes a user. Administrators cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
