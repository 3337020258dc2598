package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents an operator of the system
type User struct {
	ID                uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	FullName          string              `gorm:"size:255;not null" json:"full_name"`
	Username          string              `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email             string              `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password          string              `gorm:"size:255" json:"-"`
	Role              enum.UserRole       `gorm:"size:20;not null;default:'user'" json:"role"`
	ApprovalStatus    enum.ApprovalStatus `gorm:"size:20;not null;default:'pending';index" json:"approval_status"`
	IsActive          bool                `gorm:"not null;default:true" json:"is_active"`
	PasswordChangedAt time.Time           `json:"password_changed_at"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.PasswordChangedAt.IsZero() {
		u.PasswordChangedAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == enum.UserRoleAdmin
}

// PasswordExpired reports whether the password is older than maxAge.
// A zero maxAge disables expiry.
func (u *User) PasswordExpired(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(u.PasswordChangedAt) > maxAge
}
