package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vendor is a salesperson who earns a bonus on the fees of assigned clients
type Vendor struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	FullName   string          `gorm:"size:255;not null;index" json:"full_name"`
	RUT        string          `gorm:"column:rut;size:12;uniqueIndex;not null" json:"rut"`
	BaseSalary decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"base_salary"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Assignments []CommissionAssignment `gorm:"foreignKey:VendorID" json:"assignments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new vendor
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Vendor model
func (Vendor) TableName() string {
	return "vendors"
}

// CommissionAssignment grants a vendor a bonus percentage over one client.
// Percentage is stored as a fraction, 0.10 means ten percent.
type CommissionAssignment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	VendorID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_vendor_client" json:"vendor_id"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_vendor_client;index" json:"client_id"`
	Percentage decimal.Decimal `gorm:"type:decimal(7,6);not null" json:"percentage"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// BeforeCreate generates a UUID before creating a new assignment
func (a *CommissionAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CommissionAssignment model
func (CommissionAssignment) TableName() string {
	return "commission_assignments"
}
