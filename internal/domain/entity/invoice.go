package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a billed service order. Fees are the professional fees the
// vendor's bonus is computed on, expenses are reimbursed costs.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber string          `gorm:"size:100;not null;index" json:"order_number"`
	CaseNumber  *string         `gorm:"size:100;index" json:"case_number,omitempty"`
	IssuedOn    time.Time       `gorm:"type:date;not null;index" json:"issued_on"`
	Fees        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"fees"`
	Expenses    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"expenses"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Net is fees minus expenses. It is never stored.
func (i *Invoice) Net() decimal.Decimal {
	return i.Fees.Sub(i.Expenses)
}
