package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a company the firm bills for its services
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	LegalName string    `gorm:"size:255;not null;index" json:"legal_name"`
	RUT       string    `gorm:"column:rut;size:12;uniqueIndex;not null" json:"rut"`
	Sector    *string   `gorm:"size:255" json:"sector,omitempty"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
