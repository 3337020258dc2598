package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a client creation request
type CreateClientRequest struct {
	LegalName string  `json:"legal_name" binding:"required,min=2,max=255"`
	RUT       string  `json:"rut" binding:"required,rut"`
	Sector    *string `json:"sector" binding:"omitempty,max=255"`
	Location  *string `json:"location" binding:"omitempty,max=255"`
}

// UpdateClientRequest represents a client update request. The RUT cannot change.
type UpdateClientRequest struct {
	LegalName *string `json:"legal_name" binding:"omitempty,min=2,max=255"`
	Sector    *string `json:"sector" binding:"omitempty,max=255"`
	Location  *string `json:"location" binding:"omitempty,max=255"`
}

// AssignmentRequest links a client to a vendor. Percentage is whole percent.
type AssignmentRequest struct {
	ClientID   uuid.UUID       `json:"client_id" binding:"required"`
	Percentage decimal.Decimal `json:"percentage" binding:"percent"`
}

// UpdateAssignmentRequest changes an assignment's whole percent
type UpdateAssignmentRequest struct {
	Percentage decimal.Decimal `json:"percentage" binding:"percent"`
}

// CreateVendorRequest represents a vendor creation request
type CreateVendorRequest struct {
	FullName    string              `json:"full_name" binding:"required,min=3,max=255"`
	RUT         string              `json:"rut" binding:"required,rut"`
	BaseSalary  decimal.Decimal     `json:"base_salary"`
	Assignments []AssignmentRequest `json:"assignments" binding:"omitempty,dive"`
}

// UpdateVendorRequest represents a vendor update request. The RUT cannot change.
type UpdateVendorRequest struct {
	FullName   *string          `json:"full_name" binding:"omitempty,min=3,max=255"`
	BaseSalary *decimal.Decimal `json:"base_salary"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	OrderNumber string          `json:"order_number" binding:"required,max=100"`
	CaseNumber  *string         `json:"case_number" binding:"omitempty,max=100"`
	IssuedOn    string          `json:"issued_on" binding:"required,datetime=2006-01-02"`
	Fees        decimal.Decimal `json:"fees"`
	Expenses    decimal.Decimal `json:"expenses"`
	VendorID    uuid.UUID       `json:"vendor_id" binding:"required"`
	ClientID    uuid.UUID       `json:"client_id" binding:"required"`
}

// UpdateInvoiceRequest represents a partial invoice update
type UpdateInvoiceRequest struct {
	OrderNumber *string          `json:"order_number" binding:"omitempty,min=1,max=100"`
	CaseNumber  *string          `json:"case_number" binding:"omitempty,max=100"`
	IssuedOn    *string          `json:"issued_on" binding:"omitempty,datetime=2006-01-02"`
	Fees        *decimal.Decimal `json:"fees"`
	Expenses    *decimal.Decimal `json:"expenses"`
	VendorID    *uuid.UUID       `json:"vendor_id"`
	ClientID    *uuid.UUID       `json:"client_id"`
}

// ImportClientsRequest carries client rows parsed from a spreadsheet
type ImportClientsRequest struct {
	Rows []service.ImportClientRow `json:"rows" binding:"required,min=1,max=5000"`
}

// ImportVendorsRequest carries vendor rows parsed from a spreadsheet
type ImportVendorsRequest struct {
	Rows []service.ImportVendorRow `json:"rows" binding:"required,min=1,max=5000"`
}

// ImportInvoicesRequest carries invoice rows parsed from a spreadsheet
type ImportInvoicesRequest struct {
	Rows []service.ImportInvoiceRow `json:"rows" binding:"required,min=1,max=5000"`
}
