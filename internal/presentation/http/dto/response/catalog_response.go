package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// AssignmentResponse is a vendor's commission over one client, in whole percent
type AssignmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	ClientRUT  string          `json:"client_rut,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewAssignmentResponse converts an assignment
func NewAssignmentResponse(a *entity.CommissionAssignment) AssignmentResponse {
	out := AssignmentResponse{
		ID:         a.ID,
		VendorID:   a.VendorID,
		ClientID:   a.ClientID,
		Percentage: percent(a.Percentage),
		CreatedAt:  a.CreatedAt,
	}
	if a.Client != nil {
		out.ClientName = a.Client.LegalName
		out.ClientRUT = a.Client.RUT
	}
	return out
}

// NewAssignmentList converts a list of assignments
func NewAssignmentList(assignments []entity.CommissionAssignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, NewAssignmentResponse(&assignments[i]))
	}
	return out
}

// VendorResponse is a vendor with its assignments
type VendorResponse struct {
	ID          uuid.UUID            `json:"id"`
	FullName    string               `json:"full_name"`
	RUT         string               `json:"rut"`
	BaseSalary  decimal.Decimal      `json:"base_salary"`
	Assignments []AssignmentResponse `json:"assignments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewVendorResponse converts a vendor
func NewVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		FullName:    v.FullName,
		RUT:         v.RUT,
		BaseSalary:  v.BaseSalary,
		Assignments: NewAssignmentList(v.Assignments),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// NewVendorPage converts a page of vendors
func NewVendorPage(result *pagination.PaginatedResult[entity.Vendor]) *pagination.PaginatedResult[VendorResponse] {
	items := make([]VendorResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, NewVendorResponse(&result.Items[i]))
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}

// InvoiceResponse is an invoice with its parties
type InvoiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	CaseNumber  *string         `json:"case_number"`
	IssuedOn    string          `json:"issued_on"`
	Fees        decimal.Decimal `json:"fees"`
	Expenses    decimal.Decimal `json:"expenses"`
	Net         decimal.Decimal `json:"net"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	VendorName  string          `json:"vendor_name,omitempty"`
	ClientID    uuid.UUID       `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewInvoiceResponse converts an invoice
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	out := InvoiceResponse{
		ID:          inv.ID,
		OrderNumber: inv.OrderNumber,
		CaseNumber:  inv.CaseNumber,
		IssuedOn:    formatDate(inv.IssuedOn),
		Fees:        inv.Fees,
		Expenses:    inv.Expenses,
		Net:         inv.Net(),
		VendorID:    inv.VendorID,
		ClientID:    inv.ClientID,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if inv.Vendor != nil {
		out.VendorName = inv.Vendor.FullName
	}
	if inv.Client != nil {
		out.ClientName = inv.Client.LegalName
	}
	return out
}

// NewInvoicePage converts a page of invoices
func NewInvoicePage(result *pagination.PaginatedResult[entity.Invoice]) *pagination.PaginatedResult[InvoiceResponse] {
	items := make([]InvoiceResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, NewInvoiceResponse(&result.Items[i]))
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}

// ConvertImport maps the created records of an import result
func ConvertImport[T, R any](result *service.ImportResult[T], convert func(*T) R) *service.ImportResult[R] {
	out := &service.ImportResult[R]{
		TotalRows:  result.TotalRows,
		Successful: result.Successful,
		Failed:     result.Failed,
		Created:    make([]R, 0, len(result.Created)),
		Errors:     result.Errors,
	}
	for i := range result.Created {
		out.Created = append(out.Created, convert(&result.Created[i]))
	}
	return out
}

// UserResponse is a user as shown to administrators and to the user themselves
type UserResponse struct {
	ID                uuid.UUID `json:"id"`
	FullName          string    `json:"full_name"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	ApprovalStatus    string    `json:"approval_status"`
	IsActive          bool      `json:"is_active"`
	PasswordChangedAt time.Time `json:"password_changed_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewUserResponse converts a user
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		FullName:          u.FullName,
		Username:          u.Username,
		Email:             u.Email,
		Role:              u.Role.String(),
		ApprovalStatus:    u.ApprovalStatus.String(),
		IsActive:          u.IsActive,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
	}
}

// NewUserPage converts a page of users
func NewUserPage(result *pagination.PaginatedResult[entity.User]) *pagination.PaginatedResult[UserResponse] {
	items := make([]UserResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, NewUserResponse(&result.Items[i]))
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}
