package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/sangkips/bonos-api/pkg/rut"
	"github.com/sangkips/bonos-api/pkg/sanitize"
	"github.com/sangkips/bonos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	vendorRepo     repository.VendorRepository
	clientRepo     repository.ClientRepository
	assignmentRepo repository.AssignmentRepository
	cache          *BonusCache
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	vendorRepo repository.VendorRepository,
	clientRepo repository.ClientRepository,
	assignmentRepo repository.AssignmentRepository,
	cache *BonusCache,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		vendorRepo:     vendorRepo,
		clientRepo:     clientRepo,
		assignmentRepo: assignmentRepo,
		cache:          cache,
	}
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	OrderNumber string
	CaseNumber  *string
	IssuedOn    time.Time
	Fees        decimal.Decimal
	Expenses    decimal.Decimal
	VendorID    uuid.UUID
	ClientID    uuid.UUID
}

func validateAmounts(fees, expenses decimal.Decimal) error {
	var fieldErrors []apperror.FieldError
	if fees.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "fees", Message: "Fees must be zero or greater"})
	}
	if expenses.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "expenses", Message: "Expenses must be zero or greater"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// checkParties verifies the vendor and client exist and are linked.
func (s *InvoiceService) checkParties(ctx context.Context, vendorID, clientID uuid.UUID) error {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return apperror.NewNotFoundError("Vendor")
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NewNotFoundError("Client")
	}

	assignment, err := s.assignmentRepo.Get(ctx, vendorID, clientID)
	if err != nil {
		return err
	}
	if assignment == nil {
		return apperror.NewUnprocessableError("Client is not assigned to this vendor")
	}
	return nil
}

// CreateInvoice creates a new invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	orderNumber := sanitize.Text(input.OrderNumber)
	if orderNumber == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "order_number", Message: "Order number is required"}})
	}
	if input.IssuedOn.IsZero() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "issued_on", Message: "Issue date is required"}})
	}
	if err := validateAmounts(input.Fees, input.Expenses); err != nil {
		return nil, err
	}
	if err := s.checkParties(ctx, input.VendorID, input.ClientID); err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		OrderNumber: orderNumber,
		CaseNumber:  sanitize.OptionalText(input.CaseNumber),
		IssuedOn:    bonus.DateOf(input.IssuedOn),
		Fees:        input.Fees,
		Expenses:    input.Expenses,
		VendorID:    input.VendorID,
		ClientID:    input.ClientID,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	return s.GetInvoice(ctx, invoice.ID)
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if filter.StartDate != nil && filter.EndDate != nil {
		if err := bonus.ValidateRange(*filter.StartDate, *filter.EndDate); err != nil {
			return nil, rangeError(err)
		}
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateInvoiceInput represents the update invoice input
type UpdateInvoiceInput struct {
	ID          uuid.UUID
	OrderNumber *string
	CaseNumber  *string
	IssuedOn    *time.Time
	Fees        *decimal.Decimal
	Expenses    *decimal.Decimal
	VendorID    *uuid.UUID
	ClientID    *uuid.UUID
}

// UpdateInvoice updates an invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.OrderNumber != nil {
		orderNumber := sanitize.Text(*input.OrderNumber)
		if orderNumber == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "order_number", Message: "Order number is required"}})
		}
		invoice.OrderNumber = orderNumber
	}
	if input.CaseNumber != nil {
		invoice.CaseNumber = sanitize.OptionalText(input.CaseNumber)
	}
	if input.IssuedOn != nil {
		invoice.IssuedOn = bonus.DateOf(*input.IssuedOn)
	}
	if input.Fees != nil {
		invoice.Fees = *input.Fees
	}
	if input.Expenses != nil {
		invoice.Expenses = *input.Expenses
	}
	if err := validateAmounts(invoice.Fees, invoice.Expenses); err != nil {
		return nil, err
	}

	partiesChanged := false
	if input.VendorID != nil && *input.VendorID != invoice.VendorID {
		invoice.VendorID = *input.VendorID
		partiesChanged = true
	}
	if input.ClientID != nil && *input.ClientID != invoice.ClientID {
		invoice.ClientID = *input.ClientID
		partiesChanged = true
	}
	if partiesChanged {
		if err := s.checkParties(ctx, invoice.VendorID, invoice.ClientID); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	return s.GetInvoice(ctx, invoice.ID)
}

// DeleteInvoice deletes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetInvoice(ctx, id); err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// ImportInvoiceRow represents a single row from the import file.
// Amounts may use a comma as decimal separator; dates are YYYY-MM-DD.
type ImportInvoiceRow struct {
	OrderNumber string `json:"order_number"`
	CaseNumber  string `json:"case_number"`
	Fees        string `json:"fees"`
	Expenses    string `json:"expenses"`
	IssuedOn    string `json:"issued_on"`
	VendorRUT   string `json:"vendor_rut"`
	ClientRUT   string `json:"client_rut"`
}

// ImportInvoices validates and bulk-creates invoices from parsed import rows
func (s *InvoiceService) ImportInvoices(ctx context.Context, rows []ImportInvoiceRow) (*ImportResult[entity.Invoice], error) {
	result := &ImportResult[entity.Invoice]{TotalRows: len(rows)}

	var vendorRUTs, clientRUTs []string
	for _, row := range rows {
		if rut.Valid(row.VendorRUT) {
			vendorRUTs = append(vendorRUTs, rut.Normalize(row.VendorRUT))
		}
		if rut.Valid(row.ClientRUT) {
			clientRUTs = append(clientRUTs, rut.Normalize(row.ClientRUT))
		}
	}

	vendors, err := s.vendorRepo.GetByRUTs(ctx, vendorRUTs)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.GetByRUTs(ctx, clientRUTs)
	if err != nil {
		return nil, err
	}
	vendorIDs := make([]uuid.UUID, 0, len(vendors))
	for _, v := range vendors {
		vendorIDs = append(vendorIDs, v.ID)
	}
	assigned, err := s.assignmentRepo.Pairs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	var valid []entity.Invoice

	for i, row := range rows {
		rowNum := importRowNumber(i)

		orderNumber := sanitize.Text(row.OrderNumber)
		if orderNumber == "" {
			result.fail(rowNum, "order_number", "Order number is required")
			continue
		}

		issuedOn, err := bonus.ParseDate(strings.TrimSpace(row.IssuedOn))
		if err != nil {
			result.fail(rowNum, "issued_on", fmt.Sprintf("Date '%s' must be YYYY-MM-DD", row.IssuedOn))
			continue
		}

		fees, err := utils.ParseAmount(row.Fees)
		if err != nil {
			result.fail(rowNum, "fees", fmt.Sprintf("Fees '%s': %v", row.Fees, err))
			continue
		}
		expenses, err := utils.ParseAmount(row.Expenses)
		if err != nil {
			result.fail(rowNum, "expenses", fmt.Sprintf("Expenses '%s': %v", row.Expenses, err))
			continue
		}

		vendor, ok := vendors[rut.Normalize(row.VendorRUT)]
		if !rut.Valid(row.VendorRUT) || !ok {
			result.fail(rowNum, "vendor_rut", fmt.Sprintf("Vendor with RUT '%s' not found", row.VendorRUT))
			continue
		}
		client, ok := clients[rut.Normalize(row.ClientRUT)]
		if !rut.Valid(row.ClientRUT) || !ok {
			result.fail(rowNum, "client_rut", fmt.Sprintf("Client with RUT '%s' not found", row.ClientRUT))
			continue
		}
		if !assigned[[2]uuid.UUID{vendor.ID, client.ID}] {
			result.fail(rowNum, "client_rut", fmt.Sprintf("Client '%s' is not assigned to vendor '%s'", client.RUT, vendor.RUT))
			continue
		}

		valid = append(valid, entity.Invoice{
			OrderNumber: orderNumber,
			CaseNumber:  sanitize.OptionalText(&row.CaseNumber),
			IssuedOn:    issuedOn,
			Fees:        fees,
			Expenses:    expenses,
			VendorID:    vendor.ID,
			ClientID:    client.ID,
		})
	}

	if err := s.invoiceRepo.CreateBatch(ctx, valid); err != nil {
		return nil, apperror.NewInternalError("Failed to import invoices", err)
	}
	if len(valid) > 0 {
		s.cache.Invalidate()
	}

	return result.finish(valid), nil
}
