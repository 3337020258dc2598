package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/sangkips/bonos-api/pkg/rut"
	"github.com/sangkips/bonos-api/pkg/sanitize"
	"github.com/sangkips/bonos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// VendorService handles vendors and their commission assignments
type VendorService struct {
	vendorRepo     repository.VendorRepository
	assignmentRepo repository.AssignmentRepository
	clientRepo     repository.ClientRepository
	invoiceRepo    repository.InvoiceRepository
	cache          *BonusCache
}

// NewVendorService creates a new vendor service
func NewVendorService(
	vendorRepo repository.VendorRepository,
	assignmentRepo repository.AssignmentRepository,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	cache *BonusCache,
) *VendorService {
	return &VendorService{
		vendorRepo:     vendorRepo,
		assignmentRepo: assignmentRepo,
		clientRepo:     clientRepo,
		invoiceRepo:    invoiceRepo,
		cache:          cache,
	}
}

// AssignmentInput links a vendor to a client. Percentage is a fraction in (0, 1].
type AssignmentInput struct {
	ClientID   uuid.UUID
	Percentage decimal.Decimal
}

func validatePercentage(p decimal.Decimal) error {
	if !p.IsPositive() || p.GreaterThan(decimal.NewFromInt(1)) {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "percentage", Message: "Percentage must be greater than 0 and at most 100"},
		})
	}
	return nil
}

func validateVendorName(name string) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 255 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "full_name", Message: "Full name must be between 3 and 255 characters"},
		})
	}
	return nil
}

// CreateVendorInput represents the create vendor input
type CreateVendorInput struct {
	FullName    string
	RUT         string
	BaseSalary  decimal.Decimal
	Assignments []AssignmentInput
}

// CreateVendor creates a vendor with optional initial assignments
func (s *VendorService) CreateVendor(ctx context.Context, input *CreateVendorInput) (*entity.Vendor, error) {
	fullName := sanitize.Text(input.FullName)
	if err := validateVendorName(fullName); err != nil {
		return nil, err
	}
	if !rut.Valid(input.RUT) {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "rut", Message: "RUT is invalid"}})
	}
	if input.BaseSalary.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "base_salary", Message: "Base salary must be zero or greater"}})
	}
	normalized := rut.Normalize(input.RUT)

	existing, err := s.vendorRepo.GetByRUT(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A vendor with this RUT already exists")
	}

	vendor := &entity.Vendor{
		FullName:   fullName,
		RUT:        normalized,
		BaseSalary: input.BaseSalary,
	}

	seen := make(map[uuid.UUID]bool)
	for _, a := range input.Assignments {
		if err := validatePercentage(a.Percentage); err != nil {
			return nil, err
		}
		if seen[a.ClientID] {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Client %s is assigned more than once", a.ClientID))
		}
		seen[a.ClientID] = true

		client, err := s.clientRepo.GetByID(ctx, a.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Client %s not found", a.ClientID))
		}
		vendor.Assignments = append(vendor.Assignments, entity.CommissionAssignment{
			ClientID:   a.ClientID,
			Percentage: a.Percentage,
		})
	}

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	if len(vendor.Assignments) > 0 {
		s.cache.Invalidate()
	}

	return s.GetVendor(ctx, vendor.ID)
}

// GetVendor retrieves a vendor with assignments
func (s *VendorService) GetVendor(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}
	return vendor, nil
}

// ListVendors lists vendors matching search by name or RUT
func (s *VendorService) ListVendors(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Vendor], error) {
	vendors, total, err := s.vendorRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(vendors, pag), nil
}

// UpdateVendorInput represents the update vendor input. The RUT cannot change.
type UpdateVendorInput struct {
	ID         uuid.UUID
	FullName   *string
	BaseSalary *decimal.Decimal
}

// UpdateVendor updates a vendor
func (s *VendorService) UpdateVendor(ctx context.Context, input *UpdateVendorInput) (*entity.Vendor, error) {
	vendor, err := s.GetVendor(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := sanitize.Text(*input.FullName)
		if err := validateVendorName(name); err != nil {
			return nil, err
		}
		vendor.FullName = name
	}
	if input.BaseSalary != nil {
		if input.BaseSalary.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "base_salary", Message: "Base salary must be zero or greater"}})
		}
		vendor.BaseSalary = *input.BaseSalary
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	return vendor, nil
}

// DeleteVendor deletes a vendor and its assignments.
// Vendors that still have invoices cannot be deleted.
func (s *VendorService) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetVendor(ctx, id); err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountByVendor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Vendor has %d invoices and cannot be deleted", count))
	}

	if err := s.vendorRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// ListAssignments returns the vendor's assignments with their clients
func (s *VendorService) ListAssignments(ctx context.Context, vendorID uuid.UUID) ([]entity.CommissionAssignment, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}
	return s.assignmentRepo.ListByVendor(ctx, vendorID)
}

// AddAssignment links a client to a vendor
func (s *VendorService) AddAssignment(ctx context.Context, vendorID uuid.UUID, input *AssignmentInput) (*entity.CommissionAssignment, error) {
	if err := validatePercentage(input.Percentage); err != nil {
		return nil, err
	}

	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewBadRequestError("Client not found")
	}

	existing, err := s.assignmentRepo.Get(ctx, vendorID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Client is already assigned to this vendor")
	}

	assignment := &entity.CommissionAssignment{
		VendorID:   vendorID,
		ClientID:   input.ClientID,
		Percentage: input.Percentage,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	assignment.Client = client
	return assignment, nil
}

// UpdateAssignment changes the percentage of an existing assignment
func (s *VendorService) UpdateAssignment(ctx context.Context, vendorID, clientID uuid.UUID, percentage decimal.Decimal) (*entity.CommissionAssignment, error) {
	if err := validatePercentage(percentage); err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.Get(ctx, vendorID, clientID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, apperror.NewNotFoundError("Assignment")
	}

	assignment.Percentage = percentage
	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	return assignment, nil
}

// RemoveAssignment unlinks a client from a vendor
func (s *VendorService) RemoveAssignment(ctx context.Context, vendorID, clientID uuid.UUID) error {
	assignment, err := s.assignmentRepo.Get(ctx, vendorID, clientID)
	if err != nil {
		return err
	}
	if assignment == nil {
		return apperror.NewNotFoundError("Assignment")
	}

	if err := s.assignmentRepo.Delete(ctx, vendorID, clientID); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// ImportVendorRow represents a single row from the import file
type ImportVendorRow struct {
	FullName   string `json:"full_name"`
	RUT        string `json:"rut"`
	BaseSalary string `json:"base_salary"`
}

// ImportVendors validates and bulk-creates vendors from parsed import rows
func (s *VendorService) ImportVendors(ctx context.Context, rows []ImportVendorRow) (*ImportResult[entity.Vendor], error) {
	result := &ImportResult[entity.Vendor]{TotalRows: len(rows)}

	ruts := make([]string, 0, len(rows))
	for _, row := range rows {
		if rut.Valid(row.RUT) {
			ruts = append(ruts, rut.Normalize(row.RUT))
		}
	}
	existing, err := s.vendorRepo.GetByRUTs(ctx, ruts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	var valid []entity.Vendor

	for i, row := range rows {
		rowNum := importRowNumber(i)

		fullName := sanitize.Text(row.FullName)
		if fullName == "" {
			result.fail(rowNum, "full_name", "Full name is required")
			continue
		}
		if validateVendorName(fullName) != nil {
			result.fail(rowNum, "full_name", "Full name must be between 3 and 255 characters")
			continue
		}
		if strings.TrimSpace(row.RUT) == "" {
			result.fail(rowNum, "rut", "RUT is required")
			continue
		}
		if !rut.Valid(row.RUT) {
			result.fail(rowNum, "rut", fmt.Sprintf("RUT '%s' is invalid", row.RUT))
			continue
		}

		salary, err := utils.ParseAmount(row.BaseSalary)
		if err != nil {
			result.fail(rowNum, "base_salary", fmt.Sprintf("Base salary '%s': %v", row.BaseSalary, err))
			continue
		}

		normalized := rut.Normalize(row.RUT)
		if prev, dup := seen[normalized]; dup {
			result.fail(rowNum, "rut", fmt.Sprintf("Duplicate RUT '%s' (same as row %d)", normalized, prev))
			continue
		}
		if _, found := existing[normalized]; found {
			result.fail(rowNum, "rut", fmt.Sprintf("Vendor with RUT '%s' already exists", normalized))
			continue
		}
		seen[normalized] = rowNum

		valid = append(valid, entity.Vendor{
			FullName:   fullName,
			RUT:        normalized,
			BaseSalary: salary,
		})
	}

	if err := s.vendorRepo.CreateBatch(ctx, valid); err != nil {
		return nil, apperror.NewInternalError("Failed to import vendors", err)
	}

	return result.finish(valid), nil
}
