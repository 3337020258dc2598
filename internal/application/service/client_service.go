package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/sangkips/bonos-api/pkg/rut"
	"github.com/sangkips/bonos-api/pkg/sanitize"
)

// ClientService handles client-related operations
type ClientService struct {
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
	cache       *BonusCache
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	cache *BonusCache,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		cache:       cache,
	}
}

// CreateClientInput represents the create client input
type CreateClientInput struct {
	LegalName string
	RUT       string
	Sector    *string
	Location  *string
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *CreateClientInput) (*entity.Client, error) {
	if !rut.Valid(input.RUT) {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "rut", Message: "RUT is invalid"}})
	}
	normalized := rut.Normalize(input.RUT)

	legalName := sanitize.Text(input.LegalName)
	if legalName == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "legal_name", Message: "Legal name is required"}})
	}

	existing, err := s.clientRepo.GetByRUT(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A client with this RUT already exists")
	}

	client := &entity.Client{
		LegalName: legalName,
		RUT:       normalized,
		Sector:    sanitize.OptionalText(input.Sector),
		Location:  sanitize.OptionalText(input.Location),
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists clients matching search by legal name or RUT
func (s *ClientService) ListClients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	clients, total, err := s.clientRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// UpdateClientInput represents the update client input. The RUT cannot change.
type UpdateClientInput struct {
	ID        uuid.UUID
	LegalName *string
	Sector    *string
	Location  *string
}

// UpdateClient updates a client
func (s *ClientService) UpdateClient(ctx context.Context, input *UpdateClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.LegalName != nil {
		name := sanitize.Text(*input.LegalName)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "legal_name", Message: "Legal name is required"}})
		}
		client.LegalName = name
	}
	if input.Sector != nil {
		client.Sector = sanitize.OptionalText(input.Sector)
	}
	if input.Location != nil {
		client.Location = sanitize.OptionalText(input.Location)
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	return client, nil
}

// DeleteClient deletes a client and its commission assignments.
// Clients that still have invoices cannot be deleted.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Client has %d invoices and cannot be deleted", count))
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// ImportClientRow represents a single row from the import file
type ImportClientRow struct {
	LegalName string `json:"legal_name"`
	RUT       string `json:"rut"`
	Sector    string `json:"sector"`
	Location  string `json:"location"`
}

// ImportClients validates and bulk-creates clients from parsed import rows
func (s *ClientService) ImportClients(ctx context.Context, rows []ImportClientRow) (*ImportResult[entity.Client], error) {
	result := &ImportResult[entity.Client]{TotalRows: len(rows)}

	ruts := make([]string, 0, len(rows))
	for _, row := range rows {
		if rut.Valid(row.RUT) {
			ruts = append(ruts, rut.Normalize(row.RUT))
		}
	}
	existing, err := s.clientRepo.GetByRUTs(ctx, ruts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	var valid []entity.Client

	for i, row := range rows {
		rowNum := importRowNumber(i)

		legalName := sanitize.Text(row.LegalName)
		if legalName == "" {
			result.fail(rowNum, "legal_name", "Legal name is required")
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

		normalized := rut.Normalize(row.RUT)
		if prev, dup := seen[normalized]; dup {
			result.fail(rowNum, "rut", fmt.Sprintf("Duplicate RUT '%s' (same as row %d)", normalized, prev))
			continue
		}
		if _, found := existing[normalized]; found {
			result.fail(rowNum, "rut", fmt.Sprintf("Client with RUT '%s' already exists", normalized))
			continue
		}
		seen[normalized] = rowNum

		valid = append(valid, entity.Client{
			LegalName: legalName,
			RUT:       normalized,
			Sector:    sanitize.OptionalText(&row.Sector),
			Location:  sanitize.OptionalText(&row.Location),
		})
	}

	if err := s.clientRepo.CreateBatch(ctx, valid); err != nil {
		return nil, apperror.NewInternalError("Failed to import clients", err)
	}

	return result.finish(valid), nil
}
