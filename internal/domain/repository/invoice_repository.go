package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/pkg/pagination"
)

// InvoiceFilter narrows invoice listings. Zero values mean no restriction.
type InvoiceFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	VendorID  *uuid.UUID
	ClientID  *uuid.UUID
	Search    string
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateBatch(ctx context.Context, invoices []entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter InvoiceFilter, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)
	// ListIssuedBetween returns invoices issued in [start, end] with vendor
	// and client preloaded. start and end are calendar dates.
	ListIssuedBetween(ctx context.Context, start, end time.Time, vendorID *uuid.UUID) ([]entity.Invoice, error)
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}
