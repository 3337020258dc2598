package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/pkg/pagination"
)

// VendorRepository defines the interface for vendor data operations
type VendorRepository interface {
	// Create inserts the vendor and any assignments attached to it.
	Create(ctx context.Context, vendor *entity.Vendor) error
	CreateBatch(ctx context.Context, vendors []entity.Vendor) error
	// GetByID loads the vendor with its assignments and their clients.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	GetByRUT(ctx context.Context, rut string) (*entity.Vendor, error)
	GetByRUTs(ctx context.Context, ruts []string) (map[string]entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	// Delete removes the vendor together with its commission assignments.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Vendor, int64, error)
}

// AssignmentRepository defines the interface for vendor to client commission links
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.CommissionAssignment) error
	Get(ctx context.Context, vendorID, clientID uuid.UUID) (*entity.CommissionAssignment, error)
	Update(ctx context.Context, assignment *entity.CommissionAssignment) error
	Delete(ctx context.Context, vendorID, clientID uuid.UUID) error
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]entity.CommissionAssignment, error)
	// ListByVendors returns every assignment held by any of the vendors.
	ListByVendors(ctx context.Context, vendorIDs []uuid.UUID) ([]entity.CommissionAssignment, error)
	// Pairs returns the set of assigned (vendor, client) pairs among the given vendors.
	Pairs(ctx context.Context, vendorIDs []uuid.UUID) (map[[2]uuid.UUID]bool, error)
}
