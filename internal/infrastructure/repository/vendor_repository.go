package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"gorm.io/gorm"
)

type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) domainRepo.VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepository) CreateBatch(ctx context.Context, vendors []entity.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(vendors, 100).Error
}

func (r *vendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).
		Preload("Assignments.Client").
		First(&vendor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &vendor, err
}

func (r *vendorRepository) GetByRUT(ctx context.Context, rut string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).First(&vendor, "rut = ?", rut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &vendor, err
}

func (r *vendorRepository) GetByRUTs(ctx context.Context, ruts []string) (map[string]entity.Vendor, error) {
	found := make(map[string]entity.Vendor, len(ruts))
	if len(ruts) == 0 {
		return found, nil
	}

	var vendors []entity.Vendor
	if err := r.db.WithContext(ctx).Where("rut IN ?", ruts).Find(&vendors).Error; err != nil {
		return nil, err
	}
	for _, v := range vendors {
		found[v.RUT] = v
	}
	return found, nil
}

// Update saves the vendor's own columns. Assignments are managed through
// the assignment repository.
func (r *vendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Omit("Assignments").Save(vendor).Error
}

func (r *vendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.CommissionAssignment{}, "vendor_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Vendor{}, "id = ?", id).Error
	})
}

func (r *vendorRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Vendor, int64, error) {
	var vendors []entity.Vendor
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Vendor{}).
		Scopes(Search(search, "full_name", "rut"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Assignments.Client").
		Order("full_name ASC").
		Find(&vendors).Error

	return vendors, total, err
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new commission assignment repository
func NewAssignmentRepository(db *gorm.DB) domainRepo.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *entity.CommissionAssignment) error {
	return r.db.WithContext(ctx).Omit("Client").Create(assignment).Error
}

func (r *assignmentRepository) Get(ctx context.Context, vendorID, clientID uuid.UUID) (*entity.CommissionAssignment, error) {
	var a entity.CommissionAssignment
	err := r.db.WithContext(ctx).
		Preload("Client").
		First(&a, "vendor_id = ? AND client_id = ?", vendorID, clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *entity.CommissionAssignment) error {
	return r.db.WithContext(ctx).Omit("Client").Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, vendorID, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.CommissionAssignment{}, "vendor_id = ? AND client_id = ?", vendorID, clientID).Error
}

func (r *assignmentRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]entity.CommissionAssignment, error) {
	var assignments []entity.CommissionAssignment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) ListByVendors(ctx context.Context, vendorIDs []uuid.UUID) ([]entity.CommissionAssignment, error) {
	var assignments []entity.CommissionAssignment
	if len(vendorIDs) == 0 {
		return assignments, nil
	}
	err := r.db.WithContext(ctx).
		Where("vendor_id IN ?", vendorIDs).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) Pairs(ctx context.Context, vendorIDs []uuid.UUID) (map[[2]uuid.UUID]bool, error) {
	assignments, err := r.ListByVendors(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}
	pairs := make(map[[2]uuid.UUID]bool, len(assignments))
	for _, a := range assignments {
		pairs[[2]uuid.UUID{a.VendorID, a.ClientID}] = true
	}
	return pairs, nil
}
