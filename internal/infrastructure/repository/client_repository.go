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

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) CreateBatch(ctx context.Context, clients []entity.Client) error {
	if len(clients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(clients, 100).Error
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) GetByRUT(ctx context.Context, rut string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "rut = ?", rut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) GetByRUTs(ctx context.Context, ruts []string) (map[string]entity.Client, error) {
	found := make(map[string]entity.Client, len(ruts))
	if len(ruts) == 0 {
		return found, nil
	}

	var clients []entity.Client
	if err := r.db.WithContext(ctx).Where("rut IN ?", ruts).Find(&clients).Error; err != nil {
		return nil, err
	}
	for _, c := range clients {
		found[c.RUT] = c
	}
	return found, nil
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.CommissionAssignment{}, "client_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Client{}, "id = ?", id).Error
	})
}

func (r *clientRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Scopes(Search(search, "legal_name", "rut"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("legal_name ASC").
		Find(&clients).Error

	return clients, total, err
}
