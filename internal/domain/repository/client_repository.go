package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/pkg/pagination"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	CreateBatch(ctx context.Context, clients []entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	GetByRUT(ctx context.Context, rut string) (*entity.Client, error)
	// GetByRUTs returns the clients found for the given normalized RUTs, keyed by RUT.
	GetByRUTs(ctx context.Context, ruts []string) (map[string]entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	// Delete removes the client together with its commission assignments.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error)
}
