package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses of retried writes
type IdempotencyRepository interface {
	// Find returns the user's record for key, or nil when there is none
	Find(ctx context.Context, userID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	Save(ctx context.Context, record *entity.IdempotencyKey) error
	Delete(ctx context.Context, id uuid.UUID) error
	// PurgeExpired removes records that expired before now and reports how many
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
