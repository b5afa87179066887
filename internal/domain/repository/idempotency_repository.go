package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve inserts ikey unless a live row for the same key and user
	// exists. A row that expired before now is replaced. It reports whether
	// ikey was inserted.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey, now time.Time) (bool, error)
	// Complete stores the response of a reserved key
	Complete(ctx context.Context, id uuid.UUID, code int, body string, expiresAt time.Time) error
	// Release drops a reservation whose request failed
	Release(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired keys and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
