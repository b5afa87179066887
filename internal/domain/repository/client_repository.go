package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// ErrDuplicateDNI is returned when a live client already holds the DNI
var ErrDuplicateDNI = errors.New("dni already registered")

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	// GetByDNI returns the live client holding the DNI, or nil
	GetByDNI(ctx context.Context, dni string) (*entity.Client, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ClientFilterParams) ([]entity.Client, int64, error)
	ListWithCursor(ctx context.Context, params *ClientCursorFilterParams) ([]entity.Client, error)
	// Stats counts clients by status and those registered since monthStart
	Stats(ctx context.Context, monthStart time.Time) (*ClientStats, error)
}

// ClientFilterParams contains filtering parameters for client queries
type ClientFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ClientStatus
}

// ClientCursorFilterParams contains cursor-based filtering parameters for client queries
type ClientCursorFilterParams struct {
	Cursor *pagination.CursorParams
	Search string
	Status *enum.ClientStatus
}

// ClientStats aggregates client counts
type ClientStats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Inactive     int64 `json:"inactive"`
	NewThisMonth int64 `json:"new_this_month"`
}
