package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListWithCursor(ctx context.Context, params *ProductCursorFilterParams) ([]entity.Product, error)
	// GetLowStock returns active products with stock below threshold
	GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
	// AtomicDecrementStock decrements stock of an active product only if sufficient.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock or inactive.
	AtomicDecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) error
	// AdjustStock applies a signed delta. Returns false when the result would go negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
	Stats(ctx context.Context, lowStockThreshold int) (*ProductStats, error)
	CountActiveByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	CategoryID      *uuid.UUID
	LowStockBelow   int // 0 disables the filter
	IncludeInactive bool
	SortBy          string
	SortOrder       string
}

// ProductCursorFilterParams contains cursor-based filtering parameters for product queries
type ProductCursorFilterParams struct {
	Cursor          *pagination.CursorParams
	Search          string
	CategoryID      *uuid.UUID
	LowStockBelow   int
	IncludeInactive bool
}

// ProductStats summarises the active inventory
type ProductStats struct {
	ActiveCount    int64
	TotalUnits     int64
	LowStockCount  int64
	InventoryValue int64 // cents
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]entity.Category, error)
}
