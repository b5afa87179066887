package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductCode  string    `json:"product_code"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      int64     `json:"-"`
}

// CategorySalesResult represents sales aggregated by category
type CategorySalesResult struct {
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name"`
	Quantity     int64      `json:"quantity"`
	SaleCount    int64      `json:"sale_count"`
	Total        int64      `json:"-"`
}

// AnalyticsRepository defines aggregation queries over non-cancelled sales
type AnalyticsRepository interface {
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
	GetSalesByCategory(ctx context.Context, from, to time.Time) ([]CategorySalesResult, error)
}
