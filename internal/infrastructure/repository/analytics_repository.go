package repository

import (
	"context"
	"time"

	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.code AS product_code,
			COALESCE(SUM(s.quantity), 0) AS quantity_sold,
			COALESCE(SUM(s.total), 0) AS revenue
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.cancelled = ? AND s.sold_at >= ? AND s.sold_at < ?
		GROUP BY p.id, p.name, p.code
		ORDER BY revenue DESC, quantity_sold DESC
		LIMIT ?
	`, false, from.UTC(), to.UTC(), limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepository) GetSalesByCategory(ctx context.Context, from, to time.Time) ([]domainRepo.CategorySalesResult, error) {
	var results []domainRepo.CategorySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS category_id,
			COALESCE(c.name, 'Otros') AS category_name,
			COALESCE(SUM(s.quantity), 0) AS quantity,
			COUNT(s.id) AS sale_count,
			COALESCE(SUM(s.total), 0) AS total
		FROM sales s
		JOIN products p ON p.id = s.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE s.cancelled = ? AND s.sold_at >= ? AND s.sold_at < ?
		GROUP BY c.id, c.name
		ORDER BY total DESC
	`, false, from.UTC(), to.UTC()).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
