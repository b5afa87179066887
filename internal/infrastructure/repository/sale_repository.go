package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// pendingCredit restricts to open fiado sales
func pendingCredit(db *gorm.DB) *gorm.DB {
	return db.Where("sales.method = ? AND sales.status = ? AND sales.cancelled = ?",
		enum.PaymentMethodCredit, enum.PaymentStatusPending, false)
}

func notCancelled(db *gorm.DB) *gorm.DB {
	return db.Where("sales.cancelled = ?", false)
}

func preloadSale(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").
		Preload("Product.Category").
		Preload("Client", withDeletedClients)
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit("Product", "Client", "Payments").Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(preloadSale).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") }).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) filtered(ctx context.Context, clientID, productID *uuid.UUID, status *enum.PaymentStatus,
	method *enum.PaymentMethod, cancelled *bool, from, to *time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(RangeScope("sales.sold_at", from, to))

	if clientID != nil {
		query = query.Where("sales.client_id = ?", *clientID)
	}
	if productID != nil {
		query = query.Where("sales.product_id = ?", *productID)
	}
	if status != nil {
		query = query.Where("sales.status = ?", *status)
	}
	if method != nil {
		query = query.Where("sales.method = ?", *method)
	}
	if cancelled != nil {
		query = query.Where("sales.cancelled = ?", *cancelled)
	}
	return query
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.filtered(ctx, params.ClientID, params.ProductID, params.Status, params.Method,
		params.Cancelled, params.From, params.To)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Scopes(preloadSale).
		Order("sales.sold_at DESC, sales.id DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListWithCursor(ctx context.Context, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	base := r.filtered(ctx, params.ClientID, params.ProductID, params.Status, params.Method,
		params.Cancelled, params.From, params.To)
	query, reverse, err := applyKeyset(base, "sold_at", params.Cursor)
	if err != nil {
		return nil, err
	}

	if err := query.Limit(params.Cursor.Limit + 1).Scopes(preloadSale).Find(&sales).Error; err != nil {
		return nil, err
	}
	if reverse {
		reverseInPlace(sales)
	}
	return sales, nil
}

func (r *saleRepository) ListPendingCredit(ctx context.Context, search string) ([]entity.Sale, error) {
	var sales []entity.Sale
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).Scopes(pendingCredit)
	if search != "" {
		query = query.Joins("JOIN clients ON clients.id = sales.client_id").
			Scopes(SearchScope(search, "clients.name"))
	}
	err := query.Scopes(preloadSale).
		Order("sales.sold_at ASC, sales.id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ListPendingByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(pendingCredit, preloadSale).
		Where("sales.client_id = ?", clientID).
		Order("sales.sold_at ASC, sales.id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ListCreditHistory(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("sales.method = ? AND sales.cancelled = ?", enum.PaymentMethodCredit, false).
		Where("(sales.status = ? OR sales.amount_paid > 0)", enum.PaymentStatusPaid)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Scopes(preloadSale).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") }).
		Order("sales.sold_at DESC, sales.id DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListInRange(ctx context.Context, from, to time.Time) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(notCancelled, RangeScope("sales.sold_at", &from, &to), preloadSale).
		Order("sales.sold_at ASC, sales.id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) Recent(ctx context.Context, limit int) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(notCancelled, preloadSale).
		Order("sales.sold_at DESC, sales.id DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) SumInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(notCancelled, RangeScope("sales.sold_at", &from, &to)).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepository) OutstandingSince(ctx context.Context, from *time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(pendingCredit, RangeScope("sales.sold_at", from, nil)).
		Select("COALESCE(SUM(total - amount_paid), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale entity.Sale
		if err := tx.First(&sale, "id = ?", id).Error; err != nil {
			return err
		}

		// Guarded in the UPDATE: a debt payment committed after the read
		// changes amount_paid and adds a payment row, so the update misses.
		result := tx.Model(&entity.Sale{}).
			Where("id = ? AND cancelled = ? AND amount_paid = ?", id, false, sale.AmountPaid).
			Where("NOT EXISTS (SELECT 1 FROM payments WHERE payments.sale_id = sales.id)").
			Updates(map[string]interface{}{"cancelled": true, "cancelled_at": at.UTC()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var payments int64
			if err := tx.Model(&entity.Payment{}).Where("sale_id = ?", id).Count(&payments).Error; err != nil {
				return err
			}
			if payments > 0 {
				return domainRepo.ErrSaleHasPayments
			}
			return domainRepo.ErrSaleAlreadyCancelled
		}

		return tx.Model(&entity.Product{}).
			Where("id = ?", sale.ProductID).
			Update("stock", gorm.Expr("stock + ?", sale.Quantity)).Error
	})
}

// ApplyDebtPayment guards the increment with the outstanding amount so two
// concurrent payments can never overpay a sale.
func (r *saleRepository) ApplyDebtPayment(ctx context.Context, saleID uuid.UUID, amount int64, payment *entity.Payment) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Sale{}).
			Scopes(pendingCredit).
			Where("sales.id = ? AND sales.total - sales.amount_paid >= ?", saleID, amount).
			Updates(map[string]interface{}{
				"amount_paid": gorm.Expr("amount_paid + ?", amount),
				"status":      gorm.Expr("CASE WHEN amount_paid + ? >= total THEN ? ELSE status END", amount, enum.PaymentStatusPaid),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrInsufficientOutstanding
		}

		payment.SaleID = &saleID
		if err := tx.Omit("Client", "Sale").Create(payment).Error; err != nil {
			return err
		}

		return tx.Scopes(preloadSale).First(&sale, "id = ?", saleID).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
