package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

var membershipTypes = []enum.PaymentType{
	enum.PaymentTypeDaily, enum.PaymentTypeMonthly, enum.PaymentTypeQuarterly,
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Client", withDeletedClients).
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Omit("Client", "Sale").Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Payment{}, "id = ?", id).Error
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(RangeScope("payments.paid_at", params.From, params.To))

	if params.ClientID != nil {
		query = query.Where("payments.client_id = ?", *params.ClientID)
	}
	if params.Type != nil {
		query = query.Where("payments.type = ?", *params.Type)
	}
	if params.Method != nil {
		query = query.Where("payments.method = ?", *params.Method)
	}
	if params.Search != "" {
		query = query.Joins("JOIN clients ON clients.id = payments.client_id").
			Scopes(SearchScope(params.Search, "clients.name"))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client", withDeletedClients).
		Order("payments.paid_at DESC, payments.id DESC").
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("paid_at DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListMemberships(ctx context.Context, clientID *uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	query := r.db.WithContext(ctx).Where("type IN ?", membershipTypes)
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	err := query.Order("paid_at ASC, id ASC").Find(&payments).Error
	return payments, err
}

// ListInRange and SumInRange cover membership income only. Product payments
// settle credit sales that were already booked at sale time.
func (r *paymentRepository) ListInRange(ctx context.Context, from, to time.Time) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("type IN ?", membershipTypes).
		Scopes(RangeScope("paid_at", &from, &to)).
		Preload("Client", withDeletedClients).
		Order("paid_at ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Recent(ctx context.Context, limit int) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Client", withDeletedClients).
		Order("paid_at DESC, id DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("type IN ?", membershipTypes).
		Scopes(RangeScope("paid_at", &from, &to)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *paymentRepository) TotalsByType(ctx context.Context, from, to *time.Time) ([]domainRepo.PaymentTypeTotal, error) {
	var rows []domainRepo.PaymentTypeTotal
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(RangeScope("paid_at", from, to)).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type").
		Order("type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *paymentRepository) CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("sale_id = ?", saleID).
		Count(&count).Error
	return count, err
}

// withDeletedClients keeps history readable after a client is soft deleted.
func withDeletedClients(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
