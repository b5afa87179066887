package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
	// ListByClient returns every payment of a client, newest first
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Payment, error)
	// ListMemberships returns membership payments ordered by paid_at ascending.
	// A nil clientID returns them for every client.
	ListMemberships(ctx context.Context, clientID *uuid.UUID) ([]entity.Payment, error)
	// ListInRange returns payments with paid_at in [from, to), oldest first
	ListInRange(ctx context.Context, from, to time.Time) ([]entity.Payment, error)
	Recent(ctx context.Context, limit int) ([]entity.Payment, error)
	SumInRange(ctx context.Context, from, to time.Time) (int64, error)
	TotalsByType(ctx context.Context, from, to *time.Time) ([]PaymentTypeTotal, error)
	CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	ClientID   *uuid.UUID
	Type       *enum.PaymentType
	Method     *enum.PaymentMethod
	From       *time.Time
	To         *time.Time
	Search     string // client name
}

// PaymentTypeTotal is the sum and count of payments of one type
type PaymentTypeTotal struct {
	Type  enum.PaymentType
	Total int64
	Count int64
}
