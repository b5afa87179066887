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

var (
	// ErrInsufficientOutstanding is returned when a debt payment exceeds what is owed
	ErrInsufficientOutstanding = errors.New("payment exceeds outstanding amount")
	// ErrSaleAlreadyCancelled is returned when cancelling a cancelled sale
	ErrSaleAlreadyCancelled = errors.New("sale already cancelled")
	// ErrSaleHasPayments is returned when cancelling a sale with recorded debt payments
	ErrSaleHasPayments = errors.New("sale has debt payments")
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)
	// ListPendingCredit returns open credit sales, optionally filtered by client name
	ListPendingCredit(ctx context.Context, search string) ([]entity.Sale, error)
	ListPendingByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Sale, error)
	// ListCreditHistory returns credit sales that are paid or partially paid
	ListCreditHistory(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
	// ListInRange returns non-cancelled sales with sold_at in [from, to), oldest first
	ListInRange(ctx context.Context, from, to time.Time) ([]entity.Sale, error)
	Recent(ctx context.Context, limit int) ([]entity.Sale, error)
	SumInRange(ctx context.Context, from, to time.Time) (int64, error)
	// OutstandingSince sums what open credit sales sold since from still owe.
	// A nil from covers every open sale.
	OutstandingSince(ctx context.Context, from *time.Time) (int64, error)
	// Cancel marks the sale cancelled and restores its stock in one transaction
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) error
	// ApplyDebtPayment adds amount to amount_paid, marks the sale paid once settled,
	// and stores payment, all in one transaction.
	ApplyDebtPayment(ctx context.Context, saleID uuid.UUID, amount int64, payment *entity.Payment) (*entity.Sale, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	ClientID   *uuid.UUID
	ProductID  *uuid.UUID
	Status     *enum.PaymentStatus
	Method     *enum.PaymentMethod
	Cancelled  *bool
	From       *time.Time
	To         *time.Time
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor    *pagination.CursorParams
	ClientID  *uuid.UUID
	ProductID *uuid.UUID
	Status    *enum.PaymentStatus
	Method    *enum.PaymentMethod
	Cancelled *bool
	From      *time.Time
	To        *time.Time
}
