package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// SaleService handles counter sales
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	clock       Clock
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	clock Clock,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		clock:       clock,
	}
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	UserID     uuid.UUID
	ProductID  uuid.UUID
	ClientID   *uuid.UUID
	Quantity   int
	Method     enum.PaymentMethod
	AmountPaid *decimal.Decimal // credit sales only
	Notes      *string
}

// CreateSale records a sale and takes the quantity out of stock
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if input.Quantity < 1 {
		return nil, apperror.NewFieldError("quantity", "Quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if !product.Active {
		return nil, apperror.NewFieldError("product_id", "Product is inactive")
	}

	if input.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, *input.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, apperror.NewNotFoundError("Client")
		}
	}

	if input.Quantity > product.Stock {
		return nil, apperror.NewBadRequestError("Insufficient stock for " + product.Name)
	}

	total := product.Price * int64(input.Quantity)
	amountPaid := total
	status := enum.PaymentStatusPaid

	if input.Method == enum.PaymentMethodCredit {
		if input.ClientID == nil {
			return nil, apperror.NewFieldError("client_id", "A client is required for credit sales")
		}
		amountPaid = 0
		if input.AmountPaid != nil {
			if amountTooLarge(*input.AmountPaid) {
				return nil, apperror.NewFieldError("amount_paid", "Amount paid must be at least 0 and less than the total")
			}
			amountPaid = toCents(*input.AmountPaid)
		}
		if amountPaid < 0 || amountPaid >= total {
			return nil, apperror.NewFieldError("amount_paid", "Amount paid must be at least 0 and less than the total")
		}
		status = enum.PaymentStatusPending
	}

	ok, err := s.productRepo.AtomicDecrementStock(ctx, product.ID, input.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewBadRequestError("Insufficient stock for " + product.Name)
	}

	now := s.clock.Now()
	userID := input.UserID
	sale := &entity.Sale{
		ReceiptNo:  utils.GenerateReceiptNo("V", now),
		ProductID:  product.ID,
		ClientID:   input.ClientID,
		Quantity:   input.Quantity,
		UnitPrice:  product.Price,
		Total:      total,
		AmountPaid: amountPaid,
		Method:     input.Method,
		Status:     status,
		SoldAt:     now,
		Notes:      trimmed(input.Notes),
	}
	if userID != uuid.Nil {
		sale.UserID = &userID
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Stock was already decremented
		if restoreErr := s.productRepo.IncrementStock(ctx, product.ID, input.Quantity); restoreErr != nil {
			log.Printf("sale: failed to restore %d units of product %s: %v", input.Quantity, product.ID, restoreErr)
		}
		return nil, err
	}

	return s.saleRepo.GetByID(ctx, sale.ID)
}

// GetSale retrieves a sale with its product, client and debt payments
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// SaleFilter holds the list filters shared by page and cursor listings.
// From and To are inclusive YYYY-MM-DD days in the gym timezone.
type SaleFilter struct {
	ClientID  *uuid.UUID
	ProductID *uuid.UUID
	Status    *enum.PaymentStatus
	Method    *enum.PaymentMethod
	Cancelled *bool
	From      string
	To        string
}

// ListSales lists sales newest first
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams, filter SaleFilter) (*pagination.PaginatedResult[entity.Sale], error) {
	from, to, err := dayBounds(filter.From, filter.To, s.clock.location())
	if err != nil {
		return nil, err
	}
	params.Validate()

	sales, total, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: params,
		ClientID:   filter.ClientID,
		ProductID:  filter.ProductID,
		Status:     filter.Status,
		Method:     filter.Method,
		Cancelled:  filter.Cancelled,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with keyset pagination on sold_at
func (s *SaleService) ListSalesWithCursor(ctx context.Context, cursor *pagination.CursorParams, filter SaleFilter) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	from, to, err := dayBounds(filter.From, filter.To, s.clock.location())
	if err != nil {
		return nil, err
	}
	if err := validateCursor(cursor); err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListWithCursor(ctx, &repository.SaleCursorFilterParams{
		Cursor:    cursor,
		ClientID:  filter.ClientID,
		ProductID: filter.ProductID,
		Status:    filter.Status,
		Method:    filter.Method,
		Cancelled: filter.Cancelled,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(sales, cursor.Limit, cursor.Cursor != "",
		func(s entity.Sale) string { return s.ID.String() },
		func(s entity.Sale) time.Time { return s.SoldAt },
	)
	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// CancelSale marks a sale cancelled and puts its quantity back in stock
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	if _, err := s.GetSale(ctx, id); err != nil {
		return nil, err
	}

	err := s.saleRepo.Cancel(ctx, id, s.clock.Now())
	switch {
	case errors.Is(err, repository.ErrSaleAlreadyCancelled):
		return nil, apperror.NewConflictError("Sale is already cancelled")
	case errors.Is(err, repository.ErrSaleHasPayments):
		return nil, apperror.NewUnprocessableError("Sale has debt payments recorded and cannot be cancelled")
	case err != nil:
		return nil, err
	}

	return s.saleRepo.GetByID(ctx, id)
}
