package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const debtHistoryPerPage = 10

// DebtService handles store credit (fiado)
type DebtService struct {
	saleRepo repository.SaleRepository
	clock    Clock
}

// NewDebtService creates a new debt service
func NewDebtService(saleRepo repository.SaleRepository, clock Clock) *DebtService {
	return &DebtService{saleRepo: saleRepo, clock: clock}
}

// DebtGroup is one client's open credit sales
type DebtGroup struct {
	Client      *entity.Client `json:"client"`
	Sales       []entity.Sale  `json:"sales"`
	Count       int            `json:"count"`
	Outstanding int64          `json:"-"`
}

func (g DebtGroup) MarshalJSON() ([]byte, error) {
	type Alias DebtGroup
	return json.Marshal(&struct {
		Alias
		Outstanding float64 `json:"outstanding"`
	}{Alias(g), fromCents(g.Outstanding)})
}

// ListDebts groups pending credit sales by client, largest debt first
func (s *DebtService) ListDebts(ctx context.Context, search string) ([]DebtGroup, error) {
	sales, err := s.saleRepo.ListPendingCredit(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	groups := make([]DebtGroup, 0)
	index := make(map[uuid.UUID]int)
	for _, sale := range sales {
		if sale.ClientID == nil {
			continue
		}
		i, ok := index[*sale.ClientID]
		if !ok {
			i = len(groups)
			index[*sale.ClientID] = i
			groups = append(groups, DebtGroup{Client: sale.Client})
		}
		groups[i].Sales = append(groups[i].Sales, sale)
		groups[i].Count++
		groups[i].Outstanding += sale.Outstanding()
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Outstanding > groups[b].Outstanding
	})
	return groups, nil
}

// DebtStats is outstanding credit by creation window
type DebtStats struct {
	Today     int64 `json:"-"`
	Last7Days int64 `json:"-"`
	ThisMonth int64 `json:"-"`
	Total     int64 `json:"-"`
}

func (d DebtStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{
		"today":       fromCents(d.Today),
		"last_7_days": fromCents(d.Last7Days),
		"this_month":  fromCents(d.ThisMonth),
		"total":       fromCents(d.Total),
	})
}

// Stats returns the outstanding amount of credit sales made today, in the
// last 7 days, this month and overall
func (s *DebtService) Stats(ctx context.Context) (*DebtStats, error) {
	now := s.clock.Now()
	loc := s.clock.location()
	today := utils.StartOfDay(now, loc).UTC()
	week := today.AddDate(0, 0, -6)
	month := utils.StartOfMonth(now, loc).UTC()

	stats := &DebtStats{}
	var err error
	if stats.Today, err = s.saleRepo.OutstandingSince(ctx, &today); err != nil {
		return nil, err
	}
	if stats.Last7Days, err = s.saleRepo.OutstandingSince(ctx, &week); err != nil {
		return nil, err
	}
	if stats.ThisMonth, err = s.saleRepo.OutstandingSince(ctx, &month); err != nil {
		return nil, err
	}
	if stats.Total, err = s.saleRepo.OutstandingSince(ctx, nil); err != nil {
		return nil, err
	}
	return stats, nil
}

// PayDebtInput represents a payment towards a credit sale
type PayDebtInput struct {
	UserID uuid.UUID
	SaleID uuid.UUID
	Amount decimal.Decimal
	Method enum.PaymentMethod
	Notes  *string
}

// DebtPayment is the result of a debt payment
type DebtPayment struct {
	Sale      *entity.Sale    `json:"sale"`
	Payment   *entity.Payment `json:"payment"`
	Remaining int64           `json:"-"`
	FullyPaid bool            `json:"fully_paid"`
}

func (d DebtPayment) MarshalJSON() ([]byte, error) {
	type Alias DebtPayment
	return json.Marshal(&struct {
		Alias
		Remaining float64 `json:"remaining"`
	}{Alias(d), fromCents(d.Remaining)})
}

// PayDebt applies a payment to a pending credit sale and records it as a
// product payment for the sale's client
func (s *DebtService) PayDebt(ctx context.Context, input *PayDebtInput) (*DebtPayment, error) {
	sale, err := s.saleRepo.GetByID(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if !sale.IsCredit() || sale.ClientID == nil {
		return nil, apperror.NewUnprocessableError("Sale is not a credit sale")
	}
	if sale.Cancelled {
		return nil, apperror.NewUnprocessableError("Sale is cancelled")
	}
	if sale.Status == enum.PaymentStatusPaid {
		return nil, apperror.NewUnprocessableError("Sale is already paid")
	}
	if input.Method == enum.PaymentMethodCredit {
		return nil, apperror.NewFieldError("method", "A debt cannot be paid on credit")
	}

	if amountTooLarge(input.Amount) {
		return nil, apperror.NewFieldError("amount", "Amount exceeds the outstanding debt")
	}
	amount := toCents(input.Amount)
	if amount <= 0 {
		return nil, apperror.NewFieldError("amount", "Amount must be greater than 0")
	}
	if amount > sale.Outstanding() {
		return nil, apperror.NewFieldError("amount", "Amount exceeds the outstanding debt")
	}

	notes := "Pago de deuda por venta " + sale.ReceiptNo
	if extra := trimmed(input.Notes); extra != nil {
		notes += ". " + *extra
	}
	payment := &entity.Payment{
		ClientID: *sale.ClientID,
		Type:     enum.PaymentTypeProduct,
		Amount:   amount,
		Method:   input.Method,
		PaidAt:   s.clock.Now(),
		Notes:    &notes,
	}
	if input.UserID != uuid.Nil {
		userID := input.UserID
		payment.UserID = &userID
	}

	updated, err := s.saleRepo.ApplyDebtPayment(ctx, sale.ID, amount, payment)
	if errors.Is(err, repository.ErrInsufficientOutstanding) {
		return nil, apperror.NewConflictError("The debt changed while paying, reload and try again")
	}
	if err != nil {
		return nil, err
	}

	remaining := updated.Outstanding()
	return &DebtPayment{
		Sale:      updated,
		Payment:   payment,
		Remaining: remaining,
		FullyPaid: remaining == 0,
	}, nil
}

// History lists credit sales that are paid or partially paid, newest first
func (s *DebtService) History(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.PerPage < 1 {
		params.PerPage = debtHistoryPerPage
	}
	params.Validate()

	sales, total, err := s.saleRepo.ListCreditHistory(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}
