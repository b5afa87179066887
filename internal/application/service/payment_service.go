package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
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

// PaymentService records membership payments
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	settings    *SettingsService
	clock       Clock
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	settings *SettingsService,
	clock Clock,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		settings:    settings,
		clock:       clock,
	}
}

// CreatePaymentInput represents a new membership payment. Amount is a
// decimal; nil takes the settings price for the type.
type CreatePaymentInput struct {
	UserID   *uuid.UUID
	ClientID uuid.UUID
	Type     enum.PaymentType
	Amount   *decimal.Decimal
	Period   *string
	PaidAt   *time.Time
	Method   *enum.PaymentMethod
	Notes    *string
}

// CreatePayment records a daily, monthly or quarterly payment
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	if !input.Type.IsMembership() {
		return nil, apperror.NewFieldError("type", "Type must be daily, monthly or quarterly")
	}

	method := enum.PaymentMethodCash
	if input.Method != nil {
		method = *input.Method
	}
	if method == enum.PaymentMethodCredit {
		return nil, apperror.NewFieldError("method", "Memberships cannot be paid on credit")
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}

	var amount int64
	if input.Amount != nil {
		if amountTooLarge(*input.Amount) {
			return nil, apperror.NewFieldError("amount", "Amount is too large")
		}
		amount = toCents(*input.Amount)
	} else {
		settings, err := s.settings.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		amount = settings.PriceFor(input.Type)
	}
	if amount <= 0 {
		return nil, apperror.NewFieldError("amount", "Amount must be greater than zero")
	}

	paidAt := s.clock.Now()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}

	payment := &entity.Payment{
		ClientID: client.ID,
		UserID:   input.UserID,
		Type:     input.Type,
		Amount:   amount,
		Period:   s.period(input.Type, input.Period, paidAt),
		Method:   method,
		PaidAt:   paidAt,
		Notes:    trimmed(input.Notes),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(ctx, payment.ID)
}

// period is required for monthly and quarterly payments and defaults to the
// Spanish month label of paidAt in the gym timezone. Other types carry none.
func (s *PaymentService) period(t enum.PaymentType, requested *string, paidAt time.Time) *string {
	if !t.HasPeriod() {
		return nil
	}
	if p := trimmed(requested); p != nil {
		return p
	}
	label := utils.SpanishMonthLabel(paidAt.In(s.clock.location()))
	return &label
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// UpdatePaymentInput represents the editable membership payment fields
type UpdatePaymentInput struct {
	Type   *enum.PaymentType
	Amount *decimal.Decimal
	Period *string
	PaidAt *time.Time
	Method *enum.PaymentMethod
	Notes  *string
}

// UpdatePayment edits a membership payment. Debt payments are read-only.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, input *UpdatePaymentInput) (*entity.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Type == enum.PaymentTypeProduct {
		return nil, apperror.NewUnprocessableError("Debt payments cannot be edited")
	}

	if input.Type != nil {
		if !input.Type.IsMembership() {
			return nil, apperror.NewFieldError("type", "Type must be daily, monthly or quarterly")
		}
		payment.Type = *input.Type
	}
	if input.Amount != nil {
		if amountTooLarge(*input.Amount) {
			return nil, apperror.NewFieldError("amount", "Amount is too large")
		}
		amount := toCents(*input.Amount)
		if amount <= 0 {
			return nil, apperror.NewFieldError("amount", "Amount must be greater than zero")
		}
		payment.Amount = amount
	}
	if input.Method != nil {
		if *input.Method == enum.PaymentMethodCredit {
			return nil, apperror.NewFieldError("method", "Memberships cannot be paid on credit")
		}
		payment.Method = *input.Method
	}
	if input.PaidAt != nil {
		payment.PaidAt = input.PaidAt.UTC()
	}
	if input.Notes != nil {
		payment.Notes = trimmed(input.Notes)
	}

	requested := input.Period
	if requested == nil {
		requested = payment.Period
	}
	payment.Period = s.period(payment.Type, requested, payment.PaidAt)

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(ctx, payment.ID)
}

// DeletePayment removes a membership payment. Debt payments mirror sale
// bookkeeping and cannot be deleted.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	if payment.Type == enum.PaymentTypeProduct {
		return apperror.NewUnprocessableError("Debt payments cannot be deleted")
	}
	return s.paymentRepo.Delete(ctx, id)
}

// ListPaymentsInput holds list filters; From and To are inclusive days
type ListPaymentsInput struct {
	Pagination *pagination.PaginationParams
	ClientID   *uuid.UUID
	Type       *enum.PaymentType
	Method     *enum.PaymentMethod
	From       string
	To         string
	Search     string
}

// ListPayments lists payments newest first
func (s *PaymentService) ListPayments(ctx context.Context, input *ListPaymentsInput) (*pagination.PaginatedResult[entity.Payment], error) {
	from, to, err := dayBounds(input.From, input.To, s.clock.location())
	if err != nil {
		return nil, err
	}
	input.Pagination.Validate()

	payments, total, err := s.paymentRepo.List(ctx, &repository.PaymentFilterParams{
		Pagination: input.Pagination,
		ClientID:   input.ClientID,
		Type:       input.Type,
		Method:     input.Method,
		From:       from,
		To:         to,
		Search:     strings.TrimSpace(input.Search),
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

// TypeSummary is the total collected for one payment type
type TypeSummary struct {
	Type  enum.PaymentType `json:"type"`
	Label string           `json:"label"`
	Total int64            `json:"-"`
	Count int64            `json:"count"`
}

func (t TypeSummary) MarshalJSON() ([]byte, error) {
	type Alias TypeSummary
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{Alias(t), fromCents(t.Total)})
}

// PaymentSummary aggregates payments per type
type PaymentSummary struct {
	ByType []TypeSummary `json:"by_type"`
	Total  int64         `json:"-"`
	Count  int64         `json:"count"`
}

func (p PaymentSummary) MarshalJSON() ([]byte, error) {
	type Alias PaymentSummary
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{Alias(p), fromCents(p.Total)})
}

// Summary totals payments per type, optionally within inclusive days
func (s *PaymentService) Summary(ctx context.Context, fromDay, toDay string) (*PaymentSummary, error) {
	from, to, err := dayBounds(fromDay, toDay, s.clock.location())
	if err != nil {
		return nil, err
	}

	totals, err := s.paymentRepo.TotalsByType(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return summarizeTypes(totals), nil
}

// summarizeTypes reports every type, including those with no payments
func summarizeTypes(totals []repository.PaymentTypeTotal) *PaymentSummary {
	allTypes := []enum.PaymentType{
		enum.PaymentTypeDaily, enum.PaymentTypeMonthly, enum.PaymentTypeQuarterly, enum.PaymentTypeProduct,
	}
	byType := make(map[enum.PaymentType]repository.PaymentTypeTotal, len(totals))
	for _, t := range totals {
		byType[t.Type] = t
	}

	summary := &PaymentSummary{ByType: make([]TypeSummary, 0, len(allTypes))}
	for _, t := range allTypes {
		row := byType[t]
		summary.ByType = append(summary.ByType, TypeSummary{Type: t, Label: t.Label(), Total: row.Total, Count: row.Count})
		summary.Total += row.Total
		summary.Count += row.Count
	}
	return summary
}

// ExpiringMembership is one row of the expiring-soon list
type ExpiringMembership struct {
	Client        entity.Client    `json:"client"`
	Type          enum.PaymentType `json:"type"`
	ExpiresAt     time.Time        `json:"expires_at"`
	DaysRemaining int              `json:"days_remaining"`
}

// ListExpiring returns live clients whose monthly or quarterly membership
// expires within the reminder window, soonest first.
func (s *PaymentService) ListExpiring(ctx context.Context) ([]ExpiringMembership, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListMemberships(ctx, nil)
	if err != nil {
		return nil, err
	}

	byClient := make(map[uuid.UUID][]entity.Payment)
	var order []uuid.UUID
	for _, p := range payments {
		if _, seen := byClient[p.ClientID]; !seen {
			order = append(order, p.ClientID)
		}
		byClient[p.ClientID] = append(byClient[p.ClientID], p)
	}

	now := s.clock.Now()
	memberships := make(map[uuid.UUID]*Membership)
	var ids []uuid.UUID
	for _, id := range order {
		m := ComputeMembership(id, byClient[id], now)
		if m.ExpiringSoon(settings.ReminderDays) {
			memberships[id] = m
			ids = append(ids, id)
		}
	}

	clients, err := s.clientRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]ExpiringMembership, 0, len(clients))
	for _, c := range clients {
		m := memberships[c.ID]
		result = append(result, ExpiringMembership{
			Client:        c,
			Type:          *m.Type,
			ExpiresAt:     *m.ExpiresAt,
			DaysRemaining: m.DaysRemaining,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DaysRemaining != result[j].DaysRemaining {
			return result[i].DaysRemaining < result[j].DaysRemaining
		}
		return result[i].ExpiresAt.Before(result[j].ExpiresAt)
	})
	return result, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return nullable(*s)
}
