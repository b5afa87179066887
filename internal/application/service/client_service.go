package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
)

const maxDNILength = 8

// ClientService handles gym members
type ClientService struct {
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	saleRepo    repository.SaleRepository
	clock       Clock
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	clock Clock,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		clock:       clock,
	}
}

// ClientInput carries the editable client fields. Nil means "leave as is"
// on update; blank optional strings are stored as NULL.
type ClientInput struct {
	Name   *string
	DNI    *string
	Phone  *string
	Email  *string
	Status *enum.ClientStatus
	Notes  *string
}

// CreateClient registers a new member
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	client := &entity.Client{Status: enum.ClientStatusActive}
	if err := s.apply(ctx, client, input, true); err != nil {
		return nil, err
	}

	client.RegisteredAt = s.clock.Now()
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, dniConflict(err)
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// UpdateClient edits a client
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, client, input, false); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, dniConflict(err)
	}
	return client, nil
}

// DeleteClient soft deletes a client. Payments and sales stay in history.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}

func (s *ClientService) apply(ctx context.Context, client *entity.Client, input *ClientInput, creating bool) error {
	var fieldErrors []apperror.FieldError

	if input.Name != nil || creating {
		name := ""
		if input.Name != nil {
			name = strings.TrimSpace(*input.Name)
		}
		if name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
		}
		client.Name = name
	}

	if input.DNI != nil {
		dni := nullable(*input.DNI)
		if dni != nil && (!utils.IsDigits(*dni) || len(*dni) > maxDNILength) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "dni", Message: "DNI must contain only digits (max 8)"})
		}
		client.DNI = dni
	}

	if input.Email != nil {
		email := nullable(*input.Email)
		if email != nil {
			if addr, err := mail.ParseAddress(*email); err != nil || addr.Address != *email {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "Invalid email address"})
			}
		}
		client.Email = email
	}

	if input.Phone != nil {
		client.Phone = nullable(*input.Phone)
	}
	if input.Notes != nil {
		client.Notes = nullable(*input.Notes)
	}
	if input.Status != nil {
		client.Status = *input.Status
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	if client.DNI != nil {
		existing, err := s.clientRepo.GetByDNI(ctx, *client.DNI)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != client.ID {
			return apperror.NewConflictError("A client with this DNI already exists")
		}
	}
	return nil
}

// dniConflict covers a concurrent insert that passed the GetByDNI check
func dniConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicateDNI) {
		return apperror.NewConflictError("A client with this DNI already exists")
	}
	return err
}

// ListClients lists clients newest registration first
func (s *ClientService) ListClients(ctx context.Context, params *repository.ClientFilterParams) (*pagination.PaginatedResult[entity.Client], error) {
	params.Pagination.Validate()

	clients, total, err := s.clientRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// ListClientsWithCursor lists clients with keyset pagination on registered_at
func (s *ClientService) ListClientsWithCursor(ctx context.Context, params *repository.ClientCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Client], error) {
	if err := validateCursor(params.Cursor); err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(clients, params.Cursor.Limit, params.Cursor.Cursor != "",
		func(c entity.Client) string { return c.ID.String() },
		func(c entity.Client) time.Time { return c.RegisteredAt },
	)
	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// Stats counts clients and those registered this calendar month
func (s *ClientService) Stats(ctx context.Context) (*repository.ClientStats, error) {
	monthStart := utils.StartOfMonth(s.clock.Now(), s.clock.location())
	return s.clientRepo.Stats(ctx, monthStart.UTC())
}

// GetMembership computes the client's current membership
func (s *ClientService) GetMembership(ctx context.Context, id uuid.UUID) (*Membership, error) {
	if _, err := s.GetClient(ctx, id); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListMemberships(ctx, &id)
	if err != nil {
		return nil, err
	}
	return ComputeMembership(id, payments, s.clock.Now()), nil
}

// GetPayments returns the client's payment history, newest first
func (s *ClientService) GetPayments(ctx context.Context, id uuid.UUID) ([]entity.Payment, error) {
	if _, err := s.GetClient(ctx, id); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []entity.Payment{}
	}
	return payments, nil
}

// ClientDebts lists a client's open fiado sales
type ClientDebts struct {
	Client      *entity.Client `json:"client"`
	Sales       []entity.Sale  `json:"sales"`
	Outstanding int64          `json:"-"`
}

func (d ClientDebts) MarshalJSON() ([]byte, error) {
	type Alias ClientDebts
	return json.Marshal(&struct {
		Alias
		Outstanding float64 `json:"outstanding"`
	}{
		Alias:       Alias(d),
		Outstanding: fromCents(d.Outstanding),
	})
}

// GetDebts returns the client's pending credit sales and what they still owe
func (s *ClientService) GetDebts(ctx context.Context, id uuid.UUID) (*ClientDebts, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListPendingByClient(ctx, id)
	if err != nil {
		return nil, err
	}

	debts := &ClientDebts{Client: client, Sales: sales}
	if debts.Sales == nil {
		debts.Sales = []entity.Sale{}
	}
	for i := range sales {
		debts.Outstanding += sales[i].Outstanding()
	}
	return debts, nil
}

// nullable trims s and maps blank to nil
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
