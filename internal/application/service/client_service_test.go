package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.clients.CreateClient(ctx, &ClientInput{
		Name:  ptr(" Rosa Mamani "),
		DNI:   ptr("45678912"),
		Phone: ptr(" "),
		Email: ptr("rosa@correo.pe"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rosa Mamani", c.Name)
	assert.Equal(t, enum.ClientStatusActive, c.Status)
	assert.Nil(t, c.Phone, "blank optional fields are stored as NULL")
	assert.True(t, c.RegisteredAt.Equal(fixedNow))

	_, err = f.clients.CreateClient(ctx, &ClientInput{Name: ptr("Otra Rosa"), DNI: ptr("45678912")})
	assertAppError(t, err, http.StatusConflict)

	_, err = f.clients.CreateClient(ctx, &ClientInput{DNI: ptr("12AB"), Email: ptr("no-es-correo")})
	assertFieldError(t, err, "name")
	assertFieldError(t, err, "dni")
	assertFieldError(t, err, "email")

	_, err = f.clients.CreateClient(ctx, &ClientInput{Name: ptr("Largo"), DNI: ptr("123456789")})
	assertFieldError(t, err, "dni")
}

func TestUpdateClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Rosa Mamani")
	other, err := f.clients.CreateClient(ctx, &ClientInput{Name: ptr("Juan Perez"), DNI: ptr("11111111")})
	require.NoError(t, err)

	inactive := enum.ClientStatusInactive
	updated, err := f.clients.UpdateClient(ctx, c.ID, &ClientInput{Status: &inactive, Notes: ptr("lesión de rodilla")})
	require.NoError(t, err)
	assert.Equal(t, "Rosa Mamani", updated.Name, "nil fields are left as is")
	assert.Equal(t, enum.ClientStatusInactive, updated.Status)

	_, err = f.clients.UpdateClient(ctx, c.ID, &ClientInput{DNI: other.DNI})
	assertAppError(t, err, http.StatusConflict)

	_, err = f.clients.UpdateClient(ctx, other.ID, &ClientInput{DNI: ptr("11111111")})
	require.NoError(t, err, "a client keeps its own DNI")

	_, err = f.clients.UpdateClient(ctx, uuid.New(), &ClientInput{})
	assertAppError(t, err, http.StatusNotFound)
}

func TestDeleteClient_KeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Rosa Mamani")
	payment := f.membership(t, c, enum.PaymentTypeMonthly, fixedNow)

	require.NoError(t, f.clients.DeleteClient(ctx, c.ID))

	_, err := f.clients.GetClient(ctx, c.ID)
	assertAppError(t, err, http.StatusNotFound)

	kept, err := f.payments.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.Client, "payments still show deleted clients")
	assert.Equal(t, "Rosa Mamani", kept.Client.Name)
}

func TestListClients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client(t, "Rosa Mamani")
	f.now = fixedNow.Add(time.Hour)
	juan, err := f.clients.CreateClient(ctx, &ClientInput{Name: ptr("Juan Perez"), DNI: ptr("70112233")})
	require.NoError(t, err)
	f.now = fixedNow.Add(2 * time.Hour)
	inactive := enum.ClientStatusInactive
	_, err = f.clients.CreateClient(ctx, &ClientInput{Name: ptr("Pedro Rojas"), Status: &inactive})
	require.NoError(t, err)

	all, err := f.clients.ListClients(ctx, &repository.ClientFilterParams{Pagination: &pagination.PaginationParams{}})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "Pedro Rojas", all.Items[0].Name)

	byDNI, err := f.clients.ListClients(ctx, &repository.ClientFilterParams{
		Pagination: &pagination.PaginationParams{},
		Search:     "7011",
	})
	require.NoError(t, err)
	require.Len(t, byDNI.Items, 1)
	assert.Equal(t, juan.ID, byDNI.Items[0].ID)

	active := enum.ClientStatusActive
	onlyActive, err := f.clients.ListClients(ctx, &repository.ClientFilterParams{
		Pagination: &pagination.PaginationParams{},
		Status:     &active,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), onlyActive.Pagination.Total)

	page, err := f.clients.ListClientsWithCursor(ctx, &repository.ClientCursorFilterParams{
		Cursor: &pagination.CursorParams{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Pagination.HasNext)

	_, err = f.clients.ListClientsWithCursor(ctx, &repository.ClientCursorFilterParams{
		Cursor: &pagination.CursorParams{Cursor: "%%%"},
	})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestClientStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.now = time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	f.client(t, "Antigua")
	f.now = fixedNow
	f.client(t, "Nueva")
	inactive := enum.ClientStatusInactive
	_, err := f.clients.CreateClient(ctx, &ClientInput{Name: ptr("Baja"), Status: &inactive})
	require.NoError(t, err)

	stats, err := f.clients.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.Inactive)
	assert.Equal(t, int64(2), stats.NewThisMonth)
}

func TestClientMembershipPaymentsAndDebts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Rosa Mamani")
	bar := f.product(t, "Barra", 5, 20)

	f.membership(t, c, enum.PaymentTypeMonthly, fixedNow.AddDate(0, 0, -5))
	f.creditSale(t, bar, c, 4, 5)
	f.creditSale(t, bar, c, 2, 0)

	m, err := f.clients.GetMembership(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, m.Active)
	assert.Equal(t, 25, m.DaysRemaining)

	payments, err := f.clients.GetPayments(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	debts, err := f.clients.GetDebts(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, debts.Sales, 2)
	assert.Equal(t, int64(1500+1000), debts.Outstanding)

	raw, err := json.Marshal(debts)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"outstanding":25`)

	empty := f.client(t, "Sin deudas")
	none, err := f.clients.GetDebts(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, none.Sales)
	assert.Empty(t, none.Sales)

	_, err = f.clients.GetMembership(ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound)
}
