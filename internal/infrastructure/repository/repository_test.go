package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSale(t *testing.T, db *gorm.DB, method enum.PaymentMethod) (*entity.Client, *entity.Product, *entity.Sale) {
	t.Helper()
	client := &entity.Client{Name: "Ana Torres", RegisteredAt: time.Now().UTC()}
	require.NoError(t, db.Create(client).Error)
	product := &entity.Product{Name: "Whey 2lb", Code: "WH-2", Price: 12000, Stock: 3, Active: true}
	require.NoError(t, db.Create(product).Error)

	sale := &entity.Sale{
		ReceiptNo: "V-20260310-0001",
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantity:  1,
		UnitPrice: 12000,
		Total:     12000,
		Method:    method,
		Status:    enum.PaymentStatusPending,
		SoldAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Omit("Product", "Client", "Payments").Create(sale).Error)
	return client, product, sale
}

func TestSaleCancel(t *testing.T) {
	db := dbtest.NewDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()
	_, product, sale := seedSale(t, db, enum.PaymentMethodCash)

	require.NoError(t, repo.Cancel(ctx, sale.ID, time.Now()))
	assert.ErrorIs(t, repo.Cancel(ctx, sale.ID, time.Now()), domainRepo.ErrSaleAlreadyCancelled)

	var stock int
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", product.ID).Pluck("stock", &stock).Error)
	assert.Equal(t, 4, stock, "stock is restored once")
}

func TestSaleCancel_GuardsPaymentsInUpdate(t *testing.T) {
	db := dbtest.NewDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()
	client, product, sale := seedSale(t, db, enum.PaymentMethodCredit)

	// A payment row whose amount never reached sale.amount_paid, as when a
	// debt payment commits between the read and the update.
	require.NoError(t, db.Omit("Client", "Sale").Create(&entity.Payment{
		ClientID: client.ID, SaleID: &sale.ID, Type: enum.PaymentTypeProduct,
		Amount: 500, Method: enum.PaymentMethodCash, PaidAt: time.Now().UTC(),
	}).Error)

	assert.ErrorIs(t, repo.Cancel(ctx, sale.ID, time.Now()), domainRepo.ErrSaleHasPayments)

	var cancelled bool
	require.NoError(t, db.Model(&entity.Sale{}).Where("id = ?", sale.ID).Pluck("cancelled", &cancelled).Error)
	assert.False(t, cancelled)

	var stock int
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", product.ID).Pluck("stock", &stock).Error)
	assert.Equal(t, 3, stock)
}

func TestClientDNIUniqueAmongLiveClients(t *testing.T) {
	db := dbtest.NewDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()
	dni := "45871236"

	first := &entity.Client{Name: "Rosa Mamani", DNI: &dni, RegisteredAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &entity.Client{Name: "Otra Rosa", DNI: &dni, RegisteredAt: time.Now().UTC()})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateDNI)

	require.NoError(t, repo.Create(ctx, &entity.Client{Name: "Sin DNI", RegisteredAt: time.Now().UTC()}))
	require.NoError(t, repo.Create(ctx, &entity.Client{Name: "Sin DNI 2", RegisteredAt: time.Now().UTC()}))

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.NoError(t, repo.Create(ctx, &entity.Client{Name: "Rosa Mamani", DNI: &dni, RegisteredAt: time.Now().UTC()}),
		"a deleted client frees the DNI")
}

func TestIdempotencyReserve(t *testing.T) {
	repo := NewIdempotencyRepository(dbtest.NewDB(t))
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	pending := func() *entity.IdempotencyKey {
		return &entity.IdempotencyKey{Key: "venta-1", UserID: userID, Endpoint: "POST /api/v1/sales", ExpiresAt: now.Add(time.Minute)}
	}

	first := pending()
	ok, err := repo.Reserve(ctx, first, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reserve(ctx, pending(), now)
	require.NoError(t, err)
	assert.False(t, ok, "a live key cannot be reserved twice")

	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "venta-1", UserID: uuid.New(), Endpoint: "POST /api/v1/sales", ExpiresAt: now.Add(time.Minute)}, now)
	require.NoError(t, err)
	assert.True(t, ok, "keys are scoped per user")

	require.NoError(t, repo.Complete(ctx, first.ID, 201, `{"success":true}`, now.Add(24*time.Hour)))
	stored, err := repo.GetByKey(ctx, "venta-1", userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 201, stored.ResponseCode)
	assert.Equal(t, `{"success":true}`, stored.ResponseBody)

	later := now.Add(25 * time.Hour)
	ok, err = repo.Reserve(ctx, pending(), later)
	require.NoError(t, err)
	assert.True(t, ok, "an expired key is replaced")

	require.NoError(t, repo.Release(ctx, first.ID))
	stored, err = repo.GetByKey(ctx, "venta-1", userID)
	require.NoError(t, err)
	assert.NotNil(t, stored, "release only drops its own reservation")
}
