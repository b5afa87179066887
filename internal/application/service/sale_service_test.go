package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/repository"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_CashDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	water := f.product(t, "Agua 625ml", 2.50, 10)

	sale, err := f.sales.CreateSale(ctx, &CreateSaleInput{
		ProductID: water.ID,
		Quantity:  3,
		Method:    enum.PaymentMethodYape,
		Notes:     ptr("  mesa 2 "),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(750), sale.Total)
	assert.Equal(t, int64(250), sale.UnitPrice)
	assert.Equal(t, sale.Total, sale.AmountPaid)
	assert.Equal(t, enum.PaymentStatusPaid, sale.Status)
	assert.Equal(t, enum.PaymentMethodYape, sale.Method)
	assert.True(t, sale.SoldAt.Equal(fixedNow))
	assert.Regexp(t, `^V-20260310-`, sale.ReceiptNo)
	require.NotNil(t, sale.Notes)
	assert.Equal(t, "mesa 2", *sale.Notes)
	require.NotNil(t, sale.Product)
	assert.Equal(t, "Agua 625ml", sale.Product.Name)

	product, err := f.products.GetProduct(ctx, water.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, product.Stock)
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bar := f.product(t, "Barra proteica", 6, 5)
	ana := f.client(t, "Ana Torres")

	_, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: bar.ID, Quantity: 0})
	assertFieldError(t, err, "quantity")

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: uuid.New(), Quantity: 1})
	assertAppError(t, err, http.StatusNotFound)

	missing := uuid.New()
	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: bar.ID, ClientID: &missing, Quantity: 1})
	assertAppError(t, err, http.StatusNotFound)

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: bar.ID, Quantity: 1, Method: enum.PaymentMethodCredit})
	assertFieldError(t, err, "client_id")

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{
		ProductID: bar.ID, ClientID: &ana.ID, Quantity: 1,
		Method: enum.PaymentMethodCredit, AmountPaid: ptr(dec("6")),
	})
	assertFieldError(t, err, "amount_paid")

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{
		ProductID: bar.ID, ClientID: &ana.ID, Quantity: 1,
		Method: enum.PaymentMethodCredit, AmountPaid: ptr(dec("-1")),
	})
	assertFieldError(t, err, "amount_paid")

	require.NoError(t, f.products.DeleteProduct(ctx, bar.ID))
	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: bar.ID, Quantity: 1})
	assertFieldError(t, err, "product_id")

	product, err := f.products.GetProduct(ctx, bar.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock, "rejected sales must not touch stock")
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shaker := f.product(t, "Shaker", 15, 2)

	_, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: shaker.ID, Quantity: 3})
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Insufficient stock for Shaker", appErr.Message)

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: shaker.ID, Quantity: 2})
	require.NoError(t, err)

	product, err := f.products.GetProduct(ctx, shaker.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

// brokenSaleRepo fails every insert
type brokenSaleRepo struct {
	domainRepo.SaleRepository
}

func (brokenSaleRepo) Create(context.Context, *entity.Sale) error {
	return errors.New("disk I/O error")
}

func TestCreateSale_RestoresStockWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	whey := f.product(t, "Whey 2lb", 120, 4)

	sales := NewSaleService(
		brokenSaleRepo{repository.NewSaleRepository(f.db)},
		repository.NewProductRepository(f.db),
		repository.NewClientRepository(f.db),
		f.clock,
	)
	_, err := sales.CreateSale(ctx, &CreateSaleInput{ProductID: whey.ID, Quantity: 3, Method: enum.PaymentMethodCash})
	require.Error(t, err)

	p, err := f.products.GetProduct(ctx, whey.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)

	var count int64
	require.NoError(t, f.db.Model(&entity.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

type stuckProductRepo struct {
	domainRepo.ProductRepository
}

func (stuckProductRepo) IncrementStock(context.Context, uuid.UUID, int) error {
	return errors.New("database is locked")
}

func TestCreateSale_LogsFailedStockRestore(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	f := newFixture(t)
	whey := f.product(t, "Whey 2lb", 120, 4)
	sales := NewSaleService(
		brokenSaleRepo{repository.NewSaleRepository(f.db)},
		stuckProductRepo{repository.NewProductRepository(f.db)},
		repository.NewClientRepository(f.db),
		f.clock,
	)

	_, err := sales.CreateSale(context.Background(), &CreateSaleInput{ProductID: whey.ID, Quantity: 2, Method: enum.PaymentMethodCash})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "failed to restore 2 units of product "+whey.ID.String())
}

func TestCreateSale_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bar := f.product(t, "Barra proteica", 10, 5)

	const buyers = 8
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: bar.ID, Quantity: 1, Method: enum.PaymentMethodCash})
		}(i)
	}
	wg.Wait()

	sold := 0
	for _, err := range errs {
		if err == nil {
			sold++
			continue
		}
		assertAppError(t, err, http.StatusBadRequest)
	}
	assert.Equal(t, 5, sold)

	p, err := f.products.GetProduct(ctx, bar.ID)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)
}

func TestCreateSale_CreditStartsPending(t *testing.T) {
	f := newFixture(t)
	ana := f.client(t, "Ana Torres")
	whey := f.product(t, "Whey 2lb", 120, 4)

	sale := f.creditSale(t, whey, ana, 1, 20)

	assert.Equal(t, enum.PaymentStatusPending, sale.Status)
	assert.Equal(t, int64(12000), sale.Total)
	assert.Equal(t, int64(2000), sale.AmountPaid)
	assert.Equal(t, int64(10000), sale.Outstanding())
	require.NotNil(t, sale.Client)
	assert.Equal(t, "Ana Torres", sale.Client.Name)
}

func TestCancelSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gel := f.product(t, "Gel energetico", 8, 6)

	sale, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: gel.ID, Quantity: 2})
	require.NoError(t, err)

	cancelled, err := f.sales.CancelSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled)
	require.NotNil(t, cancelled.CancelledAt)
	assert.True(t, cancelled.CancelledAt.Equal(fixedNow))

	product, err := f.products.GetProduct(ctx, gel.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)

	_, err = f.sales.CancelSale(ctx, sale.ID)
	assertAppError(t, err, http.StatusConflict)

	_, err = f.sales.CancelSale(ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound)
}

func TestCancelSale_WithDebtPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	whey := f.product(t, "Whey 2lb", 120, 4)
	sale := f.creditSale(t, whey, ana, 1, 0)

	_, err := f.debts.PayDebt(ctx, &PayDebtInput{SaleID: sale.ID, Amount: dec("50"), Method: enum.PaymentMethodCash})
	require.NoError(t, err)

	_, err = f.sales.CancelSale(ctx, sale.ID)
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestListSales_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	water := f.product(t, "Agua", 2, 50)

	_, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: water.ID, Quantity: 1})
	require.NoError(t, err)
	f.now = fixedNow.AddDate(0, 0, 1)
	f.creditSale(t, water, ana, 2, 0)

	all, err := f.sales.ListSales(ctx, &pagination.PaginationParams{}, SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)
	assert.Equal(t, 2, all.Items[0].Quantity, "newest first")

	credit := enum.PaymentMethodCredit
	onCredit, err := f.sales.ListSales(ctx, &pagination.PaginationParams{}, SaleFilter{Method: &credit})
	require.NoError(t, err)
	require.Len(t, onCredit.Items, 1)
	assert.Equal(t, ana.ID, *onCredit.Items[0].ClientID)

	firstDay, err := f.sales.ListSales(ctx, &pagination.PaginationParams{}, SaleFilter{From: "2026-03-10", To: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, firstDay.Items, 1)
	assert.Equal(t, 1, firstDay.Items[0].Quantity)

	_, err = f.sales.ListSales(ctx, &pagination.PaginationParams{}, SaleFilter{From: "10/03/2026"})
	assertFieldError(t, err, "from")
}

func TestListSalesWithCursor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	water := f.product(t, "Agua", 2, 50)

	for i := 0; i < 3; i++ {
		f.now = fixedNow.Add(time.Duration(i) * time.Minute)
		_, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: water.ID, Quantity: i + 1})
		require.NoError(t, err)
	}

	page, err := f.sales.ListSalesWithCursor(ctx, &pagination.CursorParams{Limit: 2}, SaleFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Items[0].Quantity)
	assert.True(t, page.Pagination.HasNext)
	require.NotNil(t, page.Pagination.NextCursor)

	next, err := f.sales.ListSalesWithCursor(ctx, &pagination.CursorParams{Limit: 2, Cursor: *page.Pagination.NextCursor}, SaleFilter{})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, 1, next.Items[0].Quantity)
	assert.False(t, next.Pagination.HasNext)
}
