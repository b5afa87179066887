package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayDebt_PartialThenFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	whey := f.product(t, "Whey 2lb", 120, 4)
	sale := f.creditSale(t, whey, ana, 1, 20)

	first, err := f.debts.PayDebt(ctx, &PayDebtInput{
		SaleID: sale.ID,
		Amount: dec("40"),
		Method: enum.PaymentMethodYape,
		Notes:  ptr("primer abono"),
	})
	require.NoError(t, err)
	assert.False(t, first.FullyPaid)
	assert.Equal(t, int64(6000), first.Remaining)
	assert.Equal(t, enum.PaymentStatusPending, first.Sale.Status)
	assert.Equal(t, int64(6000), first.Sale.AmountPaid)

	payment := first.Payment
	assert.Equal(t, enum.PaymentTypeProduct, payment.Type)
	assert.Equal(t, ana.ID, payment.ClientID)
	assert.Equal(t, int64(4000), payment.Amount)
	require.NotNil(t, payment.SaleID)
	assert.Equal(t, sale.ID, *payment.SaleID)
	require.NotNil(t, payment.Notes)
	assert.Equal(t, "Pago de deuda por venta "+sale.ReceiptNo+". primer abono", *payment.Notes)

	second, err := f.debts.PayDebt(ctx, &PayDebtInput{SaleID: sale.ID, Amount: dec("60"), Method: enum.PaymentMethodCash})
	require.NoError(t, err)
	assert.True(t, second.FullyPaid)
	assert.Equal(t, int64(0), second.Remaining)
	assert.Equal(t, enum.PaymentStatusPaid, second.Sale.Status)
	assert.Equal(t, "Pago de deuda por venta "+sale.ReceiptNo, *second.Payment.Notes)

	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: sale.ID, Amount: dec("1"), Method: enum.PaymentMethodCash})
	assertAppError(t, err, http.StatusUnprocessableEntity)

	raw, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fully_paid":true`)
	assert.Contains(t, string(raw), `"remaining":0`)
}

func TestPayDebt_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	whey := f.product(t, "Whey 2lb", 120, 4)
	credit := f.creditSale(t, whey, ana, 1, 0)

	cash, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: whey.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: uuid.New(), Amount: dec("10")})
	assertAppError(t, err, http.StatusNotFound)

	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: cash.ID, Amount: dec("10")})
	assertAppError(t, err, http.StatusUnprocessableEntity)

	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: credit.ID, Amount: dec("10"), Method: enum.PaymentMethodCredit})
	assertFieldError(t, err, "method")

	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: credit.ID, Amount: dec("0")})
	assertFieldError(t, err, "amount")

	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: credit.ID, Amount: dec("120.01")})
	assertFieldError(t, err, "amount")

	other := f.creditSale(t, whey, ana, 1, 0)
	_, err = f.sales.CancelSale(ctx, other.ID)
	require.NoError(t, err)
	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: other.ID, Amount: dec("10")})
	assertAppError(t, err, http.StatusUnprocessableEntity)

	fresh, err := f.sales.GetSale(ctx, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.AmountPaid)
	assert.Empty(t, fresh.Payments)
}

func TestListDebts_GroupsByClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	luis := f.client(t, "Luis Quispe")
	bar := f.product(t, "Barra", 5, 100)

	f.creditSale(t, bar, ana, 10, 0)  // 50
	f.creditSale(t, bar, ana, 20, 0)  // 100
	f.creditSale(t, bar, luis, 40, 0) // 200

	groups, err := f.debts.ListDebts(ctx, "")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, luis.ID, groups[0].Client.ID)
	assert.Equal(t, int64(20000), groups[0].Outstanding)
	assert.Equal(t, 1, groups[0].Count)

	assert.Equal(t, ana.ID, groups[1].Client.ID)
	assert.Equal(t, int64(15000), groups[1].Outstanding)
	assert.Equal(t, 2, groups[1].Count)

	filtered, err := f.debts.ListDebts(ctx, "ANA")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, ana.ID, filtered[0].Client.ID)
}

func TestDebtStats_Windows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	bar := f.product(t, "Barra", 10, 100)

	f.now = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	f.creditSale(t, bar, ana, 10, 0) // 100 last month
	f.now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	f.creditSale(t, bar, ana, 5, 0) // 50 this month, older than a week
	f.now = fixedNow.Add(-time.Hour)
	f.creditSale(t, bar, ana, 4, 10) // 30 outstanding today
	f.now = fixedNow

	stats, err := f.debts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), stats.Today)
	assert.Equal(t, int64(3000), stats.Last7Days)
	assert.Equal(t, int64(8000), stats.ThisMonth)
	assert.Equal(t, int64(18000), stats.Total)

	raw, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"today":30,"last_7_days":30,"this_month":80,"total":180}`, string(raw))
}

func TestDebtHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "Ana Torres")
	bar := f.product(t, "Barra", 10, 100)

	untouched := f.creditSale(t, bar, ana, 1, 0)
	partial := f.creditSale(t, bar, ana, 2, 5)
	paid := f.creditSale(t, bar, ana, 3, 0)
	_, err := f.debts.PayDebt(ctx, &PayDebtInput{SaleID: paid.ID, Amount: dec("30")})
	require.NoError(t, err)

	history, err := f.debts.History(ctx, &pagination.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, 10, history.Pagination.PerPage)
	assert.Equal(t, int64(2), history.Pagination.Total)

	ids := []uuid.UUID{history.Items[0].ID, history.Items[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{partial.ID, paid.ID}, ids)
	assert.NotContains(t, ids, untouched.ID)
}
