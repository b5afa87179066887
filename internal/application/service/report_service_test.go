package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedMarch records membership payments and sales around March 2026
func seedMarch(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	drinks, err := f.categories.ListCategories(ctx, "bebidas")
	require.NoError(t, err)
	require.Len(t, drinks, 1)

	rosa := f.client(t, "Rosa Mamani")
	juan := f.client(t, "Juan Perez")
	water, err := f.products.CreateProduct(ctx, &CreateProductInput{
		CategoryID: &drinks[0].ID, Name: "Agua", Price: dec("2.5"), Stock: 50,
	})
	require.NoError(t, err)
	bar := f.product(t, "Barra", 10, 50)

	f.membership(t, rosa, enum.PaymentTypeMonthly, at(1, 15))
	f.membership(t, juan, enum.PaymentTypeDaily, at(10, 9))
	f.membership(t, juan, enum.PaymentTypeDaily, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC))

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: water.ID, Quantity: 2})
	require.NoError(t, err)
	credit := f.creditSale(t, bar, juan, 1, 0)
	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: credit.ID, Amount: dec("4")})
	require.NoError(t, err)

	cancelled, err := f.sales.CreateSale(ctx, &CreateSaleInput{ProductID: bar.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = f.sales.CancelSale(ctx, cancelled.ID)
	require.NoError(t, err)
}

func TestReportSummary(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)

	r, err := f.reports.Summary(context.Background(), ReportRange{})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", r.From)
	assert.Equal(t, "2026-03-31", r.To)
	assert.Equal(t, "Sparta Gym", r.GymName)
	assert.Len(t, r.Payments, 2, "debt payments and other months are excluded")
	assert.Len(t, r.Sales, 2, "cancelled sales are excluded")
	assert.Equal(t, int64(3500), r.TotalPayments)
	assert.Equal(t, int64(1500), r.TotalSales, "credit sales count with their full total")
	assert.Equal(t, int64(5000), r.TotalGeneral())

	require.Len(t, r.Daily, 31)
	tenth := r.Daily[9]
	assert.Equal(t, "2026-03-10", tenth.Date)
	assert.Equal(t, int64(500), tenth.Payments)
	assert.Equal(t, int64(1500), tenth.Sales)

	require.Len(t, r.ByCategory, 2)
	assert.Equal(t, uncategorizedLabel, r.ByCategory[0].Name)
	assert.Equal(t, int64(1000), r.ByCategory[0].Total)
	assert.Equal(t, "Bebidas", r.ByCategory[1].Name)
	assert.Equal(t, int64(2), r.ByCategory[1].Quantity)

	require.Len(t, r.TopProducts, 2)
	assert.Equal(t, "Barra", r.TopProducts[0].Name)

	require.Len(t, r.ByType, 4)
	assert.Equal(t, int64(1), r.ByType[0].Count)
	assert.Equal(t, int64(1), r.ByType[1].Count)
}

func TestReportSummary_Ranges(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)
	ctx := context.Background()

	r, err := f.reports.Summary(ctx, ReportRange{From: "2026-02-01", To: "2026-02-28"})
	require.NoError(t, err)
	assert.Len(t, r.Payments, 1)
	assert.Empty(t, r.Sales)
	assert.NotNil(t, r.Sales)

	today, err := f.reports.Summary(ctx, ReportRange{Preset: "hoy"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", today.From)
	assert.Equal(t, "2026-03-10", today.To)
	assert.Equal(t, int64(500), today.TotalPayments)

	_, err = f.reports.Summary(ctx, ReportRange{Preset: "decade"})
	assertAppError(t, err, http.StatusBadRequest)

	_, err = f.reports.Summary(ctx, ReportRange{From: "2026-03-05", To: "2026-03-01"})
	assertAppError(t, err, http.StatusBadRequest)

	_, err = f.reports.Summary(ctx, ReportRange{From: "1900-01-01", To: "2100-12-31"})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestReportExport(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)
	ctx := context.Background()

	file, err := f.reports.Export(ctx, ReportRange{}, "")
	require.NoError(t, err)
	assert.Equal(t, "reporte_sparta_2026-03-01_2026-03-31.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	body := string(file.Data)
	assert.True(t, strings.HasPrefix(body, "\xef\xbb\xbf"))
	assert.Contains(t, body, "TOTAL GENERAL,S/ 50.00")
	assert.Contains(t, body, "Agua,Bebidas,2,2026-03-10")
	assert.Contains(t, body, "Barra,Otros,1,2026-03-10")

	xlsx, err := f.reports.Export(ctx, ReportRange{}, "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "reporte_sparta_2026-03-01_2026-03-31.xlsx", xlsx.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(xlsx.Data))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Resumen", "Membresías", "Ventas"}, book.GetSheetList())

	total, err := book.GetCellValue("Resumen", "B7")
	require.NoError(t, err)
	assert.Equal(t, "50", total)

	sales, err := book.GetRows("Ventas")
	require.NoError(t, err)
	assert.Len(t, sales, 3)

	_, err = f.reports.Export(ctx, ReportRange{}, "pdf")
	assertFieldError(t, err, "format")
}

func TestReportPrintHTML(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)

	page, err := f.reports.PrintHTML(context.Background(), ReportRange{})
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Sparta Gym")
	assert.Contains(t, html, "S/ 50.00")
	assert.Contains(t, html, "Rosa Mamani")
	assert.Contains(t, html, "Generado el 10/03/2026 15:00")
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	seedMarch(t, f)
	ctx := context.Background()

	soon := f.client(t, "Vence pronto")
	f.membership(t, soon, enum.PaymentTypeMonthly, time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC))

	stats, err := f.dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(500+1500), stats.IncomeToday)
	assert.Equal(t, int64(3500+1500), stats.IncomeMonth)
	assert.Equal(t, int64(3), stats.TotalClients)
	assert.Equal(t, int64(3), stats.ActiveClients)
	assert.Equal(t, int64(2), stats.ProductCount)
	assert.Equal(t, int64(48+49), stats.StockUnits)
	assert.Equal(t, 1, stats.ExpiringSoon)
	assert.Equal(t, int64(600), stats.OutstandingDebt)
	assert.Len(t, stats.RecentSales, 2)
	assert.LessOrEqual(t, len(stats.RecentPayments), dashboardRecent)

	require.Len(t, stats.LastDays, dashboardDays)
	assert.Equal(t, "2026-03-04", stats.LastDays[0].Date)
	assert.Equal(t, "2026-03-10", stats.LastDays[6].Date)
	assert.Equal(t, int64(1500), stats.LastDays[6].Sales)
}
