package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	categories, err := f.categories.ListCategories(ctx, "bebidas")
	require.NoError(t, err)
	require.Len(t, categories, 1)

	p, err := f.products.CreateProduct(ctx, &CreateProductInput{
		CategoryID: &categories[0].ID,
		Name:       "  Gatorade 500ml ",
		Code:       "GAT-500",
		Price:      dec("4.5"),
		Stock:      24,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gatorade 500ml", p.Name)
	assert.Equal(t, int64(450), p.Price)
	assert.True(t, p.Active)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Bebidas", p.Category.Name)

	auto := f.product(t, "Toalla", 25, 3)
	assert.True(t, strings.HasPrefix(auto.Code, "PROD-"))

	_, err = f.products.CreateProduct(ctx, &CreateProductInput{Name: "Otro", Code: "GAT-500", Price: dec("1")})
	assertAppError(t, err, http.StatusConflict)

	_, err = f.products.CreateProduct(ctx, &CreateProductInput{Name: " ", Price: dec("-1"), Stock: -2})
	assertFieldError(t, err, "name")
	assertFieldError(t, err, "price")
	assertFieldError(t, err, "stock")

	missing := auto.ID
	_, err = f.products.CreateProduct(ctx, &CreateProductInput{Name: "X", CategoryID: &missing})
	assertFieldError(t, err, "category_id")
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Creatina", 90, 5)
	f.product(t, "Glutamina", 80, 5)

	updated, err := f.products.UpdateProduct(ctx, p.ID, &UpdateProductInput{
		Name:  ptr("Creatina 300g"),
		Price: ptr(dec("95")),
		Code:  ptr("CRE-300"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Creatina 300g", updated.Name)
	assert.Equal(t, int64(9500), updated.Price)
	assert.Equal(t, "CRE-300", updated.Code)

	_, err = f.products.UpdateProduct(ctx, p.ID, &UpdateProductInput{Code: ptr("CRE-300")})
	require.NoError(t, err, "keeping the own code is not a conflict")

	_, err = f.products.UpdateProduct(ctx, p.ID, &UpdateProductInput{Price: ptr(dec("-5"))})
	assertFieldError(t, err, "price")
}

func TestDeleteProduct_Deactivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Creatina", 90, 5)

	require.NoError(t, f.products.DeleteProduct(ctx, p.ID))

	got, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	list, err := f.products.ListProducts(ctx, &repository.ProductFilterParams{Pagination: &pagination.PaginationParams{}})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	withInactive, err := f.products.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination:      &pagination.PaginationParams{},
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, withInactive.Items, 1)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Creatina", 90, 5)

	got, err := f.products.AdjustStock(ctx, p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Stock)

	got, err = f.products.AdjustStock(ctx, p.ID, -12)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = f.products.AdjustStock(ctx, p.ID, -1)
	assertAppError(t, err, http.StatusBadRequest)

	_, err = f.products.AdjustStock(ctx, p.ID, 0)
	assertFieldError(t, err, "delta")
}

func TestLowStockAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "Agua", 2, 50)
	low := f.product(t, "Shaker", 15, 3)
	gone := f.product(t, "Guantes", 40, 1)
	require.NoError(t, f.products.DeleteProduct(ctx, gone.ID))

	products, err := f.products.GetLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)

	stats, err := f.products.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ActiveCount)
	assert.Equal(t, int64(53), stats.TotalUnits)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, 10, stats.LowStockThreshold)
	assert.Equal(t, int64(50*200+3*1500), stats.InventoryValue)

	_, err = f.settings.UpdateSettings(ctx, &UpdateSettingsInput{LowStockThreshold: ptr(2)})
	require.NoError(t, err)
	products, err = f.products.GetLowStockProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestParseProductSheet_CSV(t *testing.T) {
	csv := "\xef\xbb\xbfNombre;Código;Precio;Stock;Categoría\n" +
		"Agua;AG-1;2,50;10;Bebidas\n" +
		";;;;\n" +
		"Barra;;abc;x;Snacks\n"

	rows, err := ParseProductSheet("productos.CSV", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	agua := rows[0]
	assert.Equal(t, 2, agua.Row)
	assert.Equal(t, "Agua", agua.Name)
	assert.Equal(t, "AG-1", agua.Code)
	assert.True(t, dec("2.5").Equal(agua.Price), agua.Price.String())
	assert.Equal(t, 10, agua.Stock)
	assert.Equal(t, "Bebidas", agua.CategoryName)
	assert.Empty(t, agua.PriceErr)

	barra := rows[1]
	assert.Equal(t, 4, barra.Row, "blank lines keep their line number")
	assert.Contains(t, barra.PriceErr, "not a number")
	assert.Contains(t, barra.StockErr, "not a whole number")
}

func TestParseProductSheet_NonFinitePrices(t *testing.T) {
	csv := "nombre,codigo,precio,stock\n" +
		"Raro,NAN-1,NaN,1\n" +
		"Infinito,INF-1,Inf,1\n" +
		"Enorme,BIG-1,1e300,1\n"

	rows, err := ParseProductSheet("productos.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.NotEmpty(t, rows[0].PriceErr)
	assert.NotEmpty(t, rows[1].PriceErr)
	assert.Empty(t, rows[2].PriceErr, "exponents parse, the range check rejects them on import")

	f := newFixture(t)
	result, err := f.products.ImportProducts(context.Background(), rows)
	require.NoError(t, err)
	assert.Zero(t, result.Successful)
	require.Len(t, result.Errors, 3)
	for i, e := range result.Errors {
		assert.Equal(t, i+2, e.Row)
		assert.Equal(t, "price", e.Field)
	}
	assert.Equal(t, "Price is too large", result.Errors[2].Message)

	var stored int64
	require.NoError(t, f.db.Model(&entity.Product{}).Where("code IN ?", []string{"NAN-1", "INF-1", "BIG-1"}).Count(&stored).Error)
	assert.Zero(t, stored)
}

func TestImportProducts_ReportsSheetRows(t *testing.T) {
	f := newFixture(t)
	rows, err := ParseProductSheet("productos.csv", strings.NewReader("nombre,precio,stock\nAgua,2.5,10\n,,\nMalo,-3,1\nCaro,abc,1\n"))
	require.NoError(t, err)

	result, err := f.products.ImportProducts(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, ImportRowError{Row: 4, Field: "price", Message: "Price must not be negative"}, result.Errors[0])
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, "Price 'abc' is not a number", result.Errors[1].Message)
}

func TestParseProductSheet_XLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]interface{}{"name", "price", "stock", "description"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]interface{}{"Proteína", "120.9", "4", "Vainilla"}))
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseProductSheet("import.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Proteína", rows[0].Name)
	assert.True(t, dec("120.9").Equal(rows[0].Price))
	assert.Equal(t, 4, rows[0].Stock)
	assert.Equal(t, "Vainilla", rows[0].Description)
}

func TestParseProductSheet_Rejects(t *testing.T) {
	_, err := ParseProductSheet("productos.pdf", strings.NewReader("x"))
	assertFieldError(t, err, "file")

	_, err = ParseProductSheet("productos.csv", strings.NewReader("precio,stock\n1,2\n"))
	assertFieldError(t, err, "file")

	_, err = ParseProductSheet("productos.xlsx", strings.NewReader("not a zip"))
	assertFieldError(t, err, "file")
}

func TestImportProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.products.CreateProduct(ctx, &CreateProductInput{Name: "Existente", Code: "EX-1", Price: dec("1")})
	require.NoError(t, err)

	result, err := f.products.ImportProducts(ctx, []ImportProductRow{
		{Name: "Agua", Code: "AG-1", Price: dec("2.5"), Stock: 10, CategoryName: "bebidas"},
		{Name: "Magnesio", Price: dec("30"), Stock: 2, CategoryName: "Vitaminas"},
		{Name: "", Price: dec("1")},
		{Name: "Dup", Code: "AG-1", Price: dec("1")},
		{Name: "Otro", Code: "EX-1", Price: dec("1")},
		{Name: "Malo", Price: dec("-1")},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 4, result.Failed)

	rows := make([]int, 0, len(result.Errors))
	for _, e := range result.Errors {
		rows = append(rows, e.Row)
	}
	assert.Equal(t, []int{4, 5, 6, 7}, rows)

	vitamins, err := f.categories.ListCategories(ctx, "vitaminas")
	require.NoError(t, err)
	require.Len(t, vitamins, 1, "unknown categories are created")

	list, err := f.products.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{},
		CategoryID: &vitamins[0].ID,
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Magnesio", list.Items[0].Name)
}

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.categories.ListCategories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	cat, err := f.categories.CreateCategory(ctx, "Ropa Deportiva")
	require.NoError(t, err)
	assert.Equal(t, "ropa-deportiva", cat.Slug)

	_, err = f.categories.CreateCategory(ctx, "ropa  deportiva")
	assertAppError(t, err, http.StatusConflict)

	_, err = f.categories.CreateCategory(ctx, "  ")
	assertFieldError(t, err, "name")

	renamed, err := f.categories.UpdateCategory(ctx, cat.ID, "Ropa")
	require.NoError(t, err)
	assert.Equal(t, "ropa", renamed.Slug)

	p, err := f.products.CreateProduct(ctx, &CreateProductInput{Name: "Polo", CategoryID: &cat.ID, Price: dec("35")})
	require.NoError(t, err)

	err = f.categories.DeleteCategory(ctx, cat.ID)
	assertAppError(t, err, http.StatusConflict)

	require.NoError(t, f.products.DeleteProduct(ctx, p.ID))
	require.NoError(t, f.categories.DeleteCategory(ctx, cat.ID))

	_, err = f.categories.GetCategory(ctx, cat.ID)
	assertAppError(t, err, http.StatusNotFound)

	got, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "inactive products lose the deleted category")
}
