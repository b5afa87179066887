package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles the counter inventory
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	settings     *SettingsService
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	settings *SettingsService,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		settings:     settings,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Code        string
	Price       decimal.Decimal
	Stock       int
	Description *string
}

// CreateProduct creates an active product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var fieldErrors []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if msg := priceProblem(input.Price); msg != "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: msg})
	}
	if input.Stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "Stock must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = utils.GenerateProductCode()
	}
	if err := s.checkCode(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	product := &entity.Product{
		CategoryID:  input.CategoryID,
		Name:        name,
		Code:        code,
		Price:       toCents(input.Price),
		Stock:       input.Stock,
		Active:      true,
		Description: trimmed(input.Description),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

func (s *ProductService) checkCode(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Product code already exists")
	}
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewFieldError("category_id", "Category does not exist")
	}
	return nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListProductsWithCursor lists products with cursor-based pagination
func (s *ProductService) ListProductsWithCursor(ctx context.Context, params *repository.ProductCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Product], error) {
	if err := validateCursor(params.Cursor); err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(products, params.Cursor.Limit, params.Cursor.Cursor != "",
		func(p entity.Product) string { return p.ID.String() },
		func(p entity.Product) time.Time { return p.CreatedAt },
	)
	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// LowStockThreshold returns the configured threshold
func (s *ProductService) LowStockThreshold(ctx context.Context) (int, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.LowStockThreshold, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	CategoryID    *uuid.UUID
	ClearCategory bool
	Name          *string
	Code          *string
	Price         *decimal.Decimal
	Stock         *int
	Active        *bool
	Description   *string
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, apperror.NewFieldError("code", "Code must not be blank")
		}
		if code != product.Code {
			if err := s.checkCode(ctx, code, product.ID); err != nil {
				return nil, err
			}
			product.Code = code
		}
	}

	switch {
	case input.ClearCategory:
		product.CategoryID = nil
	case input.CategoryID != nil:
		if err := s.checkCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	product.Category = nil

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		product.Name = name
	}
	if input.Price != nil {
		if msg := priceProblem(*input.Price); msg != "" {
			return nil, apperror.NewFieldError("price", msg)
		}
		product.Price = toCents(*input.Price)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperror.NewFieldError("stock", "Stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Description != nil {
		product.Description = trimmed(input.Description)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deactivates a product. Sales keep referencing it.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !product.Active {
		return nil
	}
	product.Active = false
	product.Category = nil
	return s.productRepo.Update(ctx, product)
}

// AdjustStock applies a signed stock delta. The result must stay >= 0.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*entity.Product, error) {
	if delta == 0 {
		return nil, apperror.NewFieldError("delta", "Delta must not be zero")
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.productRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewBadRequestError("Stock cannot go below zero")
	}
	return s.productRepo.GetByID(ctx, id)
}

// GetLowStockProducts returns active products below the configured threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	threshold, err := s.LowStockThreshold(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// ProductStats summarises the active inventory
type ProductStats struct {
	ActiveCount       int64 `json:"active_count"`
	TotalUnits        int64 `json:"total_units"`
	LowStockCount     int64 `json:"low_stock_count"`
	LowStockThreshold int   `json:"low_stock_threshold"`
	InventoryValue    int64 `json:"-"`
}

func (p ProductStats) MarshalJSON() ([]byte, error) {
	type Alias ProductStats
	return json.Marshal(&struct {
		Alias
		InventoryValue float64 `json:"inventory_value"`
	}{Alias(p), fromCents(p.InventoryValue)})
}

// Stats returns counts, units and the inventory value (price x stock)
func (s *ProductService) Stats(ctx context.Context) (*ProductStats, error) {
	threshold, err := s.LowStockThreshold(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.productRepo.Stats(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return &ProductStats{
		ActiveCount:       stats.ActiveCount,
		TotalUnits:        stats.TotalUnits,
		LowStockCount:     stats.LowStockCount,
		LowStockThreshold: threshold,
		InventoryValue:    stats.InventoryValue,
	}, nil
}

// ImportProductRow is one parsed row of an import sheet. Row is the 1-based
// line in the file. PriceErr and StockErr hold cells that could not be read.
type ImportProductRow struct {
	Row          int
	Name         string
	Code         string
	Price        decimal.Decimal
	Stock        int
	CategoryName string
	Description  string
	PriceErr     string
	StockErr     string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates rows and creates the valid ones in one batch.
// Unknown category names are created on the fly.
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}

	categories, err := s.categoryRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	categoryBySlug := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		categoryBySlug[c.Slug] = c.ID
	}

	seenCodes := make(map[string]int)
	var valid []entity.Product

	for i, row := range rows {
		rowNum := row.Row
		if rowNum == 0 {
			rowNum = i + 2 // row 1 is the header
		}
		fail := func(field, msg string) {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: field, Message: msg})
		}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			fail("name", "Name is required")
			continue
		}
		if row.PriceErr != "" {
			fail("price", row.PriceErr)
			continue
		}
		if msg := priceProblem(row.Price); msg != "" {
			fail("price", msg)
			continue
		}
		if row.StockErr != "" {
			fail("stock", row.StockErr)
			continue
		}
		if row.Stock < 0 {
			fail("stock", "Stock must not be negative")
			continue
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateProductCode()
		}
		if prev, dup := seenCodes[code]; dup {
			fail("code", fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prev))
			continue
		}
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			fail("code", fmt.Sprintf("Product code '%s' already exists", code))
			continue
		}
		seenCodes[code] = rowNum

		var categoryID *uuid.UUID
		if catName := strings.TrimSpace(row.CategoryName); catName != "" {
			slug := utils.Slugify(catName)
			id, ok := categoryBySlug[slug]
			if !ok {
				category := &entity.Category{Name: catName, Slug: slug}
				if err := s.categoryRepo.Create(ctx, category); err != nil {
					return nil, err
				}
				id = category.ID
				categoryBySlug[slug] = id
			}
			categoryID = &id
		}

		valid = append(valid, entity.Product{
			CategoryID:  categoryID,
			Name:        name,
			Code:        code,
			Price:       toCents(row.Price),
			Stock:       row.Stock,
			Active:      true,
			Description: nullable(row.Description),
		})
	}

	if err := s.productRepo.CreateBatch(ctx, valid); err != nil {
		return nil, err
	}

	result.Successful = len(valid)
	result.Failed = len(result.Errors)
	return result, nil
}

// priceProblem describes why a price cannot be stored, or returns ""
func priceProblem(price decimal.Decimal) string {
	switch {
	case price.IsNegative():
		return "Price must not be negative"
	case amountTooLarge(price):
		return "Price is too large"
	}
	return ""
}
