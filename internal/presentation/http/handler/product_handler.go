package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/sparta-gym-api/internal/application/service"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/request"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

const maxImportSize = 10 << 20

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products (supports both page-based and cursor-based pagination)
// @Summary List products
// @Tags products
// @Security BearerAuth
// @Param search query string false "Name or code"
// @Param category_id query string false "Category ID"
// @Param low_stock query bool false "Only products below the low-stock threshold"
// @Param include_inactive query bool false "Include deactivated products"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req request.ProductFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	categoryID, ok := optionalUUID(c, "category_id", req.CategoryID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	lowStockBelow := 0
	if req.LowStock {
		threshold, err := h.productService.LowStockThreshold(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}
		lowStockBelow = threshold
	}

	if wantsCursor(req.Cursor, req.Limit) {
		result, err := h.productService.ListProductsWithCursor(ctx, &repository.ProductCursorFilterParams{
			Cursor:          cursorParams(req.Cursor, req.Direction, req.Limit),
			Search:          req.Search,
			CategoryID:      categoryID,
			LowStockBelow:   lowStockBelow,
			IncludeInactive: req.IncludeInactive,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithCursor(c, "Products retrieved successfully", result)
		return
	}

	result, err := h.productService.ListProducts(ctx, &repository.ProductFilterParams{
		Pagination:      &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:          req.Search,
		CategoryID:      categoryID,
		LowStockBelow:   lowStockBelow,
		IncludeInactive: req.IncludeInactive,
		SortBy:          req.SortBy,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Products retrieved successfully", result)
}

// Create handles creating a product
// @Summary Create product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateProductRequest true "Product"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created successfully", product)
}

// Get handles fetching a product
// @Summary Get product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
// @Summary Update product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body request.UpdateProductRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Name:          req.Name,
		Code:          req.Code,
		Price:         req.Price,
		Stock:         req.Stock,
		Active:        req.Active,
		Description:   req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product updated successfully", product)
}

// Delete handles deactivating a product
// @Summary Delete product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product deleted successfully", nil)
}

// AdjustStock handles a signed stock correction
// @Summary Adjust stock
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body request.AdjustStockRequest true "Delta"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock updated successfully", product)
}

// GetLowStock handles getting products with low stock
// @Summary Low stock products
// @Tags products
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /products/low-stock [get]
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Low stock products retrieved successfully", products)
}

// Stats handles inventory totals
// @Summary Product stats
// @Tags products
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /products/stats [get]
func (h *ProductHandler) Stats(c *gin.Context) {
	stats, err := h.productService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product stats retrieved successfully", stats)
}

// Import handles a bulk product upload from an XLSX or CSV sheet
// @Summary Import products
// @Tags products
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "Sheet (.xlsx or .csv)"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.NewFieldError("file", "A .xlsx or .csv file is required"))
		return
	}
	if header.Size > maxImportSize {
		response.Error(c, apperror.NewFieldError("file", "File is larger than 10 MB"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	rows, err := service.ParseProductSheet(header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Import finished", result)
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles listing categories
// @Summary List categories
// @Tags categories
// @Security BearerAuth
// @Param search query string false "Name"
// @Success 200 {object} response.APIResponse
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

// Create handles creating a category
// @Summary Create category
// @Tags categories
// @Security BearerAuth
// @Param request body request.CategoryRequest true "Category"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

// Get handles fetching a category
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category retrieved successfully", category)
}

// Update handles renaming a category
// @Summary Update category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body request.CategoryRequest true "Category"
// @Success 200 {object} response.APIResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

// Delete handles deleting a category
// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}
