package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	Code        string          `json:"code" binding:"omitempty,max=100"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
	Description *string         `json:"description"`
}

// UpdateProductRequest represents a product update request. Send
// "clear_category": true to remove the category.
type UpdateProductRequest struct {
	CategoryID    *uuid.UUID       `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Code          *string          `json:"code" binding:"omitempty,min=1,max=100"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	Active        *bool            `json:"active"`
	Description   *string          `json:"description"`
}

// AdjustStockRequest is a signed stock delta
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search          string `form:"search"`
	CategoryID      string `form:"category_id"`
	LowStock        bool   `form:"low_stock"`
	IncludeInactive bool   `form:"include_inactive"`
	SortBy          string `form:"sort_by"`
	SortOrder       string `form:"sort_order"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
	Cursor          string `form:"cursor"`
	Direction       string `form:"direction"`
	Limit           int    `form:"limit"` // For cursor-based pagination
}

// CategoryRequest creates or renames a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}
