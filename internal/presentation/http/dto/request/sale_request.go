package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest sells one product
type CreateSaleRequest struct {
	ProductID  uuid.UUID          `json:"product_id" binding:"required"`
	Quantity   int                `json:"quantity" binding:"required,min=1"`
	ClientID   *uuid.UUID         `json:"client_id"`
	Method     enum.PaymentMethod `json:"method"`
	AmountPaid *decimal.Decimal   `json:"amount_paid"`
	Notes      *string            `json:"notes"`
}

// SaleFilterRequest represents sale list parameters
type SaleFilterRequest struct {
	ClientID  string `form:"client_id"`
	ProductID string `form:"product_id"`
	Status    string `form:"status"`
	Method    string `form:"method"`
	Cancelled string `form:"cancelled"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Cursor    string `form:"cursor"`
	Direction string `form:"direction"`
	Limit     int    `form:"limit"`
}

// PayDebtRequest pays towards a credit sale
type PayDebtRequest struct {
	Amount decimal.Decimal    `json:"amount"`
	Method enum.PaymentMethod `json:"method"`
	Notes  *string            `json:"notes"`
}
