package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a membership payment
type CreatePaymentRequest struct {
	ClientID uuid.UUID           `json:"client_id" binding:"required"`
	Type     enum.PaymentType    `json:"type"`
	Amount   *decimal.Decimal    `json:"amount"`
	Period   *string             `json:"period" binding:"omitempty,max=50"`
	PaidAt   *time.Time          `json:"paid_at"`
	Method   *enum.PaymentMethod `json:"method"`
	Notes    *string             `json:"notes"`
}

// UpdatePaymentRequest edits a membership payment
type UpdatePaymentRequest struct {
	Type   *enum.PaymentType   `json:"type"`
	Amount *decimal.Decimal    `json:"amount"`
	Period *string             `json:"period" binding:"omitempty,max=50"`
	PaidAt *time.Time          `json:"paid_at"`
	Method *enum.PaymentMethod `json:"method"`
	Notes  *string             `json:"notes"`
}

// PaymentFilterRequest represents payment list parameters
type PaymentFilterRequest struct {
	ClientID string `form:"client_id"`
	Type     string `form:"type"`
	Method   string `form:"method"`
	From     string `form:"from"`
	To       string `form:"to"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
