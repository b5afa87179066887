package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Payment is money received from a client. Membership payments (daily,
// monthly, quarterly) extend the client's access; product payments settle
// store-credit sales.
type Payment struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ClientID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	SaleID    *uuid.UUID         `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	UserID    *uuid.UUID         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type      enum.PaymentType   `gorm:"not null;default:0;index" json:"type"`
	Amount    int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Period    *string            `gorm:"size:50" json:"period,omitempty"`
	Method    enum.PaymentMethod `gorm:"not null;default:0" json:"method"`
	PaidAt    time.Time          `gorm:"not null;index" json:"paid_at"`
	Notes     *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Relationships
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Sale   *Sale   `gorm:"foreignKey:SaleID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// GetAmountDecimal returns the amount as a decimal
func (p *Payment) GetAmountDecimal() float64 {
	return float64(p.Amount) / 100
}
