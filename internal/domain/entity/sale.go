package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale is a single-product counter sale. Credit sales (fiado) start as
// pending and are settled through debt payments.
type Sale struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo   string             `gorm:"size:100;uniqueIndex;not null" json:"receipt_no"`
	ProductID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"product_id"`
	ClientID    *uuid.UUID         `gorm:"type:uuid;index" json:"client_id,omitempty"`
	UserID      *uuid.UUID         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Quantity    int                `gorm:"not null" json:"quantity"`
	UnitPrice   int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total       int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	AmountPaid  int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Method      enum.PaymentMethod `gorm:"not null;default:0;index" json:"method"`
	Status      enum.PaymentStatus `gorm:"not null;default:0;index" json:"status"`
	Cancelled   bool               `gorm:"not null;index" json:"cancelled"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	SoldAt      time.Time          `gorm:"not null;index" json:"sold_at"`
	Notes       *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Relationships
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Client   *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		UnitPrice   float64 `json:"unit_price"`
		Total       float64 `json:"total"`
		AmountPaid  float64 `json:"amount_paid"`
		Outstanding float64 `json:"outstanding"`
	}{
		Alias:       Alias(s),
		UnitPrice:   float64(s.UnitPrice) / 100,
		Total:       float64(s.Total) / 100,
		AmountPaid:  float64(s.AmountPaid) / 100,
		Outstanding: float64(s.Outstanding()) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Outstanding is the amount still owed, never negative.
func (s *Sale) Outstanding() int64 {
	if s.Cancelled || s.AmountPaid >= s.Total {
		return 0
	}
	return s.Total - s.AmountPaid
}

// IsCredit reports whether the sale was recorded as fiado
func (s *Sale) IsCredit() bool {
	return s.Method == enum.PaymentMethodCredit
}
