package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Settings is the single gym-wide configuration row
type Settings struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	GymName           string    `gorm:"size:255;not null" json:"gym_name"`
	Address           string    `gorm:"type:text" json:"address"`
	Phone             string    `gorm:"size:50" json:"phone"`
	TaxID             string    `gorm:"size:50" json:"tax_id"`
	Currency          string    `gorm:"size:10;not null" json:"currency"`
	DailyPrice        int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	MonthlyPrice      int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	QuarterlyPrice    int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	ReminderDays      int       `gorm:"not null" json:"reminder_days"`
	LowStockThreshold int       `gorm:"not null" json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSettings returns the values used before an admin edits them.
func DefaultSettings() *Settings {
	return &Settings{
		GymName:           "Sparta Gym",
		Currency:          "S/",
		DailyPrice:        500,
		MonthlyPrice:      3000,
		QuarterlyPrice:    8000,
		ReminderDays:      5,
		LowStockThreshold: 10,
	}
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Settings) MarshalJSON() ([]byte, error) {
	type Alias Settings
	return json.Marshal(&struct {
		Alias
		DailyPrice     float64 `json:"daily_price"`
		MonthlyPrice   float64 `json:"monthly_price"`
		QuarterlyPrice float64 `json:"quarterly_price"`
	}{
		Alias:          Alias(s),
		DailyPrice:     float64(s.DailyPrice) / 100,
		MonthlyPrice:   float64(s.MonthlyPrice) / 100,
		QuarterlyPrice: float64(s.QuarterlyPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating the settings row
func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Settings model
func (Settings) TableName() string {
	return "settings"
}

// PriceFor returns the default membership price in cents for a payment type.
func (s *Settings) PriceFor(t enum.PaymentType) int64 {
	switch t {
	case enum.PaymentTypeDaily:
		return s.DailyPrice
	case enum.PaymentTypeMonthly:
		return s.MonthlyPrice
	case enum.PaymentTypeQuarterly:
		return s.QuarterlyPrice
	}
	return 0
}
