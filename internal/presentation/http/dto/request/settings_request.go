package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest updates the gym settings
type UpdateSettingsRequest struct {
	GymName           *string          `json:"gym_name" binding:"omitempty,max=255"`
	Address           *string          `json:"address"`
	Phone             *string          `json:"phone" binding:"omitempty,max=50"`
	TaxID             *string          `json:"tax_id" binding:"omitempty,max=50"`
	Currency          *string          `json:"currency" binding:"omitempty,max=10"`
	DailyPrice        *decimal.Decimal `json:"daily_price"`
	MonthlyPrice      *decimal.Decimal `json:"monthly_price"`
	QuarterlyPrice    *decimal.Decimal `json:"quarterly_price"`
	ReminderDays      *int             `json:"reminder_days"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

// ReportRequest selects a report period
type ReportRequest struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Preset string `form:"preset"`
	Format string `form:"format"`
}
