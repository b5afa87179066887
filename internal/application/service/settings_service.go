package service

import (
	"context"
	"strings"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SettingsService manages the single gym settings row
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the settings row, creating defaults on first access
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = entity.DefaultSettings()
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings.
// Prices are decimals.
type UpdateSettingsInput struct {
	GymName           *string
	Address           *string
	Phone             *string
	TaxID             *string
	Currency          *string
	DailyPrice        *decimal.Decimal
	MonthlyPrice      *decimal.Decimal
	QuarterlyPrice    *decimal.Decimal
	ReminderDays      *int
	LowStockThreshold *int
}

// UpdateSettings updates the gym settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.Settings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	check := func(ok bool, field, msg string) {
		if !ok {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: msg})
		}
	}

	if input.GymName != nil {
		name := strings.TrimSpace(*input.GymName)
		check(name != "", "gym_name", "Gym name is required")
		settings.GymName = name
	}
	if input.Address != nil {
		settings.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		settings.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.TaxID != nil {
		settings.TaxID = strings.TrimSpace(*input.TaxID)
	}
	if input.Currency != nil {
		cur := strings.TrimSpace(*input.Currency)
		check(cur != "", "currency", "Currency is required")
		settings.Currency = cur
	}
	if input.DailyPrice != nil {
		check(input.DailyPrice.IsPositive(), "daily_price", "Price must be greater than zero")
		check(!amountTooLarge(*input.DailyPrice), "daily_price", "Price is too large")
		settings.DailyPrice = toCents(*input.DailyPrice)
	}
	if input.MonthlyPrice != nil {
		check(input.MonthlyPrice.IsPositive(), "monthly_price", "Price must be greater than zero")
		check(!amountTooLarge(*input.MonthlyPrice), "monthly_price", "Price is too large")
		settings.MonthlyPrice = toCents(*input.MonthlyPrice)
	}
	if input.QuarterlyPrice != nil {
		check(input.QuarterlyPrice.IsPositive(), "quarterly_price", "Price must be greater than zero")
		check(!amountTooLarge(*input.QuarterlyPrice), "quarterly_price", "Price is too large")
		settings.QuarterlyPrice = toCents(*input.QuarterlyPrice)
	}
	if input.ReminderDays != nil {
		check(*input.ReminderDays >= 0 && *input.ReminderDays <= 60, "reminder_days", "Must be between 0 and 60")
		settings.ReminderDays = *input.ReminderDays
	}
	if input.LowStockThreshold != nil {
		check(*input.LowStockThreshold >= 0, "low_stock_threshold", "Must not be negative")
		settings.LowStockThreshold = *input.LowStockThreshold
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
