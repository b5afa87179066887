package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_Defaults(t *testing.T) {
	f := newFixture(t)

	s, err := f.settings.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sparta Gym", s.GymName)
	assert.Equal(t, "S/", s.Currency)
	assert.Equal(t, int64(500), s.DailyPrice)
	assert.Equal(t, int64(3000), s.MonthlyPrice)
	assert.Equal(t, int64(8000), s.QuarterlyPrice)
	assert.Equal(t, 5, s.ReminderDays)
	assert.Equal(t, 10, s.LowStockThreshold)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"monthly_price":30`)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.settings.UpdateSettings(ctx, &UpdateSettingsInput{
		GymName:      ptr("  Sparta Gym Arequipa "),
		Phone:        ptr("054 123456"),
		MonthlyPrice: ptr(dec("35")),
		ReminderDays: ptr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sparta Gym Arequipa", s.GymName)
	assert.Equal(t, int64(3500), s.MonthlyPrice)

	again, err := f.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID, "a single settings row")
	assert.Equal(t, "054 123456", again.Phone)
	assert.Equal(t, 7, again.ReminderDays)
	assert.Equal(t, int64(500), again.DailyPrice, "fields left nil keep their value")

	rosa := f.client(t, "Rosa Mamani")
	p, err := f.payments.CreatePayment(ctx, &CreatePaymentInput{ClientID: rosa.ID, Type: enum.PaymentTypeMonthly})
	require.NoError(t, err)
	assert.Equal(t, int64(3500), p.Amount, "new prices apply to later payments")
}

func TestUpdateSettings_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settings.UpdateSettings(ctx, &UpdateSettingsInput{
		GymName:           ptr(" "),
		Currency:          ptr(""),
		DailyPrice:        ptr(dec("0")),
		QuarterlyPrice:    ptr(dec("-1")),
		ReminderDays:      ptr(61),
		LowStockThreshold: ptr(-1),
	})
	for _, field := range []string{"gym_name", "currency", "daily_price", "quarterly_price", "reminder_days", "low_stock_threshold"} {
		assertFieldError(t, err, field)
	}

	s, err := f.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sparta Gym", s.GymName, "rejected updates are not saved")
}
