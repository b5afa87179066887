package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lima(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)
	return loc
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "suplementos", Slugify("Suplementos"))
	assert.Equal(t, "bebidas-energeticas", Slugify("  Bebidas   Energéticas "))
	assert.Equal(t, "nandu-cafe", Slugify("Ñandú & Café"))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("12345678"))
	assert.False(t, IsDigits("1234a678"))
	assert.False(t, IsDigits(""))
}

func TestGenerateReceiptNo(t *testing.T) {
	at := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	no := GenerateReceiptNo("V", at)
	assert.Regexp(t, `^V-20260309-[0-9A-F]{8}$`, no)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestSpanishMonthLabel(t *testing.T) {
	assert.Equal(t, "Enero 2026", SpanishMonthLabel(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2025", SpanishMonthLabel(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPresetRange(t *testing.T) {
	loc := lima(t)
	// Wednesday 2026-01-14 22:00 in Lima is already Thursday in UTC
	now := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)

	r, err := PresetRange("today", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-14", r.From.Format(DateLayout))
	assert.Equal(t, "2026-01-15", r.To.Format(DateLayout))

	r, err = PresetRange("week", now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, r.From.Weekday())
	assert.Equal(t, "2026-01-11", r.From.Format(DateLayout))
	assert.Len(t, r.Days(), 4)

	r, err = PresetRange("", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", r.From.Format(DateLayout))
	assert.Equal(t, "2026-01-31", r.LastDay().Format(DateLayout))

	r, err = PresetRange("anio", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2027-01-01", r.To.Format(DateLayout))

	_, err = PresetRange("decade", now, loc)
	assert.Error(t, err)
}

func TestResolveRange(t *testing.T) {
	loc := lima(t)
	now := time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC)

	r, err := ResolveRange("2026-01-05", "2026-01-07", "", now, loc)
	require.NoError(t, err)
	assert.Len(t, r.Days(), 3)
	assert.Equal(t, "2026-01-07", r.LastDay().Format(DateLayout))

	_, err = ResolveRange("2026-01-10", "2026-01-02", "", now, loc)
	assert.Error(t, err)

	_, err = ResolveRange("10/01/2026", "", "", now, loc)
	assert.Error(t, err)

	r, err = ResolveRange("2024-01-01", "2024-12-31", "", now, loc)
	require.NoError(t, err, "a leap year fits")
	assert.Len(t, r.Days(), MaxRangeDays)

	_, err = ResolveRange("1900-01-01", "2100-12-31", "", now, loc)
	assert.ErrorContains(t, err, "must not exceed")
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	id := uuid.New()

	access, err := m.GenerateAccessToken(id, "a@b.pe", []string{"admin"}, []string{"manage-clients"})
	require.NoError(t, err)
	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, []string{"manage-clients"}, claims.Permissions)

	refresh, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)
	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	other := NewJWTManager("different", time.Hour, time.Hour)
	_, err = other.ValidateAccessToken(access)
	assert.Error(t, err)
}
