package service

import (
	"strings"
	"time"

	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// maxAmount is the largest money value accepted from clients or import files
var maxAmount = decimal.NewFromInt(10_000_000)

var hundred = decimal.NewFromInt(100)

// toCents converts a decimal amount into integer cents, rounding half away
// from zero. Callers check the range with amountTooLarge first.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func amountTooLarge(amount decimal.Decimal) bool {
	return amount.Abs().GreaterThan(maxAmount)
}

// parseAmount reads a spreadsheet money cell. A comma is taken as the
// decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// validateCursor clamps the params and rejects undecodable cursors
func validateCursor(p *pagination.CursorParams) error {
	p.Validate()
	if _, err := p.DecodeCursor(); err != nil {
		return apperror.NewBadRequestError(err.Error())
	}
	return nil
}

// dayBounds turns optional inclusive YYYY-MM-DD days into a half-open UTC range
func dayBounds(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var fromT, toT *time.Time
	if from != "" {
		t, err := utils.ParseDay(from, loc)
		if err != nil {
			return nil, nil, apperror.NewFieldError("from", "Invalid date, expected YYYY-MM-DD")
		}
		t = t.UTC()
		fromT = &t
	}
	if to != "" {
		t, err := utils.ParseDay(to, loc)
		if err != nil {
			return nil, nil, apperror.NewFieldError("to", "Invalid date, expected YYYY-MM-DD")
		}
		t = t.AddDate(0, 0, 1).UTC()
		toT = &t
	}
	if fromT != nil && toT != nil && !fromT.Before(*toT) {
		return nil, nil, apperror.NewFieldError("from", "From date must not be after to date")
	}
	return fromT, toT, nil
}
