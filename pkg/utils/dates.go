package utils

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DateLayout is the wire format for calendar days
const DateLayout = "2006-01-02"

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// SpanishMonthLabel returns the membership period label, e.g. "Enero 2026".
func SpanishMonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns the Sunday that starts t's week in loc
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	d := StartOfDay(t, loc)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// StartOfMonth returns the first day of t's month in loc
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// StartOfYear returns January 1st of t's year in loc
func StartOfYear(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
}

// ParseDay parses a YYYY-MM-DD day as midnight in loc
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// MaxRangeDays caps a resolved range; a leap year fits
const MaxRangeDays = 366

// DateRange is a half-open [From, To) interval. Day boundaries are
// computed in the gym timezone.
type DateRange struct {
	From time.Time
	To   time.Time
}

// LastDay is the inclusive final calendar day of the range
func (r DateRange) LastDay() time.Time {
	return r.To.AddDate(0, 0, -1)
}

// Days returns the start of every calendar day covered by the range
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.From; d.Before(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// PresetRange resolves today, week, month or year relative to now.
// Month and year cover the whole calendar period; week runs from Sunday to today.
func PresetRange(preset string, now time.Time, loc *time.Location) (DateRange, error) {
	today := StartOfDay(now, loc)
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "today", "hoy":
		return DateRange{From: today, To: today.AddDate(0, 0, 1)}, nil
	case "week", "semana":
		return DateRange{From: StartOfWeek(now, loc), To: today.AddDate(0, 0, 1)}, nil
	case "", "month", "mes":
		from := StartOfMonth(now, loc)
		return DateRange{From: from, To: from.AddDate(0, 1, 0)}, nil
	case "year", "anio", "año":
		from := StartOfYear(now, loc)
		return DateRange{From: from, To: from.AddDate(1, 0, 0)}, nil
	}
	return DateRange{}, fmt.Errorf("unknown preset %q", preset)
}

// ResolveRange builds a range from inclusive from/to days. When both are
// empty the preset decides; a single missing bound is taken from the preset.
func ResolveRange(from, to, preset string, now time.Time, loc *time.Location) (DateRange, error) {
	base, err := PresetRange(preset, now, loc)
	if err != nil {
		return DateRange{}, err
	}

	r := base
	if from != "" {
		if r.From, err = ParseDay(from, loc); err != nil {
			return DateRange{}, fmt.Errorf("invalid from date %q", from)
		}
	}
	if to != "" {
		last, err := ParseDay(to, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid to date %q", to)
		}
		r.To = last.AddDate(0, 0, 1)
	}
	if !r.From.Before(r.To) {
		return DateRange{}, fmt.Errorf("from date must not be after to date")
	}
	if r.To.After(r.From.AddDate(0, 0, MaxRangeDays)) {
		return DateRange{}, fmt.Errorf("date range must not exceed %d days", MaxRangeDays)
	}
	return r, nil
}
