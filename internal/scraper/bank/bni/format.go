package bni

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format used by every date field of the portal.
const DateLayout = "02-Jan-2006"

// FormatDate renders t the way the portal's date inputs expect.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a date rendered by the portal.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseAmount parses an amount rendered by the portal, e.g.
// "IDR 12.345.678,00" or "29.121,00". A leading currency token is ignored,
// dots group thousands and the comma separates the decimals.
func ParseAmount(s string) (decimal.Decimal, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return decimal.Zero, errors.New("empty amount")
	}
	amount := tokens[len(tokens)-1]
	amount = strings.NewReplacer(".", "", ",", ".").Replace(amount)

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// ParseCurrency is ParseAmount without the decimals.
func ParseCurrency(s string) (int64, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	return d.IntPart(), nil
}

// calendarDays counts the whole calendar days from from to to, ignoring the
// time of day and location offsets.
func calendarDays(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// MaxHistoryDays is the first span the portal refuses to search.
const MaxHistoryDays = 30

// ValidateDateRange accepts spans of 1 to MaxHistoryDays-1 calendar days.
func ValidateDateRange(from, to time.Time) error {
	days := calendarDays(from, to)
	if days <= 0 || days >= MaxHistoryDays {
		return fmt.Errorf("range %s to %s spans %d days, want 1 to %d",
			FormatDate(from), FormatDate(to), days, MaxHistoryDays-1)
	}
	return nil
}
