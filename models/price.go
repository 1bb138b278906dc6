package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount for display, rounded to cents.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// ParsePrice accepts a plain number ("29.99") or a display string ("$29.99").
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid price %q: negative", s)
	}
	return d, nil
}
