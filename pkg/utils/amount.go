package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount as typed in spreadsheets exported from
// the billing system. A comma is accepted as the decimal separator and blank
// input is zero. Negative amounts are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("invalid amount")
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("amount must be zero or greater")
	}
	return d, nil
}
