// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from form input
// and stored cells, and converting between cents and reais representations.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimalToCents converts a decimal string typed into the entry form to cents.
//
// Only ASCII digits and a single dot or comma separator are accepted, so signs,
// exponents and other scripts' digits are rejected and negative amounts never
// get past the form. Extra decimals are rounded half-up.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("-5") -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != ',' {
			return 0, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	if !d.Shift(2).Round(0).BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return MoneyFromDecimal(d).Cents, nil
}

// ParseStoredAmount converts a Valor cell to Money. Spreadsheet cells come
// back as plain decimal text ("1000", "12.5", "1e3") or with a decimal comma.
// Negative values are rejected.
func ParseStoredAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d), nil
}

// MoneyFromDecimal rounds a decimal amount in reais to cents.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// Decimal returns the amount in reais.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with two decimals and a dot separator, the way it
// is persisted.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Reais returns the value as a float64 for display and spreadsheet cells.
// Use cents for calculations.
func (m Money) Reais() float64 {
	return m.Decimal().InexactFloat64()
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}
