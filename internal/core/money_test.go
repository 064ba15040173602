package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-1", 0, false},
		{"-5", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"1.١", 0, false},
		{"0.٩٩", 0, false},
		{"١٢", 0, false},
		{"1e3", 0, false},
		{"1E2", 0, false},
		{"12 34", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseStoredAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1000", 100000, true},
		{"1000.5", 100050, true},
		{"300.00", 30000, true},
		{"12,34", 1234, true},
		{"0.125", 13, true},
		{"1e3", 100000, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"", 0, false},
		{"R$ 10", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStoredAmount(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.out, got.Cents)
		})
	}
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "700.00", Money{Cents: 70000}.String())
	assert.Equal(t, "-0.05", Money{Cents: -5}.String())
	assert.InDelta(t, 12.34, Money{Cents: 1234}.Reais(), 1e-9)
	assert.Equal(t, int64(1235), MoneyFromDecimal(decimal.RequireFromString("12.345")).Cents)
	assert.Equal(t, Money{Cents: 3}, Money{Cents: 1}.Add(Money{Cents: 2}))
}
