package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	assert.NoError(t, Money{Cents: 1}.Validate())
	assert.NoError(t, Money{Cents: 0}.Validate(), "zero is a valid amount")
	assert.ErrorIs(t, Money{Cents: -1}.Validate(), ErrInvalidAmount)
}

func TestAllowedCategories(t *testing.T) {
	assert.True(t, Income.Allows(Salary))
	assert.True(t, Income.Allows(Other))
	assert.False(t, Income.Allows(CreditCard))
	assert.True(t, Expense.Allows(CreditCard))
	assert.True(t, Expense.Allows(FixedExpense))
	assert.False(t, Expense.Allows(Salary))
	assert.False(t, Type("Transferência").Allows(Other))
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(Income, Salary, Money{Cents: 100000}, NewDate(2024, 1, 10), "  janeiro ")
	require.NoError(t, err)
	assert.Equal(t, "janeiro", tx.Description)
	assert.Equal(t, int64(100000), tx.Signed().Cents)

	bads := []struct {
		name string
		tx   func() (Transaction, error)
		want error
	}{
		{"negative amount", func() (Transaction, error) {
			return NewTransaction(Expense, CreditCard, Money{Cents: -500}, NewDate(2024, 1, 1), "")
		}, ErrInvalidAmount},
		{"category of the other type", func() (Transaction, error) {
			return NewTransaction(Income, CreditCard, Money{Cents: 1}, NewDate(2024, 1, 1), "")
		}, ErrInvalidCategory},
		{"unknown type", func() (Transaction, error) {
			return NewTransaction(Type("x"), Other, Money{Cents: 1}, NewDate(2024, 1, 1), "")
		}, ErrInvalidType},
		{"zero date", func() (Transaction, error) {
			return NewTransaction(Income, Other, Money{Cents: 1}, Date{}, "")
		}, ErrInvalidDate},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tx()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestExpenseSignIsNegative(t *testing.T) {
	tx := Transaction{Date: NewDate(2024, 1, 15), Type: Expense, Category: CreditCard, Amount: Money{Cents: 30000}}
	assert.Equal(t, int64(-30000), tx.Signed().Cents)
}

func TestTransactionRow(t *testing.T) {
	tx := Transaction{
		Date:        NewDate(2024, 2, 1),
		Type:        Income,
		Category:    Other,
		Amount:      Money{Cents: 5000},
		Description: "venda",
	}
	row := tx.Row()
	assert.Equal(t, Row{Date: "2024-02-01", Type: "Receita", Category: "Outras", Amount: "50.00", Description: "venda"}, row)
	assert.Equal(t, row, RowFromValues(row.Values()))
}

func TestRowFromValuesPadsMissingCells(t *testing.T) {
	row := RowFromValues([]string{"2024-01-10", " Despesa ", "Gastos Fixos", "12"})
	assert.Equal(t, "Despesa", row.Type)
	assert.Equal(t, "", row.Description)
}

func TestRowFromValuesKeepsDescription(t *testing.T) {
	row := RowFromValues([]string{" 2024-01-10", "Receita ", "Outras", " 5 ", "  pix da Ana "})
	assert.Equal(t, "2024-01-10", row.Date)
	assert.Equal(t, "Receita", row.Type)
	assert.Equal(t, "5", row.Amount)
	assert.Equal(t, "  pix da Ana ", row.Description)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-01-10", NewDate(2024, 1, 10), true},
		{"2024-01-10 00:00:00", NewDate(2024, 1, 10), true},
		{"2024-01-10T13:45:00Z", NewDate(2024, 1, 10), true},
		{"10/01/2024", NewDate(2024, 1, 10), true},
		{"01-10-24", NewDate(2024, 1, 10), true},
		{"45301", NewDate(2024, 1, 10), true},
		{"45301.5", NewDate(2024, 1, 10), true},
		{"", Date{}, false},
		{"not a date", Date{}, false},
		{"2024-13-40", Date{}, false},
		{"-3", Date{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got.Time), "want %s got %s", tc.want, got)
		})
	}
}

func TestPeriodOrdering(t *testing.T) {
	assert.True(t, Period{2023, 12}.Before(Period{2024, 1}))
	assert.True(t, Period{2024, 1}.Before(Period{2024, 2}))
	assert.False(t, Period{2024, 2}.Before(Period{2024, 2}))
	assert.Equal(t, "2024-01", NewDate(2024, 1, 31).Period().String())
}
