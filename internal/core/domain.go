package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stored values of the Tipo column.
const (
	Income  Type = "Receita"
	Expense Type = "Despesa"
)

// Stored values of the Subcategoria column.
const (
	Salary       Category = "Salário"
	Other        Category = "Outras"
	CreditCard   Category = "Cartão de Crédito"
	FixedExpense Category = "Gastos Fixos"
)

// Column headers of the persisted ledger sheet, in order.
const (
	ColumnDate        = "Data"
	ColumnType        = "Tipo"
	ColumnCategory    = "Subcategoria"
	ColumnAmount      = "Valor"
	ColumnDescription = "Descrição"
)

// Columns lists the ledger sheet headers in their persisted order.
var Columns = []string{ColumnDate, ColumnType, ColumnCategory, ColumnAmount, ColumnDescription}

// AllowedCategories maps each transaction type to the categories it accepts.
var AllowedCategories = map[Type][]Category{
	Income:  {Salary, Other},
	Expense: {CreditCard, FixedExpense},
}

type (
	Type     string
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one dated income or expense entry.
	Transaction struct {
		Date        Date
		Type        Type
		Category    Category
		Amount      Money
		Description string
	}

	// Ledger is the ordered collection of all transactions.
	Ledger []Transaction

	// Row is a ledger entry as it is persisted: one string per column.
	// Rows read back from storage may be malformed.
	Row struct {
		Date        string `json:"date"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description,omitempty"`
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category for transaction type")
)

// Types returns the transaction types in display order.
func Types() []Type {
	return []Type{Income, Expense}
}

// ParseType matches a stored or submitted type value.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.TrimSpace(s)); t {
	case Income, Expense:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Sign is +1 for income and -1 for expense.
func (t Type) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}

func (t Type) String() string { return string(t) }

func (c Category) String() string { return string(c) }

// Allows reports whether c is a valid category for t.
func (t Type) Allows(c Category) bool {
	for _, allowed := range AllowedCategories[t] {
		if allowed == c {
			return true
		}
	}
	return false
}

// ParseCategory matches a category value against the set allowed for t.
func ParseCategory(t Type, s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !t.Allows(c) {
		return "", fmt.Errorf("%w: %q for %s", ErrInvalidCategory, s, t)
	}
	return c, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Period returns the calendar month enclosing the date.
func (d Date) Period() Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// String formats the date the way it is persisted.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time component of t.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewTransaction builds a transaction from form input. The category must be one
// allowed for the type and the amount must not be negative.
func NewTransaction(t Type, c Category, amount Money, date Date, description string) (Transaction, error) {
	tx := Transaction{
		Date:        date,
		Type:        t,
		Category:    c,
		Amount:      amount,
		Description: strings.TrimSpace(description),
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if _, err := ParseType(string(tx.Type)); err != nil {
		return err
	}
	if !tx.Type.Allows(tx.Category) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidCategory, tx.Category, tx.Type)
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Signed returns the effect of the transaction on the balance.
func (tx Transaction) Signed() Money {
	return Money{Cents: tx.Type.Sign() * tx.Amount.Cents}
}

// Row converts the transaction to its persisted form.
func (tx Transaction) Row() Row {
	return Row{
		Date:        tx.Date.String(),
		Type:        string(tx.Type),
		Category:    string(tx.Category),
		Amount:      tx.Amount.String(),
		Description: tx.Description,
	}
}

// Values returns the row cells in column order.
func (r Row) Values() []string {
	return []string{r.Date, r.Type, r.Category, r.Amount, r.Description}
}

// RowFromValues builds a row from cells in column order. Missing trailing cells
// are left blank. The coded columns are trimmed; the description is kept as
// written.
func RowFromValues(values []string) Row {
	get := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
	return Row{
		Date:        strings.TrimSpace(get(0)),
		Type:        strings.TrimSpace(get(1)),
		Category:    strings.TrimSpace(get(2)),
		Amount:      strings.TrimSpace(get(3)),
		Description: get(4),
	}
}
