// Package ledger turns a flat list of dated transactions into filtered views,
// per-month summaries and a running balance.
//
// Every function is pure: input is never modified and nothing is retained
// between calls.
package ledger

import (
	"log/slog"
	"sort"

	"financas/internal/core"
)

type (
	// TypeKey groups amounts by month and transaction type.
	TypeKey struct {
		Period core.Period
		Type   core.Type
	}

	// CategoryKey groups amounts by month, transaction type and category.
	CategoryKey struct {
		Period   core.Period
		Type     core.Type
		Category core.Category
	}

	// TypeSummary holds summed amounts per (period, type). Missing keys read as zero.
	TypeSummary map[TypeKey]core.Money

	// CategorySummary holds summed amounts per (period, type, category).
	CategorySummary map[CategoryKey]core.Money

	// PeriodBalance is the cumulative balance at the end of a period.
	PeriodBalance struct {
		Period  core.Period
		Balance core.Money
	}
)

// Normalize parses stored rows into transactions. Rows that cannot be turned
// into a valid transaction (unparseable date, unknown type, category outside
// the allowed set, bad or negative amount) are dropped without error.
func Normalize(rows []core.Row) core.Ledger {
	out := make(core.Ledger, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		tx, err := parseRow(r)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, tx)
	}
	if dropped > 0 {
		slog.Debug("Dropped malformed ledger rows", "dropped", dropped, "kept", len(out))
	}
	return out
}

func parseRow(r core.Row) (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := core.ParseType(r.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	c, err := core.ParseCategory(t, r.Category)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseStoredAmount(r.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Type:        t,
		Category:    c,
		Amount:      amount,
		Description: r.Description,
	}, nil
}

// Rows converts a ledger back to its persisted form.
func Rows(l core.Ledger) []core.Row {
	rows := make([]core.Row, len(l))
	for i, tx := range l {
		rows[i] = tx.Row()
	}
	return rows
}

// Years returns the distinct years present in the ledger, ascending.
func Years(l core.Ledger) []int {
	seen := map[int]struct{}{}
	var years []int
	for _, tx := range l {
		y := tx.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// SummarizeByTypeAndPeriod sums amounts per (month, type).
func SummarizeByTypeAndPeriod(l core.Ledger) TypeSummary {
	out := TypeSummary{}
	for _, tx := range l {
		k := TypeKey{Period: tx.Date.Period(), Type: tx.Type}
		out[k] = out[k].Add(tx.Amount)
	}
	return out
}

// SummarizeByTypeCategoryAndPeriod sums amounts per (month, type, category).
func SummarizeByTypeCategoryAndPeriod(l core.Ledger) CategorySummary {
	out := CategorySummary{}
	for _, tx := range l {
		k := CategoryKey{Period: tx.Date.Period(), Type: tx.Type, Category: tx.Category}
		out[k] = out[k].Add(tx.Amount)
	}
	return out
}

// RunningBalance is total income minus total expense over the summary.
func RunningBalance(s TypeSummary) core.Money {
	var balance core.Money
	for k, amount := range s {
		balance = balance.Add(core.Money{Cents: k.Type.Sign() * amount.Cents})
	}
	return balance
}

// BalanceSeries accumulates the net amount of each period in chronological
// order. The last element always equals RunningBalance(s).
func BalanceSeries(s TypeSummary) []PeriodBalance {
	periods := s.Periods()
	series := make([]PeriodBalance, 0, len(periods))
	var running core.Money
	for _, p := range periods {
		running = running.Add(s.Get(p, core.Income))
		running = running.Add(core.Money{Cents: -s.Get(p, core.Expense).Cents})
		series = append(series, PeriodBalance{Period: p, Balance: running})
	}
	return series
}

// Get returns the amount for (p, t), zero when absent.
func (s TypeSummary) Get(p core.Period, t core.Type) core.Money {
	return s[TypeKey{Period: p, Type: t}]
}

// Periods returns the distinct periods of the summary in chronological order.
func (s TypeSummary) Periods() []core.Period {
	set := map[core.Period]struct{}{}
	for k := range s {
		set[k.Period] = struct{}{}
	}
	return sortedPeriods(set)
}

// Total sums every amount of type t.
func (s TypeSummary) Total(t core.Type) core.Money {
	var total core.Money
	for k, amount := range s {
		if k.Type == t {
			total = total.Add(amount)
		}
	}
	return total
}

// Get returns the amount for (p, t, c), zero when absent.
func (s CategorySummary) Get(p core.Period, t core.Type, c core.Category) core.Money {
	return s[CategoryKey{Period: p, Type: t, Category: c}]
}

// Periods returns the distinct periods of the summary in chronological order.
func (s CategorySummary) Periods() []core.Period {
	set := map[core.Period]struct{}{}
	for k := range s {
		set[k.Period] = struct{}{}
	}
	return sortedPeriods(set)
}

// Amounts lists the non-empty (type, category) amounts of period p in the
// order of core.Types and core.AllowedCategories.
func (s CategorySummary) Amounts(p core.Period) []core.CategoryAmount {
	var out []core.CategoryAmount
	for _, t := range core.Types() {
		for _, c := range core.AllowedCategories[t] {
			if amount, ok := s[CategoryKey{Period: p, Type: t, Category: c}]; ok {
				out = append(out, core.CategoryAmount{Type: t, Category: c, Amount: amount})
			}
		}
	}
	return out
}

func sortedPeriods(set map[core.Period]struct{}) []core.Period {
	periods := make([]core.Period, 0, len(set))
	for p := range set {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}
