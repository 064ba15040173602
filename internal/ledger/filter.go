package ledger

import (
	"fmt"

	"financas/internal/core"
)

// Criteria selects the transactions kept by FilterByPeriod.
type Criteria interface {
	Match(d core.Date) bool
}

// YearMonth keeps entries dated inside the given month of the given year.
type YearMonth struct {
	Year  int
	Month int
}

func (c YearMonth) Match(d core.Date) bool {
	return d.Year() == c.Year && d.Month() == c.Month
}

func (c YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, c.Month)
}

// MonthDay keeps entries whose month and day match, in any year.
type MonthDay struct {
	Month int
	Day   int
}

func (c MonthDay) Match(d core.Date) bool {
	return d.Month() == c.Month && d.Day() == c.Day
}

func (c MonthDay) String() string {
	return fmt.Sprintf("--%02d-%02d", c.Month, c.Day)
}

// FilterByPeriod returns the transactions matching c, in ledger order. A nil
// criteria keeps everything. No match yields an empty ledger.
func FilterByPeriod(l core.Ledger, c Criteria) core.Ledger {
	out := make(core.Ledger, 0, len(l))
	for _, tx := range l {
		if c == nil || c.Match(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}
