package core

import "fmt"

// Period is a calendar month used as the grouping key for summaries.
type Period struct {
	Year  int
	Month int // 1-12
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before reports whether p is chronologically earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Type     Type
	Category Category
	Amount   Money
}
