package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used when writing dates back to storage.
const DateLayout = "2006-01-02"

// Layouts accepted when reading a stored date, tried in order.
var storedDateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"01-02-06",
}

// Spreadsheet serial day numbers count from this date.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a stored date cell. Besides the textual layouts it accepts
// a spreadsheet serial day number, which is how unformatted date cells come
// back from some writers.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range storedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial < 2958466 {
		days := int(math.Floor(serial))
		return DateOf(serialEpoch.AddDate(0, 0, days)), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
