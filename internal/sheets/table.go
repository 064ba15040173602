package sheets

import (
	"errors"
	"fmt"
	"strings"

	"financas/internal/core"
)

// ErrMissingColumn is returned when a sheet's header row lacks a ledger column.
var ErrMissingColumn = errors.New("ledger sheet is missing a column")

// RowsFromTable maps a header row plus data rows onto ledger rows. Columns are
// located by header name, so a sheet with reordered columns still loads.
// Blank lines are skipped. An empty table is an empty ledger.
func RowsFromTable(values [][]string) ([]core.Row, error) {
	if len(values) == 0 {
		return nil, nil
	}
	index, err := columnIndex(values[0])
	if err != nil {
		return nil, err
	}
	out := make([]core.Row, 0, len(values)-1)
	for _, line := range values[1:] {
		if isBlank(line) {
			continue
		}
		ordered := make([]string, len(index))
		for i, col := range index {
			if col < len(line) {
				ordered[i] = line[col]
			}
		}
		out = append(out, core.RowFromValues(ordered))
	}
	return out, nil
}

func columnIndex(header []string) ([]int, error) {
	index := make([]int, len(core.Columns))
	for i, name := range core.Columns {
		index[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				index[i] = j
				break
			}
		}
		if index[i] == -1 {
			return nil, fmt.Errorf("%w: %s (header=%v)", ErrMissingColumn, name, header)
		}
	}
	return index, nil
}

func isBlank(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
