package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Cell is one raw value read from a report: nil, string or float64
type Cell = any

// Table is a raw report as rows of cells. Rows may differ in length.
type Table [][]Cell

// CellString renders a cell as trimmed text. Whole numbers print without a
// decimal point so phone numbers and ids survive numeric storage.
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// cellAt returns the cell at index i, or nil when the row is too short
func cellAt(row []Cell, i int) Cell {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func isBlankRow(row []Cell) bool {
	return lo.EveryBy(row, func(c Cell) bool { return CellString(c) == "" })
}
