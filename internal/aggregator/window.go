package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// ErrInvalidWindow is returned for window bounds that are not calendar dates
var ErrInvalidWindow = errors.New("invalid window")

// ParseWindow validates raw window bounds. Either bound may be empty.
func ParseWindow(start, end string) (types.Window, error) {
	for _, b := range []string{start, end} {
		if b == "" {
			continue
		}
		if _, err := time.Parse(types.DateLayout, b); err != nil {
			return types.Window{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidWindow, b)
		}
	}
	if start != "" && end != "" && start > end {
		return types.Window{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, start, end)
	}
	return types.Window{Start: start, End: end}, nil
}

// FilterWindow keeps the records whose local calendar date lies inside the
// inclusive window. With no bounds every record is kept; with any bound,
// undated records are dropped.
func FilterWindow(records []types.Record, w types.Window) []types.Record {
	if w.IsZero() {
		return records
	}
	return lo.Filter(records, func(r types.Record, _ int) bool {
		day := r.DateKey()
		if day == "" {
			return false
		}
		if w.Start != "" && day < w.Start {
			return false
		}
		if w.End != "" && day > w.End {
			return false
		}
		return true
	})
}
