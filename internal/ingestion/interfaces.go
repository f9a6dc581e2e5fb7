package ingestion

import (
	"fmt"
	"time"

	"github.com/dennisdiepolder/monti/analytics/internal/normalize"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Input is one raw report handed to a RowParser. Spreadsheet sources fill
// Table, delimited sources fill Text.
type Input struct {
	Table    Table
	Text     string
	Filename string
	Location *time.Location // wall clock of the report, UTC when nil
}

func (in Input) location() *time.Location {
	if in.Location == nil {
		return time.UTC
	}
	return in.Location
}

// Result is the outcome of a successful parse
type Result struct {
	Records     []types.Record
	Summaries   []types.QueueSummary
	Diagnostics types.Diagnostics
}

func newResult(source types.Source) *Result {
	return &Result{Diagnostics: types.Diagnostics{Source: source, HeaderRow: -1}}
}

// RowParser turns the raw report of one source platform into canonical records.
// A malformed row is skipped and counted; only a structurally unreadable
// input returns an error, always a *StructuralError.
type RowParser interface {
	Source() types.Source
	Parse(in Input) (*Result, error)
}

// ParserFor returns the parser registered for a source
func ParserFor(source types.Source) (RowParser, error) {
	switch source {
	case types.SourcePhoneFixed:
		return PhoneFixedParser{}, nil
	case types.SourcePhoneWide:
		return PhoneWideParser{}, nil
	case types.SourceChatCSV:
		return ChatCSVParser{}, nil
	case types.SourceTicketSummary:
		return TicketSummaryParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// idAllocator hands out dataset-unique record ids
type idAllocator struct {
	seen map[string]int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{seen: make(map[string]int)}
}

func (a *idAllocator) next(base string) string {
	n := a.seen[base]
	a.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n+1)
}

// fieldReader applies the shared normalizers and counts field-level fallbacks
type fieldReader struct {
	loc  *time.Location
	diag *types.Diagnostics
}

func (f fieldReader) duration(c Cell) int {
	secs, ok := normalize.ParseDuration(c)
	if !ok && CellString(c) != "" {
		f.diag.UnparsedDurations++
	}
	return secs
}

func (f fieldReader) instant(c Cell) *time.Time {
	t, ok := normalize.ParseDate(c, f.loc)
	if !ok {
		if CellString(c) != "" {
			f.diag.UnparsedDates++
		}
		return nil
	}
	return &t
}

func (f fieldReader) instantWithClock(date, clock Cell) *time.Time {
	t, ok := normalize.CombineDateTime(date, clock, f.loc)
	if !ok {
		if CellString(date) != "" {
			f.diag.UnparsedDates++
		}
		return nil
	}
	return &t
}

// queueOr returns the row's queue, falling back to the filename-derived one
func queueOr(c Cell, fallback string) string {
	if q := CellString(c); q != "" {
		return q
	}
	return fallback
}
