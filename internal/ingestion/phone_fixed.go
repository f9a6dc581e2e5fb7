package ingestion

import (
	"fmt"

	"github.com/dennisdiepolder/monti/analytics/internal/normalize"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Fixed column layout of the small call table export
const (
	fixedColQueue = iota
	fixedColPhone
	fixedColAnsweredAt
	fixedColAbandonedAt
	fixedColTransferredAt
	fixedColWait
	fixedColHandle
	fixedColExtension
	fixedColOperator
)

// fixedMinCells is the shortest row that still reaches an outcome column.
// Readers drop trailing empty cells, so shorter rows are otherwise valid.
const fixedMinCells = fixedColAnsweredAt + 1

// fixedOutcomeColumns are checked in the status normalizer's precedence order
var fixedOutcomeColumns = []struct {
	index int
	label string
}{
	{fixedColAbandonedAt, "abandoned"},
	{fixedColTransferredAt, "transferred"},
	{fixedColAnsweredAt, "answered"},
}

// PhoneFixedParser reads the fixed-layout call table. The first row is the
// export's header and is never searched for; every column sits at a fixed
// position. The outcome is whichever of the three outcome timestamps is set.
type PhoneFixedParser struct{}

func (PhoneFixedParser) Source() types.Source { return types.SourcePhoneFixed }

func (p PhoneFixedParser) Parse(in Input) (*Result, error) {
	src := p.Source()
	if len(in.Table) == 0 || allBlank(in.Table) {
		return nil, structural(src, ErrEmptyInput)
	}

	res := newResult(src)
	res.Diagnostics.HeaderRow = 0
	res.Diagnostics.Period = PeriodFromFilename(in.Filename)

	data := in.Table[1:]
	if allBlank(data) {
		return nil, structural(src, ErrNoDataRows)
	}

	defaultQueue := QueueFromFilename(in.Filename)
	fields := fieldReader{loc: in.location(), diag: &res.Diagnostics}
	ids := newIDAllocator()

	for i, row := range data {
		if isBlankRow(row) {
			continue
		}
		res.Diagnostics.TotalRows++

		if len(row) < fixedMinCells {
			res.Diagnostics.Skip("short_row")
			continue
		}

		// Status text comes from the label of the first populated outcome
		// column; none populated leaves it empty.
		status := ""
		var startedCell Cell
		for _, col := range fixedOutcomeColumns {
			if CellString(cellAt(row, col.index)) != "" {
				status = col.label
				startedCell = cellAt(row, col.index)
				break
			}
		}

		rec := types.Record{
			ID:            ids.next(fmt.Sprintf("%s-%d", src, i+2)),
			Queue:         queueOr(cellAt(row, fixedColQueue), defaultQueue),
			Phone:         CellString(cellAt(row, fixedColPhone)),
			Outcome:       normalize.NormalizeStatus(status),
			StartedAt:     fields.instant(startedCell),
			WaitSeconds:   fields.duration(cellAt(row, fixedColWait)),
			HandleSeconds: fields.duration(cellAt(row, fixedColHandle)),
			Extension:     CellString(cellAt(row, fixedColExtension)),
			Operator:      CellString(cellAt(row, fixedColOperator)),
			Channel:       types.ChannelPhone,
		}
		res.Records = append(res.Records, rec)
	}

	res.Diagnostics.Parsed = len(res.Records)
	if len(res.Records) == 0 {
		return nil, structural(src, ErrNoValidRows)
	}
	return res, nil
}

func allBlank(rows Table) bool {
	for _, row := range rows {
		if !isBlankRow(row) {
			return false
		}
	}
	return true
}
