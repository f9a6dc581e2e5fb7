package ingestion

import (
	"fmt"

	"github.com/dennisdiepolder/monti/analytics/internal/normalize"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

const (
	wideHeaderScanRows = 10
	wideMinColumns     = 13
)

var wideHeaderTokens = []string{"queue", "fila"}

var wideColumns = []columnSpec{
	{field: "queue", aliases: []string{"queue", "fila"}, fallback: 0},
	{field: "id", aliases: []string{"call id", "id", "uniqueid", "protocolo", "protocol"}, fallback: 1},
	{field: "phone", aliases: []string{"phone", "telefone", "numero", "number", "caller", "origem"}, fallback: 2},
	{field: "date", aliases: []string{"date", "data"}, fallback: 3},
	{field: "time", aliases: []string{"time", "hora", "horario"}, fallback: 4},
	{field: "status", aliases: []string{"status", "situacao", "result", "resultado"}, fallback: 5},
	{field: "wait", aliases: []string{"wait", "espera"}, fallback: 6},
	{field: "handle", aliases: []string{"handle", "talk", "duration", "duracao", "conversa"}, fallback: 7},
	{field: "operator", aliases: []string{"operator", "agent", "agente", "atendente", "operador"}, fallback: 8},
	{field: "extension", aliases: []string{"extension", "ramal", "ext"}, fallback: 9},
	{field: "region", aliases: []string{"region", "state", "estado", "uf"}, fallback: 10},
}

// PhoneWideParser reads the wide call workbook. Its header floats below a
// variable number of title rows, so the first rows are scanned for a queue
// column. Queue and region gaps are filled from the filename and the
// caller's area code.
type PhoneWideParser struct{}

func (PhoneWideParser) Source() types.Source { return types.SourcePhoneWide }

func (p PhoneWideParser) Parse(in Input) (*Result, error) {
	src := p.Source()
	if len(in.Table) == 0 || allBlank(in.Table) {
		return nil, structural(src, ErrEmptyInput)
	}

	var problems []error
	headerIdx, found := findHeaderRow(in.Table, wideHeaderScanRows, wideHeaderTokens)
	if !found {
		problems = append(problems, fmt.Errorf("%w in the first %d rows", ErrHeaderNotFound, wideHeaderScanRows))
	}

	data := in.Table[headerIdx+1:]
	if found && allBlank(data) {
		problems = append(problems, ErrNoDataRows)
	}
	if w := widestRow(data); w > 0 && w < wideMinColumns {
		problems = append(problems, fmt.Errorf("%w: data rows have %d columns, need at least %d", ErrTooFewColumns, w, wideMinColumns))
	}
	if len(problems) > 0 {
		return nil, structural(src, problems...)
	}

	res := newResult(src)
	res.Diagnostics.HeaderRow = headerIdx
	res.Diagnostics.Period = PeriodFromFilename(in.Filename)

	cols := locateColumns(in.Table[headerIdx], wideColumns)
	get := func(row []Cell, field string) Cell {
		idx, ok := cols[field]
		if !ok {
			return nil
		}
		return cellAt(row, idx)
	}

	defaultQueue := QueueFromFilename(in.Filename)
	fields := fieldReader{loc: in.location(), diag: &res.Diagnostics}
	ids := newIDAllocator()

	for i, row := range data {
		if isBlankRow(row) {
			continue
		}
		res.Diagnostics.TotalRows++

		rowNum := headerIdx + i + 2
		dateCell := get(row, "date")
		phone := CellString(get(row, "phone"))
		if CellString(dateCell) == "" && phone == "" && CellString(get(row, "status")) == "" {
			res.Diagnostics.Skip("missing_fields")
			continue
		}

		id := CellString(get(row, "id"))
		if id == "" {
			id = fmt.Sprintf("%s-%d", src, rowNum)
		}

		region := CellString(get(row, "region"))
		if region == "" {
			region = RegionFromPhone(phone)
		}

		rec := types.Record{
			ID:            ids.next(id),
			Queue:         queueOr(get(row, "queue"), defaultQueue),
			Phone:         phone,
			Outcome:       normalize.NormalizeStatus(CellString(get(row, "status"))),
			StartedAt:     fields.instantWithClock(dateCell, get(row, "time")),
			WaitSeconds:   fields.duration(get(row, "wait")),
			HandleSeconds: fields.duration(get(row, "handle")),
			Operator:      CellString(get(row, "operator")),
			Extension:     CellString(get(row, "extension")),
			Region:        region,
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

// widestRow returns the longest row length. Readers drop trailing empty
// cells, so one full-width row is enough.
func widestRow(rows Table) int {
	w := 0
	for _, row := range rows {
		if n := len(row); n > w {
			w = n
		}
	}
	return w
}
