package ingestion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

var ticketHeaderTokens = []string{"queue", "fila", "departamento", "department"}

var ticketColumns = []columnSpec{
	{field: "queue", aliases: []string{"queue", "fila", "departamento", "department"}, fallback: 0},
	{field: "tickets", aliases: []string{"tickets", "chamados", "quantidade", "qtd", "count", "total"}, fallback: 1},
	{field: "first_response", aliases: []string{"first response", "primeira resposta", "frt"}, fallback: 2},
	{field: "wait", aliases: []string{"wait", "espera"}, fallback: 3},
	{field: "handle", aliases: []string{"handle", "handling", "atendimento", "duracao"}, fallback: 4},
	{field: "resolution", aliases: []string{"resolution", "resolucao", "solucao"}, fallback: 5},
}

// TicketSummaryParser reads pre-aggregated ticket exports where each row
// already holds one queue's totals. Every ticket in them is closed, so the
// summaries count as answered with no abandonment.
type TicketSummaryParser struct{}

func (TicketSummaryParser) Source() types.Source { return types.SourceTicketSummary }

func (p TicketSummaryParser) Parse(in Input) (*Result, error) {
	src := p.Source()
	if len(in.Table) == 0 || allBlank(in.Table) {
		return nil, structural(src, ErrEmptyInput)
	}

	headerIdx, found := findHeaderRow(in.Table, wideHeaderScanRows, ticketHeaderTokens)
	if !found {
		return nil, structural(src, fmt.Errorf("%w in the first %d rows", ErrHeaderNotFound, wideHeaderScanRows))
	}
	data := in.Table[headerIdx+1:]
	if allBlank(data) {
		return nil, structural(src, ErrNoDataRows)
	}

	res := newResult(src)
	res.Diagnostics.HeaderRow = headerIdx
	res.Diagnostics.Period = PeriodFromFilename(in.Filename)

	cols := locateColumns(in.Table[headerIdx], ticketColumns)
	fields := fieldReader{loc: in.location(), diag: &res.Diagnostics}

	for _, row := range data {
		if isBlankRow(row) {
			continue
		}
		res.Diagnostics.TotalRows++

		get := func(field string) Cell {
			idx, ok := cols[field]
			if !ok {
				return nil
			}
			return cellAt(row, idx)
		}

		queue := CellString(get("queue"))
		switch {
		case queue == "":
			res.Diagnostics.Skip("missing_queue")
			continue
		case strings.EqualFold(queue, "total"):
			// Grand total rows would double count every queue.
			res.Diagnostics.Skip("total_row")
			continue
		}

		tickets, ok := parseCount(get("tickets"))
		if !ok {
			res.Diagnostics.Skip("invalid_count")
			continue
		}

		res.Summaries = append(res.Summaries, types.QueueSummary{
			Queue:                queue,
			Tickets:              tickets,
			FirstResponseSeconds: fields.duration(get("first_response")),
			WaitSeconds:          fields.duration(get("wait")),
			HandleSeconds:        fields.duration(get("handle")),
			ResolutionSeconds:    fields.duration(get("resolution")),
		})
	}

	res.Diagnostics.Parsed = len(res.Summaries)
	if len(res.Summaries) == 0 {
		return nil, structural(src, ErrNoValidRows)
	}
	return res, nil
}

// parseCount reads a non-negative whole count from a numeric or text cell
func parseCount(c Cell) (int, bool) {
	var f float64
	switch v := c.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ".", "")
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		f = float64(n)
	default:
		return 0, false
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}
