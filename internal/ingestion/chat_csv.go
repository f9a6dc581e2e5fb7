package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dennisdiepolder/monti/analytics/internal/normalize"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

var chatColumns = []columnSpec{
	{field: "id", aliases: []string{"id", "protocolo", "protocol", "ticket", "chat id", "session"}, fallback: -1},
	{field: "queue", aliases: []string{"queue", "fila", "departamento", "department", "setor", "equipe", "team"}, fallback: -1},
	{field: "contact", aliases: []string{"contact", "contato", "cliente", "customer", "telefone", "phone", "whatsapp"}, fallback: -1},
	{field: "status", aliases: []string{"status", "situacao", "result", "resultado"}, fallback: -1},
	{field: "date", aliases: []string{"date", "data", "started at", "inicio", "created at", "criado em", "opened at"}, fallback: -1},
	{field: "wait", aliases: []string{"wait", "espera", "tempo de espera"}, fallback: -1},
	{field: "handle", aliases: []string{"duration", "duracao", "handle", "tempo de atendimento", "atendimento"}, fallback: -1},
	{field: "operator", aliases: []string{"agent", "agente", "operator", "operador", "atendente"}, fallback: -1},
}

// ChatCSVParser reads delimited chat exports. The delimiter is ";" when the
// header line contains one and "," otherwise. Unlike the spreadsheet
// sources, a row whose date cannot be read is dropped entirely.
type ChatCSVParser struct{}

func (ChatCSVParser) Source() types.Source { return types.SourceChatCSV }

func (p ChatCSVParser) Parse(in Input) (*Result, error) {
	src := p.Source()
	text := strings.TrimPrefix(in.Text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, structural(src, ErrEmptyInput)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRecord, err := reader.Read()
	if err != nil {
		return nil, structural(src, fmt.Errorf("%w: %v", ErrEmptyInput, err))
	}
	header := toCells(headerRecord)
	cols := locateColumns(header, chatColumns)
	if _, ok := cols["date"]; !ok {
		return nil, structural(src, fmt.Errorf("%w: date", ErrMissingColumn))
	}

	res := newResult(src)
	res.Diagnostics.HeaderRow = 0
	res.Diagnostics.Period = PeriodFromFilename(in.Filename)

	defaultQueue := QueueFromFilename(in.Filename)
	fields := fieldReader{loc: in.location(), diag: &res.Diagnostics}
	ids := newIDAllocator()

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Diagnostics.TotalRows++
			res.Diagnostics.Skip("malformed_row")
			continue
		}

		row := toCells(record)
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

		started, ok := normalize.ParseDate(get("date"), fields.loc)
		if !ok {
			res.Diagnostics.UnparsedDates++
			res.Diagnostics.Skip("unparseable_date")
			continue
		}

		id := CellString(get("id"))
		if id == "" {
			id = fmt.Sprintf("%s-%d", src, line)
		}

		rec := types.Record{
			ID:            ids.next(id),
			Queue:         queueOr(get("queue"), defaultQueue),
			Phone:         CellString(get("contact")),
			Outcome:       normalize.NormalizeStatus(CellString(get("status"))),
			StartedAt:     &started,
			WaitSeconds:   fields.duration(get("wait")),
			HandleSeconds: fields.duration(get("handle")),
			Operator:      CellString(get("operator")),
			Channel:       types.ChannelChat,
		}
		res.Records = append(res.Records, rec)
	}

	if res.Diagnostics.TotalRows == 0 {
		return nil, structural(src, ErrNoDataRows)
	}
	res.Diagnostics.Parsed = len(res.Records)
	if len(res.Records) == 0 {
		return nil, structural(src, ErrNoValidRows)
	}
	return res, nil
}

// detectDelimiter prefers ";" when the first line contains one
func detectDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Contains(first, ";") {
		return ';'
	}
	return ','
}

// toCells converts a CSV record into cells, stripping any quotes that lazy
// quoting left around a value
func toCells(record []string) []Cell {
	row := make([]Cell, len(record))
	for i, v := range record {
		v = strings.TrimSpace(v)
		if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
			v = v[1 : len(v)-1]
		}
		row[i] = v
	}
	return row
}
