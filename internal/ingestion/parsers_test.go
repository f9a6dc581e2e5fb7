package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

func fixedHeader() []Cell {
	return []Cell{"Fila", "Telefone", "Atendida", "Abandonada", "Transferida", "Espera", "Duração", "Ramal", "Operador"}
}

func TestPhoneFixedParser(t *testing.T) {
	in := Input{
		Filename: "fila_suporte_marco_2024.xlsx",
		Table: Table{
			fixedHeader(),
			{"Suporte", "11999990000", "2024-03-05 10:15:00", "", "", "00:00:20", "00:03:00", "201", "Ana"},
			{"Suporte", "21988887777", "", "2024-03-05 11:00:00", "", "00:01:30", "", "", ""},
			{"", "31977776666", "", "", "", 0.000231481, "", "", ""},
			{},
			{"Suporte", "x"},
		},
	}

	res, err := PhoneFixedParser{}.Parse(in)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	answered := res.Records[0]
	assert.Equal(t, "phone_fixed-2", answered.ID)
	assert.Equal(t, types.OutcomeAnswered, answered.Outcome)
	assert.Equal(t, 20, answered.WaitSeconds)
	assert.Equal(t, 180, answered.HandleSeconds)
	assert.Equal(t, "Ana", answered.Operator)
	assert.Equal(t, "201", answered.Extension)
	require.NotNil(t, answered.StartedAt)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC), *answered.StartedAt)

	abandoned := res.Records[1]
	assert.Equal(t, types.OutcomeAbandoned, abandoned.Outcome)
	assert.Equal(t, 0, abandoned.HandleSeconds)
	require.NotNil(t, abandoned.StartedAt)
	assert.Equal(t, 11, abandoned.StartedAt.Hour())

	// No outcome column set: empty status, queue from filename.
	bare := res.Records[2]
	assert.Equal(t, types.OutcomeAbandoned, bare.Outcome)
	assert.Equal(t, "Suporte", bare.Queue)
	assert.Equal(t, 20, bare.WaitSeconds)
	assert.Nil(t, bare.StartedAt)

	d := res.Diagnostics
	assert.Equal(t, types.SourcePhoneFixed, d.Source)
	assert.Equal(t, 4, d.TotalRows)
	assert.Equal(t, 3, d.Parsed)
	assert.Equal(t, 1, d.SkipReasons["short_row"])
	assert.Equal(t, 0, d.UnparsedDates)
	assert.Equal(t, "2024-03", d.Period)
}

func TestPhoneFixedParserStructural(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  error
	}{
		{"empty", Table{}, ErrEmptyInput},
		{"blank", Table{{"", nil}, {}}, ErrEmptyInput},
		{"header only", Table{fixedHeader()}, ErrNoDataRows},
		{"only short rows", Table{fixedHeader(), {"a", "b"}}, ErrNoValidRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PhoneFixedParser{}.Parse(Input{Table: tt.table})
			require.Error(t, err)
			assert.True(t, IsStructural(err))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func wideTable(rows ...[]Cell) Table {
	table := Table{
		{"Relatório de Filas - Janeiro 2024"},
		{"Fila", "ID", "Telefone", "Data", "Hora", "Status", "Espera", "Duração", "Agente", "Ramal", "Estado", "Observação", "Gravação"},
	}
	return append(table, rows...)
}

func TestPhoneWideParser(t *testing.T) {
	in := Input{
		Filename: "ligacoes_2024-03.xlsx",
		Table: wideTable(
			[]Cell{"Suporte", "", "(11) 98765-4321", "05/03/2024", "14:30", "Atendida", "00:00:40", "00:05:00", "Ana", "201", "", "", "rec-201.wav"},
			[]Cell{"Suporte", "X1", "11987654321", "05/03/2024", "09:00", "", "00:00:10", "00:00:00"},
			[]Cell{"Comercial", "X1", "21912345678", "not a date", "10:00", "Transferida", "00:01:00", "00:02:00", "Bia", "202", "RJ"},
			[]Cell{},
			[]Cell{"Suporte", "X3"},
		),
	}

	res, err := PhoneWideParser{}.Parse(in)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	first := res.Records[0]
	assert.Equal(t, "phone_wide-3", first.ID)
	assert.Equal(t, types.OutcomeAnswered, first.Outcome)
	assert.Equal(t, "SP", first.Region)
	assert.Equal(t, 40, first.WaitSeconds)
	assert.Equal(t, 300, first.HandleSeconds)
	require.NotNil(t, first.StartedAt)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), *first.StartedAt)

	// Empty status is an abandoned call.
	empty := res.Records[1]
	assert.Equal(t, "X1", empty.ID)
	assert.Equal(t, types.OutcomeAbandoned, empty.Outcome)
	require.NotNil(t, empty.StartedAt)

	// Unreadable date keeps the record without an instant.
	undated := res.Records[2]
	assert.Equal(t, "X1-2", undated.ID)
	assert.Equal(t, types.OutcomeTransferred, undated.Outcome)
	assert.Equal(t, "RJ", undated.Region)
	assert.Nil(t, undated.StartedAt)

	d := res.Diagnostics
	assert.Equal(t, 1, d.HeaderRow)
	assert.Equal(t, 4, d.TotalRows)
	assert.Equal(t, 1, d.Skipped)
	assert.Equal(t, 1, d.SkipReasons["missing_fields"])
	assert.Equal(t, 1, d.UnparsedDates)
	assert.Equal(t, "2024-03", d.Period)
}

func TestPhoneWideParserLocatedLocalTime(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	in := Input{
		Location: brt,
		Table:    wideTable([]Cell{"Suporte", "1", "11987654321", 45356.0, 0.5, "answered", "", "", "", "", "", "", "-"}),
	}

	res, err := PhoneWideParser{}.Parse(in)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	started := res.Records[0].StartedAt
	require.NotNil(t, started)
	assert.Equal(t, "2024-03-05", started.Format(types.DateLayout))
	assert.Equal(t, 12, started.Hour())
	assert.Equal(t, brt, started.Location())
}

func TestPhoneWideParserListsEveryProblem(t *testing.T) {
	table := Table{
		{"Relatório", "Janeiro"},
		{"a", "b", "c"},
		{"d", "e", "f"},
	}

	_, err := PhoneWideParser{}.Parse(Input{Table: table})
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.SourcePhoneWide, se.Source)
	assert.Len(t, se.Problems, 2)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.ErrorIs(t, err, ErrTooFewColumns)
	assert.Contains(t, err.Error(), "queue column not found")
}

func TestPhoneWideParserPluralQueueHeader(t *testing.T) {
	table := Table{
		{"Relatório de Filas"},
		{"Filas", "ID", "Telefone", "Data", "Hora", "Status", "Espera", "Duração", "Agente", "Ramal", "Estado", "Observação", "Gravação"},
		{"Retenção", "7", "11987654321", "05/03/2024", "08:00", "Atendida", "00:00:05", "00:01:00", "Ana", "201", "", "", "-"},
	}

	res, err := PhoneWideParser{}.Parse(Input{Table: table})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Diagnostics.HeaderRow)
	assert.Equal(t, "Retenção", res.Records[0].Queue)
}

func TestPhoneWideParserNarrowDataRows(t *testing.T) {
	table := Table{
		{"Fila", "ID", "Telefone", "Data", "Hora", "Status", "Espera", "Duração", "Agente", "Ramal", "Estado", "Observação", "Gravação"},
		{"A", "1", "11987654321"},
		{"B", "2", "11987654321"},
	}

	_, err := PhoneWideParser{}.Parse(Input{Table: table})
	require.Error(t, err)

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Len(t, se.Problems, 1)
	assert.ErrorIs(t, err, ErrTooFewColumns)
	assert.Contains(t, err.Error(), "data rows have 3 columns")
}

func TestPhoneWideParserHeaderWithoutRows(t *testing.T) {
	_, err := PhoneWideParser{}.Parse(Input{Table: wideTable()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestChatCSVParser(t *testing.T) {
	text := "Protocolo;Departamento;Contato;Status;Data de início;Tempo de espera;Duração;Atendente\n" +
		"1001;Suporte;5511987654321;Finalizado;05/03/2024 09:15;00:00:30;00:04:00;Carla\n" +
		"1002;;5521912345678;Abandonado;05/03/2024 09:20;00:02:00;;\n" +
		"1003;Suporte;x;Atendido;ontem;00:00:10;00:01:00;Carla\n" +
		"\n"

	res, err := ChatCSVParser{}.Parse(Input{Text: text, Filename: "chats_comercial.csv"})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, "Suporte", first.Queue)
	assert.Equal(t, types.OutcomeAnswered, first.Outcome)
	assert.Equal(t, types.ChannelChat, first.Channel)
	assert.Equal(t, 30, first.WaitSeconds)
	assert.Equal(t, 240, first.HandleSeconds)
	assert.Equal(t, "Carla", first.Operator)

	second := res.Records[1]
	assert.Equal(t, "Comercial", second.Queue)
	assert.Equal(t, types.OutcomeAbandoned, second.Outcome)

	d := res.Diagnostics
	assert.Equal(t, 3, d.TotalRows)
	assert.Equal(t, 1, d.SkipReasons["unparseable_date"])
	assert.Equal(t, 1, d.UnparsedDates)
}

func TestChatCSVParserCommaDelimited(t *testing.T) {
	text := "id,queue,date,status\n\"a\",Sales,2024-03-05T10:00:00Z,answered\n"

	res, err := ChatCSVParser{}.Parse(Input{Text: text})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "a", res.Records[0].ID)
	assert.Equal(t, "Sales", res.Records[0].Queue)
	assert.Equal(t, 10, res.Records[0].StartedAt.Hour())
}

func TestChatCSVParserStructural(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "  \n", ErrEmptyInput},
		{"no date column", "id;queue;status\n1;A;ok\n", ErrMissingColumn},
		{"header only", "id;queue;data\n", ErrNoDataRows},
		{"all dates bad", "id;data\n1;never\n", ErrNoValidRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChatCSVParser{}.Parse(Input{Text: tt.text})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTicketSummaryParser(t *testing.T) {
	table := Table{
		{"Resumo de tickets - Março 2024"},
		{"Departamento", "Tickets", "Primeira resposta", "Espera", "Atendimento", "Resolução"},
		{"Suporte", 10.0, "00:05:00", "00:01:00", "00:10:00", "02:00:00"},
		{"Financeiro", "0", "00:03:00", "00:05:00", "00:08:00", "01:00:00"},
		{"", 3.0},
		{"Total", 13.0},
		{"Comercial", "n/a"},
	}

	res, err := TicketSummaryParser{}.Parse(Input{Table: table})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.Len(t, res.Summaries, 2)

	assert.Equal(t, types.QueueSummary{
		Queue:                "Suporte",
		Tickets:              10,
		FirstResponseSeconds: 300,
		WaitSeconds:          60,
		HandleSeconds:        600,
		ResolutionSeconds:    7200,
	}, res.Summaries[0])
	assert.Equal(t, 0, res.Summaries[1].Tickets)

	d := res.Diagnostics
	assert.Equal(t, 1, d.HeaderRow)
	assert.Equal(t, 3, d.Skipped)
	assert.Equal(t, 1, d.SkipReasons["missing_queue"])
	assert.Equal(t, 1, d.SkipReasons["total_row"])
	assert.Equal(t, 1, d.SkipReasons["invalid_count"])
}

func TestParserFor(t *testing.T) {
	for _, src := range []types.Source{types.SourcePhoneFixed, types.SourcePhoneWide, types.SourceChatCSV, types.SourceTicketSummary} {
		p, err := ParserFor(src)
		require.NoError(t, err)
		assert.Equal(t, src, p.Source())
	}

	_, err := ParserFor("fax")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
