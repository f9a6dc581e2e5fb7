package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/aggregator"
	"github.com/dennisdiepolder/monti/analytics/internal/cache"
	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/fixture"
	"github.com/dennisdiepolder/monti/analytics/internal/metrics"
	"github.com/dennisdiepolder/monti/analytics/internal/storage"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
	"github.com/dennisdiepolder/monti/analytics/internal/workbook"
)

// LoaderConfig says which report to load and how to read it
type LoaderConfig struct {
	Path             string // empty serves the sample dataset
	Source           types.Source
	Name             string
	Location         *time.Location
	FallbackToSample bool
}

// Loader reads the configured report, parses it and swaps the result into
// the cache. Loads are serialized; readers of the cache never wait on them.
type Loader struct {
	mu     sync.Mutex
	cfg    LoaderConfig
	cache  *cache.DatasetCache
	store  storage.Store
	logger zerolog.Logger
}

// NewLoader creates a new Loader
func NewLoader(cfg LoaderConfig, c *cache.DatasetCache, store storage.Store, logger zerolog.Logger) *Loader {
	if cfg.Name == "" && cfg.Path != "" {
		cfg.Name = filepath.Base(cfg.Path)
	}
	return &Loader{
		cfg:    cfg,
		cache:  c,
		store:  store,
		logger: logger.With().Str("component", "loader").Logger(),
	}
}

// Load runs one read, parse and swap cycle. When the report is structurally
// unreadable and fallback is enabled, the sample dataset is served instead
// and the failure stays visible in the cache state.
func (l *Loader) Load(ctx context.Context) (*dataset.Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := metrics.Get()
	l.cache.BeginLoad()
	start := time.Now()

	ds, err := l.read()
	if err != nil {
		m.RecordLoad(l.cfg.Source, "failed", time.Since(start))

		if l.cfg.FallbackToSample && IsStructural(err) {
			sample := fixture.NewDataset(fixture.DefaultSeed, fixture.DefaultDays, true)
			l.cache.Substitute(sample, err)
			m.SetDataset(len(sample.Records()), 0, true)
			l.logger.Warn().
				Err(err).
				Str("path", l.cfg.Path).
				Str("dataset_id", sample.ID()).
				Msg("report unreadable, serving sample dataset")
			return sample, nil
		}

		l.cache.Fail(err)
		l.logger.Error().Err(err).Str("path", l.cfg.Path).Msg("dataset load failed")
		return nil, err
	}

	m.RecordLoad(ds.Source(), "ok", time.Since(start))
	m.SetDataset(len(ds.Records()), len(ds.Summaries()), false)
	l.cache.Complete(ds)

	diag := ds.Diagnostics()
	l.logger.Info().
		Str("dataset_id", ds.ID()).
		Str("source", string(ds.Source())).
		Int("rows", diag.TotalRows).
		Int("parsed", diag.Parsed).
		Int("skipped", diag.Skipped).
		Int("unparsed_dates", diag.UnparsedDates).
		Dur("took", time.Since(start)).
		Msg("dataset loaded")

	l.archive(ctx, ds)
	return ds, nil
}

func (l *Loader) read() (*dataset.Dataset, error) {
	if l.cfg.Path == "" || l.cfg.Source == types.SourceSample {
		return fixture.NewDataset(fixture.DefaultSeed, fixture.DefaultDays, false), nil
	}

	parser, err := ParserFor(l.cfg.Source)
	if err != nil {
		return nil, err
	}

	in, err := ReadFile(l.cfg.Path, parser.Source())
	if err != nil {
		return nil, err
	}
	in.Location = l.cfg.Location

	res, err := parser.Parse(in)
	if err != nil {
		return nil, err
	}
	metrics.Get().RecordParse(res.Diagnostics)

	return dataset.New(dataset.Options{Source: parser.Source(), Name: l.cfg.Name}, res.Records, res.Summaries, res.Diagnostics), nil
}

// archive files the dataset's daily queue rollups. A failed write is
// logged but never fails the load.
func (l *Loader) archive(ctx context.Context, ds *dataset.Dataset) {
	stats := aggregator.ComputeDailyQueueStats(ds.Records(), ds.ID(), ds.Source())
	if len(stats) == 0 {
		return
	}

	err := l.store.SaveDailyQueueStats(ctx, stats)
	metrics.Get().RecordArchive(len(stats), err)
	if err != nil {
		l.logger.Error().Err(err).Int("rows", len(stats)).Msg("failed to archive daily queue stats")
		return
	}
	l.logger.Debug().Int("rows", len(stats)).Msg("daily queue stats archived")
}

// ReadFile reads a report from disk into a parser input. Workbooks become
// a table; delimited text is kept as text for the chat parser and split
// into a table for the others.
func ReadFile(path string, source types.Source) (Input, error) {
	in := Input{Filename: filepath.Base(path)}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := os.Open(path)
		if err != nil {
			return in, fmt.Errorf("open report: %w", err)
		}
		defer f.Close()

		sheet, err := workbook.Read(f, "")
		if err != nil {
			if errors.Is(err, workbook.ErrNoSheets) {
				return in, structural(source, ErrEmptyInput)
			}
			return in, fmt.Errorf("read workbook %s: %w", in.Filename, err)
		}
		in.Table = Table(sheet.Rows)
		return in, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read report: %w", err)
	}
	in.Text = string(data)
	if source != types.SourceChatCSV {
		in.Table = splitDelimited(in.Text)
	}
	return in, nil
}

// splitDelimited turns delimited text into a table for the spreadsheet parsers
func splitDelimited(text string) Table {
	text = strings.TrimPrefix(text, "\ufeff")
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var table Table
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		table = append(table, toCells(record))
	}
	return table
}
