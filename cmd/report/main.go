// Command report parses one report export and prints its dashboard as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/aggregator"
	"github.com/dennisdiepolder/monti/analytics/internal/cache"
	"github.com/dennisdiepolder/monti/analytics/internal/ingestion"
	"github.com/dennisdiepolder/monti/analytics/internal/storage"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	path := fs.String("file", "", "report file (.xlsx, .xlsm, .csv); empty uses the sample dataset")
	source := fs.String("source", string(types.SourcePhoneFixed), "phone_fixed, phone_wide, chat_csv, ticket_summary or sample")
	tz := fs.String("tz", "UTC", "timezone of the report's wall clock")
	start := fs.String("start", "", "window start YYYY-MM-DD")
	end := fs.String("end", "", "window end YYYY-MM-DD")
	sl := fs.Int("sl", aggregator.DefaultServiceLevelThreshold, "service level threshold in seconds")
	diagnostics := fs.Bool("diagnostics", false, "print parse diagnostics instead of the dashboard")
	verbose := fs.Bool("v", false, "log to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	window, err := aggregator.ParseWindow(*start, *end)
	if err != nil {
		return err
	}
	if *source != string(types.SourceSample) {
		if _, err := ingestion.ParserFor(types.Source(*source)); err != nil {
			return err
		}
	}

	loader := ingestion.NewLoader(ingestion.LoaderConfig{
		Path:     *path,
		Source:   types.Source(*source),
		Location: loc,
	}, cache.NewDatasetCache(), storage.NewNoopStore(), logger)

	ds, err := loader.Load(context.Background())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if *diagnostics {
		return enc.Encode(ds.Info())
	}

	opts := aggregator.DefaultOptions()
	opts.ServiceLevelThreshold = *sl
	return enc.Encode(aggregator.Build(ds, window, opts))
}
