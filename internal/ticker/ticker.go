package ticker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
)

// Reloader loads a fresh dataset
type Reloader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Ticker periodically reloads the configured report so edits to the file
// on disk show up without a restart
type Ticker struct {
	reloader Reloader
	interval time.Duration
	logger   zerolog.Logger
}

// NewTicker creates a new Ticker
func NewTicker(reloader Reloader, interval time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		reloader: reloader,
		interval: interval,
		logger:   logger.With().Str("component", "ticker").Logger(),
	}
}

// Start reloads on every tick until ctx is done. A non-positive interval
// disables reloading.
func (t *Ticker) Start(ctx context.Context) {
	if t.interval <= 0 {
		t.logger.Info().Msg("periodic reload disabled")
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("ticker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case <-ticker.C:
			ds, err := t.reloader.Load(ctx)
			if err != nil {
				t.logger.Error().Err(err).Msg("periodic reload failed")
				continue
			}

			t.logger.Debug().
				Str("dataset_id", ds.ID()).
				Int("records", len(ds.Records())).
				Msg("dataset reloaded")
		}
	}
}
