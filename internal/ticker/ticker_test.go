package ticker

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Load(_ context.Context) (*dataset.Dataset, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return dataset.New(dataset.Options{Source: types.SourceSample}, nil, nil, types.Diagnostics{}), nil
}

func TestNewTicker(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	reloader := &countingReloader{}
	ticker := NewTicker(reloader, 1*time.Second, logger)

	if ticker == nil {
		t.Fatal("expected ticker to be created")
	}

	if ticker.reloader != reloader {
		t.Error("ticker reloader not set correctly")
	}

	if ticker.interval != 1*time.Second {
		t.Errorf("expected interval 1s, got %v", ticker.interval)
	}
}

func TestTickerReloads(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	reloader := &countingReloader{}

	// Create ticker with short interval
	ticker := NewTicker(reloader, 50*time.Millisecond, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 230*time.Millisecond)
	defer cancel()

	done := make(chan bool)
	go func() {
		ticker.Start(ctx)
		done <- true
	}()

	<-done

	if got := reloader.calls.Load(); got < 2 {
		t.Errorf("expected at least 2 reloads, got %d", got)
	}
}

func TestTickerKeepsRunningAfterFailure(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	reloader := &countingReloader{err: errors.New("file is empty")}

	ticker := NewTicker(reloader, 30*time.Millisecond, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan bool)
	go func() {
		ticker.Start(ctx)
		done <- true
	}()

	<-done

	if got := reloader.calls.Load(); got < 2 {
		t.Errorf("expected reloads to continue after a failure, got %d", got)
	}
}

func TestTickerDisabled(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	reloader := &countingReloader{}

	done := make(chan bool)
	go func() {
		NewTicker(reloader, 0, logger).Start(context.Background())
		done <- true
	}()

	select {
	case <-done:
		// Returned immediately
	case <-time.After(1 * time.Second):
		t.Fatal("disabled ticker did not return")
	}

	if reloader.calls.Load() != 0 {
		t.Error("disabled ticker should not reload")
	}
}

func TestTickerStopsOnContextCancel(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	ticker := NewTicker(&countingReloader{}, 100*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool)
	go func() {
		ticker.Start(ctx)
		done <- true
	}()

	// Let it run for a bit
	time.Sleep(200 * time.Millisecond)

	// Cancel context
	cancel()

	// Wait for ticker to stop
	select {
	case <-done:
		// Success - ticker stopped
	case <-time.After(1 * time.Second):
		t.Error("ticker did not stop within timeout after context cancel")
	}
}
