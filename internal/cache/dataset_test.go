package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

func newDataset(name string) *dataset.Dataset {
	return dataset.New(dataset.Options{Source: types.SourcePhoneFixed, Name: name}, []types.Record{{ID: "1", Queue: "A"}}, nil, types.Diagnostics{})
}

func TestDatasetCacheStartsIdle(t *testing.T) {
	c := NewDatasetCache()

	if got := c.State().Status; got != StatusIdle {
		t.Errorf("expected idle, got %s", got)
	}
	if c.Dataset() != nil {
		t.Error("expected no dataset before the first load")
	}
}

func TestDatasetCacheTransitions(t *testing.T) {
	c := NewDatasetCache()
	first := newDataset("first")

	c.BeginLoad()
	if c.State().Status != StatusLoading {
		t.Fatalf("expected loading, got %s", c.State().Status)
	}

	c.Complete(first)
	if c.State().Status != StatusLoaded || c.Dataset() != first {
		t.Fatal("expected first dataset to be loaded")
	}

	// Readers keep the previous dataset during a reload and after it fails.
	c.BeginLoad()
	if c.Dataset() != first {
		t.Error("dataset dropped while loading")
	}

	loadErr := errors.New("boom")
	c.Fail(loadErr)
	state := c.State()
	if state.Status != StatusFailed {
		t.Errorf("expected failed, got %s", state.Status)
	}
	if !errors.Is(state.Err, loadErr) {
		t.Errorf("expected load error, got %v", state.Err)
	}
	if state.Dataset != first {
		t.Error("dataset dropped after failure")
	}
}

func TestDatasetCacheSubstitute(t *testing.T) {
	c := NewDatasetCache()
	sample := newDataset("sample")
	loadErr := errors.New("queue column not found")

	c.Substitute(sample, loadErr)

	state := c.State()
	if state.Status != StatusLoaded {
		t.Errorf("expected loaded, got %s", state.Status)
	}
	if state.Dataset != sample {
		t.Error("expected substituted dataset")
	}
	if state.Err == nil {
		t.Error("expected load error to stay visible")
	}
}

func TestDatasetCacheConcurrentReaders(t *testing.T) {
	c := NewDatasetCache()
	c.Complete(newDataset("initial"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ds := c.Dataset(); ds == nil || len(ds.Records()) != 1 {
					t.Error("reader saw a partial dataset")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		c.BeginLoad()
		c.Complete(newDataset("reload"))
	}
	wg.Wait()
}
