package cache

import (
	"sync/atomic"
	"time"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
)

// Status is the load state of the dataset cache
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// State is one immutable snapshot of the cache. Dataset stays set while a
// reload is running or after a reload failed, so readers keep the last
// good data.
type State struct {
	Status  Status
	Dataset *dataset.Dataset
	Err     error
	Since   time.Time
}

// DatasetCache holds the current dataset behind a single atomic pointer.
// Every transition swaps in a new State; readers never lock.
type DatasetCache struct {
	state atomic.Pointer[State]
}

// NewDatasetCache creates a cache in the idle state
func NewDatasetCache() *DatasetCache {
	c := &DatasetCache{}
	c.state.Store(&State{Status: StatusIdle, Since: time.Now().UTC()})
	return c
}

// State returns the current snapshot
func (c *DatasetCache) State() *State {
	return c.state.Load()
}

// Dataset returns the dataset readers should aggregate over, nil before the
// first successful load
func (c *DatasetCache) Dataset() *dataset.Dataset {
	return c.state.Load().Dataset
}

// BeginLoad marks a reload as running
func (c *DatasetCache) BeginLoad() {
	prev := c.state.Load()
	c.state.Store(&State{Status: StatusLoading, Dataset: prev.Dataset, Since: time.Now().UTC()})
}

// Complete swaps in a freshly loaded dataset
func (c *DatasetCache) Complete(ds *dataset.Dataset) {
	c.state.Store(&State{Status: StatusLoaded, Dataset: ds, Since: time.Now().UTC()})
}

// Substitute swaps in a replacement dataset after a failed load while
// keeping the failure visible
func (c *DatasetCache) Substitute(ds *dataset.Dataset, err error) {
	c.state.Store(&State{Status: StatusLoaded, Dataset: ds, Err: err, Since: time.Now().UTC()})
}

// Fail records a failed load. The previous dataset, if any, stays served.
func (c *DatasetCache) Fail(err error) {
	prev := c.state.Load()
	c.state.Store(&State{Status: StatusFailed, Dataset: prev.Dataset, Err: err, Since: time.Now().UTC()})
}
