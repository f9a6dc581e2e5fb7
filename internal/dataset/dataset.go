// Package dataset holds one loaded, read-only collection of canonical records.
package dataset

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Dataset is an immutable snapshot of one parsed report. Getters return
// copies; a reload builds a new Dataset instead.
type Dataset struct {
	id          string
	source      types.Source
	name        string
	loadedAt    time.Time
	records     []types.Record
	summaries   []types.QueueSummary
	diagnostics types.Diagnostics
	fallback    bool
}

// Options describe where a dataset came from
type Options struct {
	Source   types.Source
	Name     string
	Fallback bool // substituted sample data after a failed load
}

// New creates a dataset with a fresh id. The slices are owned by the
// dataset from here on.
func New(opts Options, records []types.Record, summaries []types.QueueSummary, diag types.Diagnostics) *Dataset {
	return &Dataset{
		id:          uuid.NewString(),
		source:      opts.Source,
		name:        opts.Name,
		loadedAt:    time.Now().UTC(),
		records:     records,
		summaries:   summaries,
		diagnostics: diag,
		fallback:    opts.Fallback,
	}
}

func (d *Dataset) ID() string           { return d.id }
func (d *Dataset) Source() types.Source { return d.source }
func (d *Dataset) Name() string         { return d.name }
func (d *Dataset) LoadedAt() time.Time  { return d.loadedAt }
func (d *Dataset) Fallback() bool       { return d.fallback }

// Records returns a copy of the records. StartedAt pointers are shared
// with the dataset and must not be written through.
func (d *Dataset) Records() []types.Record { return slices.Clone(d.records) }

func (d *Dataset) Summaries() []types.QueueSummary { return slices.Clone(d.summaries) }

func (d *Dataset) Diagnostics() types.Diagnostics {
	diag := d.diagnostics
	diag.SkipReasons = maps.Clone(diag.SkipReasons)
	return diag
}

// IsSummary reports whether the dataset carries pre-aggregated ticket rows
// instead of individual contacts
func (d *Dataset) IsSummary() bool {
	return len(d.records) == 0 && len(d.summaries) > 0
}

// Info is the JSON description of a dataset
type Info struct {
	ID          string            `json:"id"`
	Source      types.Source      `json:"source"`
	Name        string            `json:"name"`
	LoadedAt    time.Time         `json:"loadedAt"`
	Records     int               `json:"records"`
	Summaries   int               `json:"summaries"`
	Fallback    bool              `json:"fallback"`
	Diagnostics types.Diagnostics `json:"diagnostics"`
}

// Info describes the dataset without its rows
func (d *Dataset) Info() Info {
	return Info{
		ID:          d.id,
		Source:      d.source,
		Name:        d.name,
		LoadedAt:    d.loadedAt,
		Records:     len(d.records),
		Summaries:   len(d.summaries),
		Fallback:    d.fallback,
		Diagnostics: d.Diagnostics(),
	}
}
