// Package metrics exposes Prometheus metrics for dataset loads, parsing,
// archiving and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

const namespace = "monti"

// Metrics holds all application collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	loadsTotal        *prometheus.CounterVec
	loadDuration      *prometheus.HistogramVec
	rowsTotal         *prometheus.CounterVec
	rowsSkippedTotal  *prometheus.CounterVec
	fieldDefaults     *prometheus.CounterVec
	datasetRecords    prometheus.Gauge
	datasetSummaries  prometheus.Gauge
	datasetFallback   prometheus.Gauge
	lastLoadTimestamp prometheus.Gauge
	archivedTotal     prometheus.Counter
	archiveErrors     prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a metrics set on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	start := time.Now()

	m := &Metrics{
		Registry: reg,
		loadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by source and result",
		}, []string{"source", "result"}),
		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time taken to read and parse a report",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		rowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parser_rows_total",
			Help:      "Report rows read by source",
		}, []string{"source"}),
		rowsSkippedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parser_rows_skipped_total",
			Help:      "Report rows dropped by source and reason",
		}, []string{"source", "reason"}),
		fieldDefaults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parser_field_defaults_total",
			Help:      "Fields that could not be read and fell back to a default",
		}, []string{"source", "field"}),
		datasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the current dataset",
		}),
		datasetSummaries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_summaries",
			Help:      "Queue summary rows in the current dataset",
		}),
		datasetFallback: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_fallback",
			Help:      "1 when sample data is served in place of a failed report",
		}),
		lastLoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_last_load_timestamp_seconds",
			Help:      "Unix time of the last dataset swap",
		}),
		archivedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_rows_total",
			Help:      "Daily queue stats written to the archive",
		}),
		archiveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_errors_total",
			Help:      "Failed archive writes",
		}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"endpoint", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Seconds since the process started",
	}, func() float64 { return time.Since(start).Seconds() })

	return m
}

// RecordLoad records one load attempt
func (m *Metrics) RecordLoad(source types.Source, result string, duration time.Duration) {
	m.loadsTotal.WithLabelValues(string(source), result).Inc()
	m.loadDuration.WithLabelValues(string(source)).Observe(duration.Seconds())
}

// RecordParse records the row and field counts of one parse
func (m *Metrics) RecordParse(d types.Diagnostics) {
	src := string(d.Source)
	m.rowsTotal.WithLabelValues(src).Add(float64(d.TotalRows))
	for reason, n := range d.SkipReasons {
		m.rowsSkippedTotal.WithLabelValues(src, reason).Add(float64(n))
	}
	m.fieldDefaults.WithLabelValues(src, "date").Add(float64(d.UnparsedDates))
	m.fieldDefaults.WithLabelValues(src, "duration").Add(float64(d.UnparsedDurations))
}

// SetDataset updates the gauges describing the served dataset
func (m *Metrics) SetDataset(records, summaries int, fallback bool) {
	m.datasetRecords.Set(float64(records))
	m.datasetSummaries.Set(float64(summaries))
	if fallback {
		m.datasetFallback.Set(1)
	} else {
		m.datasetFallback.Set(0)
	}
	m.lastLoadTimestamp.SetToCurrentTime()
}

// RecordArchive records the outcome of one archive write
func (m *Metrics) RecordArchive(rows int, err error) {
	if err != nil {
		m.archiveErrors.Inc()
		return
	}
	m.archivedTotal.Add(float64(rows))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// HTTPRequests returns the request counter for one endpoint and status
func (m *Metrics) HTTPRequests(endpoint string, statusCode int) prometheus.Counter {
	return m.httpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode))
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
