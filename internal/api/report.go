package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/aggregator"
	"github.com/dennisdiepolder/monti/analytics/internal/alerts"
	"github.com/dennisdiepolder/monti/analytics/internal/cache"
	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// DatasetStatus is the payload of GET /api/dataset
type DatasetStatus struct {
	Status  cache.Status  `json:"status"`
	Since   string        `json:"since"`
	Error   string        `json:"error,omitempty"`
	Dataset *dataset.Info `json:"dataset,omitempty"`
}

// ReportHandler serves the aggregated views of the cached dataset
type ReportHandler struct {
	cache  *cache.DatasetCache
	opts   aggregator.Options
	logger zerolog.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(c *cache.DatasetCache, opts aggregator.Options, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		cache:  c,
		opts:   opts,
		logger: logger.With().Str("component", "report_handler").Logger(),
	}
}

// GetDataset returns the load state and the diagnostics of the current dataset
// GET /api/dataset
func (h *ReportHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	state := h.cache.State()

	resp := DatasetStatus{
		Status: state.Status,
		Since:  state.Since.Format("2006-01-02T15:04:05Z07:00"),
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}
	if state.Dataset != nil {
		info := state.Dataset.Info()
		resp.Dataset = &info
	}

	writeJSON(w, http.StatusOK, resp)
}

// view resolves the request window against the cached dataset. It writes
// the error response itself and returns false when nothing can be served.
func (h *ReportHandler) view(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, types.Window, bool) {
	q := r.URL.Query()
	window, err := aggregator.ParseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, window, false
	}

	state := h.cache.State()
	if state.Dataset == nil {
		msg := "no dataset loaded"
		if state.Err != nil {
			msg = state.Err.Error()
		}
		h.logger.Debug().Str("status", string(state.Status)).Msg("no dataset to serve")
		writeError(w, http.StatusServiceUnavailable, msg)
		return nil, window, false
	}

	w.Header().Set("X-Dataset-Id", state.Dataset.ID())
	return state.Dataset, window, true
}

// records is view plus the window filter, for handlers that need one view
func (h *ReportHandler) records(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, []types.Record, bool) {
	ds, window, ok := h.view(w, r)
	if !ok {
		return nil, nil, false
	}
	return ds, aggregator.WindowRecords(ds, window), true
}

// GetDashboard returns every view at once
// GET /api/dashboard?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if ds, window, ok := h.view(w, r); ok {
		writeJSON(w, http.StatusOK, aggregator.Build(ds, window, h.opts))
	}
}

// GetKPIs handles GET /api/kpis
func (h *ReportHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	ds, records, ok := h.records(w, r)
	if !ok {
		return
	}
	kpis, tickets := aggregator.BuildKPIs(ds, records, h.opts)
	writeJSON(w, http.StatusOK, struct {
		KPIs    types.KpiSummary  `json:"kpis"`
		Tickets *types.TicketKpis `json:"tickets,omitempty"`
	}{kpis, tickets})
}

// GetOperators handles GET /api/operators
func (h *ReportHandler) GetOperators(w http.ResponseWriter, r *http.Request) {
	if _, records, ok := h.records(w, r); ok {
		writeJSON(w, http.StatusOK, aggregator.ComputeOperatorRollups(records))
	}
}

// GetQueues returns queue rollups together with their alerts
// GET /api/queues
func (h *ReportHandler) GetQueues(w http.ResponseWriter, r *http.Request) {
	ds, records, ok := h.records(w, r)
	if !ok {
		return
	}
	queues := aggregator.BuildQueues(ds, records)
	writeJSON(w, http.StatusOK, struct {
		Queues []types.QueueRollup `json:"queues"`
		Alerts []types.QueueAlert  `json:"alerts"`
	}{queues, alerts.CheckQueueAlerts(queues, h.opts.Alerts)})
}

// GetDailySeries handles GET /api/series/daily
func (h *ReportHandler) GetDailySeries(w http.ResponseWriter, r *http.Request) {
	if _, records, ok := h.records(w, r); ok {
		writeJSON(w, http.StatusOK, aggregator.ComputeDailySeries(records))
	}
}

// GetHourlySeries handles GET /api/series/hourly
func (h *ReportHandler) GetHourlySeries(w http.ResponseWriter, r *http.Request) {
	if _, records, ok := h.records(w, r); ok {
		writeJSON(w, http.StatusOK, aggregator.ComputeHourlySeries(records))
	}
}

// GetHeatmap handles GET /api/heatmap
func (h *ReportHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	if _, records, ok := h.records(w, r); ok {
		writeJSON(w, http.StatusOK, aggregator.ComputeHeatmap(records))
	}
}
