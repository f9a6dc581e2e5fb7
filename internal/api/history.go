package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/storage"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// HistoryHandler serves the archived per-day queue stats
type HistoryHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(store storage.Store, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: logger.With().Str("component", "history_handler").Logger(),
	}
}

// GetHistory returns the archived queue stats of one day
// GET /api/history?date=YYYY-MM-DD[&queue=name]
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)")
		return
	}
	if _, err := time.Parse(types.DateLayout, date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	queue := r.URL.Query().Get("queue")

	stats, err := h.store.GetDailyQueueStats(r.Context(), date, queue)
	if err != nil {
		h.logger.Error().Err(err).
			Str("date", date).
			Str("queue", queue).
			Msg("failed to get daily queue stats")
		writeError(w, http.StatusInternalServerError, "failed to retrieve history")
		return
	}

	if stats == nil {
		stats = []types.DailyQueueStats{}
	}

	writeJSON(w, http.StatusOK, stats)
}
