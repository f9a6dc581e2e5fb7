package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/ingestion"
	"github.com/dennisdiepolder/monti/analytics/internal/storage"
)

// Reloader runs one load cycle of the configured report
type Reloader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// AdminHandler handles reloads and archive maintenance. Routes must sit
// behind auth.RequireRole(auth.RoleAdmin).
type AdminHandler struct {
	loader Reloader
	store  storage.Store
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(loader Reloader, store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Reload re-reads the configured report and swaps it in
// POST /api/admin/reload
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ds, err := h.loader.Load(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("reload via admin failed")
		status := http.StatusInternalServerError
		if ingestion.IsStructural(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	info := ds.Info()
	h.logger.Info().
		Str("dataset_id", info.ID).
		Int("records", info.Records).
		Bool("fallback", info.Fallback).
		Msg("dataset reloaded via admin")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "dataset reloaded",
		"dataset": info,
	})
}

// TruncateHistory deletes every archived daily stat
// DELETE /api/admin/history
func (h *AdminHandler) TruncateHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TruncateAll(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate history")
		writeError(w, http.StatusInternalServerError, "failed to truncate: "+err.Error())
		return
	}

	h.logger.Info().Msg("history truncated")

	writeJSON(w, http.StatusOK, map[string]string{"message": "history truncated"})
}
