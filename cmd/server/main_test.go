package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/monti/analytics/internal/aggregator"
	"github.com/dennisdiepolder/monti/analytics/internal/api"
	"github.com/dennisdiepolder/monti/analytics/internal/auth"
	"github.com/dennisdiepolder/monti/analytics/internal/cache"
	"github.com/dennisdiepolder/monti/analytics/internal/config"
	"github.com/dennisdiepolder/monti/analytics/internal/ingestion"
	"github.com/dennisdiepolder/monti/analytics/internal/storage"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	// Check status code
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	// Check content type
	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	// Parse response body
	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	// Check response fields
	if response["status"] != "ok" {
		t.Errorf("expected status ok, got %s", response["status"])
	}
	if response["service"] != "monti-analytics" {
		t.Errorf("expected service monti-analytics, got %s", response["service"])
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusOK},    // Handler doesn't check method
		{http.MethodPut, http.StatusOK},     // Handler doesn't check method
		{http.MethodDelete, http.StatusOK},  // Handler doesn't check method
		{http.MethodOptions, http.StatusOK}, // Handler doesn't check method
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			healthHandler(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func testRouter(t *testing.T, skipAuth bool) (http.Handler, *cache.DatasetCache) {
	t.Helper()
	logger := zerolog.Nop()
	c := cache.NewDatasetCache()
	store := storage.NewMemoryStore()
	loader := ingestion.NewLoader(ingestion.LoaderConfig{Source: types.SourceSample}, c, store, logger)
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}

	return newRouter(cfg, routerDeps{
		auth:    auth.New(auth.Config{SkipAuth: skipAuth}, logger),
		report:  api.NewReportHandler(c, aggregator.DefaultOptions(), logger),
		history: api.NewHistoryHandler(store, logger),
		admin:   api.NewAdminHandler(loader, store, logger),
	}, logger), c
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name       string
		skipAuth   bool
		method     string
		path       string
		wantStatus int
	}{
		{"health is public", false, http.MethodGet, "/health", http.StatusOK},
		{"metrics is public", false, http.MethodGet, "/metrics", http.StatusOK},
		{"api needs a token", false, http.MethodGet, "/api/kpis", http.StatusUnauthorized},
		{"no dataset yet", true, http.MethodGet, "/api/kpis", http.StatusServiceUnavailable},
		{"dataset state", true, http.MethodGet, "/api/dataset", http.StatusOK},
		{"admin reload", true, http.MethodPost, "/api/admin/reload", http.StatusOK},
		{"admin needs a token", false, http.MethodPost, "/api/admin/reload", http.StatusUnauthorized},
		{"unknown route", true, http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := testRouter(t, tt.skipAuth)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRouterReloadThenServe(t *testing.T) {
	router, c := testRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reload failed: %d %s", rec.Code, rec.Body.String())
	}

	ds := c.Dataset()
	if ds == nil {
		t.Fatal("expected a dataset after reload")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard?start=2024-03-04", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Dataset-Id"); got != ds.ID() {
		t.Errorf("expected dataset id %s, got %s", ds.ID(), got)
	}
}
