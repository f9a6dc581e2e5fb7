package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dennisdiepolder/monti/analytics/internal/aggregator"
	"github.com/dennisdiepolder/monti/analytics/internal/api"
	"github.com/dennisdiepolder/monti/analytics/internal/auth"
	"github.com/dennisdiepolder/monti/analytics/internal/cache"
	"github.com/dennisdiepolder/monti/analytics/internal/config"
	"github.com/dennisdiepolder/monti/analytics/internal/ingestion"
	"github.com/dennisdiepolder/monti/analytics/internal/metrics"
	"github.com/dennisdiepolder/monti/analytics/internal/storage"
	"github.com/dennisdiepolder/monti/analytics/internal/ticker"
	"github.com/dennisdiepolder/monti/analytics/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Str("dataset_path", cfg.DatasetPath).
		Str("dataset_source", string(cfg.DatasetSource)).
		Str("timezone", cfg.Location.String()).
		Msg("starting MONTI analytics server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Archive for per-day queue stats
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store")
	}

	datasetCache := cache.NewDatasetCache()
	loader := ingestion.NewLoader(ingestion.LoaderConfig{
		Path:             cfg.DatasetPath,
		Source:           cfg.DatasetSource,
		Name:             cfg.DatasetName,
		Location:         cfg.Location,
		FallbackToSample: cfg.FallbackToSample,
	}, datasetCache, store, log.Logger)

	// A failed first load leaves the server up; /api/dataset reports why.
	if _, err := loader.Load(ctx); err != nil {
		log.Error().Err(err).Msg("initial dataset load failed")
	}

	reloadTicker := ticker.NewTicker(loader, cfg.ReloadInterval, log.Logger)
	go reloadTicker.Start(ctx)

	authenticator := auth.New(auth.Config{
		SkipAuth:        cfg.SkipAuth,
		OIDCIssuer:      cfg.OIDCIssuer,
		VerifySignature: cfg.VerifyJWTSignature,
	}, log.Logger)
	if cfg.SkipAuth {
		log.Warn().Msg("SKIP_AUTH enabled, every request runs as admin")
	}

	r := newRouter(cfg, routerDeps{
		auth:    authenticator,
		report:  api.NewReportHandler(datasetCache, aggregator.Options{ServiceLevelThreshold: cfg.SLThresholdSeconds, Alerts: cfg.Alerts}, log.Logger),
		history: api.NewHistoryHandler(store, log.Logger),
		admin:   api.NewAdminHandler(loader, store, log.Logger),
	}, log.Logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the reload ticker
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

type routerDeps struct {
	auth    *auth.Authenticator
	report  *api.ReportHandler
	history *api.HistoryHandler
	admin   *api.AdminHandler
}

func newRouter(cfg *config.Config, deps routerDeps, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Get().Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.auth.Middleware)

		r.Get("/dataset", deps.report.GetDataset)
		r.Get("/dashboard", deps.report.GetDashboard)
		r.Get("/kpis", deps.report.GetKPIs)
		r.Get("/operators", deps.report.GetOperators)
		r.Get("/queues", deps.report.GetQueues)
		r.Get("/series/daily", deps.report.GetDailySeries)
		r.Get("/series/hourly", deps.report.GetHourlySeries)
		r.Get("/heatmap", deps.report.GetHeatmap)
		r.Get("/history", deps.history.GetHistory)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Post("/reload", deps.admin.Reload)
			r.Delete("/history", deps.admin.TruncateHistory)
		})
	})

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"monti-analytics"}`)
}
