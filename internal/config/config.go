package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/dennisdiepolder/monti/analytics/internal/alerts"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Env            string

	// Report
	DatasetPath      string
	DatasetSource    types.Source
	DatasetName      string
	Location         *time.Location
	ReloadInterval   time.Duration
	FallbackToSample bool

	// Aggregation
	SLThresholdSeconds int
	Alerts             alerts.Thresholds

	// Auth
	SkipAuth           bool
	OIDCIssuer         string
	VerifyJWTSignature bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Env:            getEnv("ENV", "development"),
		DatasetPath:    os.Getenv("DATASET_PATH"),
		DatasetSource:  types.Source(getEnv("DATASET_SOURCE", string(types.SourcePhoneFixed))),
		DatasetName:    os.Getenv("DATASET_NAME"),
		SkipAuth:       getEnv("SKIP_AUTH", "false") == "true",
		OIDCIssuer:     os.Getenv("OIDC_ISSUER"),
	}

	switch config.DatasetSource {
	case types.SourcePhoneFixed, types.SourcePhoneWide, types.SourceChatCSV,
		types.SourceTicketSummary, types.SourceSample:
	default:
		return nil, fmt.Errorf("invalid DATASET_SOURCE: %q", config.DatasetSource)
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}
	config.Location = loc

	// Reload interval in seconds, 0 disables periodic reloads
	reload, err := strconv.Atoi(getEnv("RELOAD_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid RELOAD_INTERVAL: %w", err)
	}
	config.ReloadInterval = time.Duration(reload) * time.Second

	config.FallbackToSample, err = getEnvBool("FALLBACK_TO_SAMPLE", true)
	if err != nil {
		return nil, err
	}

	config.VerifyJWTSignature, err = getEnvBool("VERIFY_JWT_SIGNATURE", config.Env != "development")
	if err != nil {
		return nil, err
	}

	if config.SLThresholdSeconds, err = getEnvInt("SL_THRESHOLD_SECONDS", 20); err != nil {
		return nil, err
	}

	config.Alerts = alerts.DefaultThresholds
	if config.Alerts.AbandonRateWarn, err = getEnvFloat("ABANDON_RATE_WARN", config.Alerts.AbandonRateWarn); err != nil {
		return nil, err
	}
	if config.Alerts.AbandonRateCritical, err = getEnvFloat("ABANDON_RATE_CRITICAL", config.Alerts.AbandonRateCritical); err != nil {
		return nil, err
	}
	if config.Alerts.AvgWaitWarnSecs, err = getEnvInt("AVG_WAIT_WARN_SECONDS", config.Alerts.AvgWaitWarnSecs); err != nil {
		return nil, err
	}
	if config.Alerts.AvgWaitCriticalSecs, err = getEnvInt("AVG_WAIT_CRITICAL_SECONDS", config.Alerts.AvgWaitCriticalSecs); err != nil {
		return nil, err
	}

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
