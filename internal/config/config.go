// Package config reads the engine's environment configuration. Backends are
// optional: a missing DATABASE_URL or EXCEL_FILE degrades to the synthetic
// dataset source rather than failing startup.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"nomengine/internal/errors"
)

// Config is the complete application configuration
type Config struct {
	Database DatabaseConfig
	Excel    ExcelConfig
	Run      RunDefaults
}

// DatabaseConfig holds Postgres settings. Empty URL disables the postgres
// adapters entirely.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// Enabled reports whether a database backend is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ExcelConfig points at the workbook ingestion path, when configured
type ExcelConfig struct {
	FilePath      string
	NameColumn    string
	OutcomeColumn string
}

// Enabled reports whether a workbook backend is configured
func (c ExcelConfig) Enabled() bool {
	return c.FilePath != ""
}

// RunDefaults carries the batch knobs that are environment-tunable
type RunDefaults struct {
	Seed    int64
	Workers int
}

// Load reads configuration from environment variables. Invalid numeric
// values are configuration errors, not silent defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Excel: ExcelConfig{
			FilePath:      os.Getenv("EXCEL_FILE"),
			NameColumn:    getEnvOrDefault("EXCEL_NAME_COLUMN", "name"),
			OutcomeColumn: getEnvOrDefault("EXCEL_OUTCOME_COLUMN", "outcome"),
		},
		Run: RunDefaults{
			Seed:    42,
			Workers: runtime.GOMAXPROCS(0),
		},
	}

	if raw := strings.TrimSpace(os.Getenv("RUN_SEED")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("RUN_SEED must be an integer, got " + raw)
		}
		cfg.Run.Seed = seed
	}
	if raw := strings.TrimSpace(os.Getenv("RUN_WORKERS")); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil || workers <= 0 {
			return nil, errors.ConfigInvalid("RUN_WORKERS must be a positive integer, got " + raw)
		}
		cfg.Run.Workers = workers
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
