package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wrapworks/estimator/internal/pricing"
)

const (
	defaultEnv    = "prod"
	defaultDBPath = "./estimator.db"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env        string
	DBPath     string
	Port       string
	Thresholds pricing.Thresholds
	SeedOrgIDs []string

	// Warnings collects problems found while loading, for the caller to log
	// once a logger exists.
	Warnings []string
}

// IsDev reports whether the server runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	cfg := Config{}

	// Production injects real env; a missing .env is fine.
	if err := loadDotEnv(".env"); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("load .env: %v", err))
	}

	cfg.Env = getenv("APP_ENV", defaultEnv)
	cfg.DBPath = getenv("DB_PATH", defaultDBPath)
	cfg.Port = getenv("PORT", defaultPort)
	cfg.SeedOrgIDs = splitList(os.Getenv("SEED_ORG_IDS"))

	defaults := pricing.DefaultThresholds()
	cfg.Thresholds = pricing.Thresholds{
		AtRisk:    cfg.percent("AT_RISK_MARGIN_PERCENT", defaults.AtRisk),
		Excellent: cfg.percent("EXCELLENT_MARGIN_PERCENT", defaults.Excellent),
	}
	if cfg.Thresholds.AtRisk >= cfg.Thresholds.Excellent {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf(
			"AT_RISK_MARGIN_PERCENT (%v) must be below EXCELLENT_MARGIN_PERCENT (%v); using defaults",
			cfg.Thresholds.AtRisk, cfg.Thresholds.Excellent))
		cfg.Thresholds = defaults
	}

	return cfg
}

// loadDotEnv loads KEY=VALUE pairs from a dotenv file without overwriting
// variables already set in the process environment.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma separated list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) percent(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 100 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is not a percent between 0 and 100; using %v", key, raw, fallback))
		return fallback
	}
	return v
}
