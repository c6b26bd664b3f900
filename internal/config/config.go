// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rcliao/student-analytics/internal/guard"
)

// Config holds all runtime settings.
type Config struct {
	DBPath      string
	LogLevel    slog.Level
	IdleTimeout time.Duration
	GitLab      GitLabConfig
	Prediction  PredictionConfig
}

// GitLabConfig configures the hosting-API gateway.
type GitLabConfig struct {
	BaseURL   string
	Token     string
	RateLimit float64 // requests per second, 0 disables
}

// PredictionConfig configures the prediction gateway.
type PredictionConfig struct {
	FunctionsURL string
	APIKey       string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		DBPath:      get("STUDENT_ANALYTICS_DB"),
		IdleTimeout: guard.DefaultTimeout,
		GitLab: GitLabConfig{
			BaseURL: firstNonEmpty(get("GITLAB_URL"), "https://gitlab.com"),
			Token:   get("GITLAB_TOKEN"),
		},
		Prediction: PredictionConfig{
			FunctionsURL: get("PREDICT_FUNCTIONS_URL"),
			APIKey:       get("PREDICT_API_KEY"),
		},
	}

	if cfg.DBPath == "" {
		home, _ := os.UserHomeDir()
		cfg.DBPath = filepath.Join(home, ".student-analytics", "analytics.db")
	}

	if raw := get("SESSION_IDLE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", d)
		}
		cfg.IdleTimeout = d
	}

	if raw := get("GITLAB_RATE_LIMIT"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("GITLAB_RATE_LIMIT: %w", err)
		}
		cfg.GitLab.RateLimit = rps
	}

	level, err := ParseLevel(get("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// ParseLevel parses a log level name. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
