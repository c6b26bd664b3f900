package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/student-analytics/internal/guard"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.com", cfg.GitLab.BaseURL)
	assert.Equal(t, guard.DefaultTimeout, cfg.IdleTimeout)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Zero(t, cfg.GitLab.RateLimit)
	assert.Contains(t, cfg.DBPath, "analytics.db")
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"STUDENT_ANALYTICS_DB":  "/tmp/a.db",
		"GITLAB_URL":            "https://git.uni.edu",
		"GITLAB_TOKEN":          " glpat-x ",
		"GITLAB_RATE_LIMIT":     "2.5",
		"PREDICT_FUNCTIONS_URL": "https://p.supabase.co/functions/v1",
		"PREDICT_API_KEY":       "anon",
		"SESSION_IDLE_TIMEOUT":  "90s",
		"LOG_LEVEL":             "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/a.db", cfg.DBPath)
	assert.Equal(t, "https://git.uni.edu", cfg.GitLab.BaseURL)
	assert.Equal(t, "glpat-x", cfg.GitLab.Token)
	assert.Equal(t, 2.5, cfg.GitLab.RateLimit)
	assert.Equal(t, "https://p.supabase.co/functions/v1", cfg.Prediction.FunctionsURL)
	assert.Equal(t, "anon", cfg.Prediction.APIKey)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad timeout":      {"SESSION_IDLE_TIMEOUT": "soon"},
		"negative timeout": {"SESSION_IDLE_TIMEOUT": "-1m"},
		"bad rate":         {"GITLAB_RATE_LIMIT": "fast"},
		"bad level":        {"LOG_LEVEL": "loud"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}
