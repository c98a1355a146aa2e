package config

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(discard())
	require.NoError(t, err)

	assert.Equal(t, "https://shmr-finance.ru/api/v1/", cfg.API.BaseURL)
	assert.Equal(t, "fintrack.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.DB.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FINTRACK_API_BASE_URL", "http://localhost:8080/api/v1/")
	t.Setenv("FINTRACK_API_TOKEN", "secret")
	t.Setenv("FINTRACK_API_TIMEOUT", "3s")
	t.Setenv("FINTRACK_DB_PATH", "/tmp/test.db")
	t.Setenv("FINTRACK_LOG_LEVEL", "debug")

	cfg, err := Load(discard())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1/", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "3s", cfg.API.Timeout.String())
	assert.Equal(t, "/tmp/test.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}
