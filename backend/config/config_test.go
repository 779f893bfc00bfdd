package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
	assert.Equal(t, 10*time.Minute, cfg.SessionRetention)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
	assert.False(t, cfg.LogColors)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://api.internal:9000")
	t.Setenv("UPSTREAM_TIMEOUT", "15s")
	t.Setenv("LOG_COLORS", "true")
	t.Setenv("SESSION_IDLE_TIMEOUT", "0s")

	cfg, err := LoadConfig("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.LogColors)
	assert.Equal(t, time.Duration(0), cfg.SessionIdle)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_RETENTION", "soon")

	_, err := LoadConfig("testdata/missing.env")
	assert.Error(t, err)
}
