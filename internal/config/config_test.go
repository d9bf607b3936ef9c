package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, time.Hour, cfg.ExpirySweepInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.ExpiryWarningWindow)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "15m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.MinIOUseSSL)
	assert.Equal(t, 15*time.Minute, cfg.ExpirySweepInterval)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MINIO_USE_SSL", "definitely")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "soon")

	cfg := Load()

	assert.False(t, cfg.MinIOUseSSL)
	assert.Equal(t, time.Hour, cfg.ExpirySweepInterval)
}
