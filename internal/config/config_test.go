package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_NAME", "HTTP_PORT", "TOKEN_EXPIRY", "WORKER_QUEUE_SIZE", "ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "investimento", cfg.DBName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 100, cfg.WorkerQueueSize)
	assert.Equal(t, "password123", cfg.AdminPassword)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TOKEN_EXPIRY", "30m")
	t.Setenv("WORKER_QUEUE_SIZE", "250")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 250, cfg.WorkerQueueSize)
}

func TestLoadConfigInvalidQueueSize(t *testing.T) {
	t.Setenv("WORKER_QUEUE_SIZE", "-5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.WorkerQueueSize)
}
