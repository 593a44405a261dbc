package app_test

import (
	"os"
	"testing"
	"time"

	"go-payroll/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "BULK_RUN_CONCURRENCY", "OUTBOX_POLL_INTERVAL", "RUN_LOCK_TTL")

	cfg, err := app.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 4, cfg.BulkRunConcurrency)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 30*time.Second, cfg.RunLockTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BULK_RUN_CONCURRENCY", "8")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")

	cfg, err := app.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.BulkRunConcurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("BULK_RUN_CONCURRENCY", "0")
	_, err := app.LoadConfig()
	assert.Error(t, err)

	t.Setenv("BULK_RUN_CONCURRENCY", "many")
	_, err = app.LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Require(t *testing.T) {
	cfg := &app.Config{}
	assert.Error(t, cfg.RequireAPI())
	assert.Error(t, cfg.RequireKafka())

	cfg.JWTSecret = "secret"
	cfg.KafkaBroker = "localhost:9092"
	assert.NoError(t, cfg.RequireAPI())
	assert.NoError(t, cfg.RequireKafka())
}
