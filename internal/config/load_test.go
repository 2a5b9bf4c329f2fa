package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Load reads the real environment, so these tests must not run in
// parallel with each other.

const testSecret = "a-test-jwt-secret-with-enough-length!!"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKER_DATABASE_URL", "postgres://localhost:5432/tasker_test")
	t.Setenv("TASKER_AUTH_JWT_SECRET", testSecret)
}

func TestLoad(t *testing.T) {
	t.Run("defaults fill optional settings", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, 15, cfg.Auth.AccessTokenLifetimeMinutes)
		assert.Equal(t, 7*24*60, cfg.Auth.RefreshTokenLifetimeMinutes)
		assert.Equal(t, 12, cfg.Auth.BcryptCost)
		assert.Equal(t, "http://localhost:8000", cfg.AI.BaseURL)
		assert.Equal(t, 10, cfg.AI.TimeoutSeconds)
		assert.Equal(t, 60, cfg.Scheduler.IntervalSeconds)
		assert.Equal(t, 15, cfg.Scheduler.LookaheadMinutes)
		assert.False(t, cfg.SMTP.Enabled())
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKER_SERVER_PORT", "9090")
		t.Setenv("TASKER_SERVER_LOG_LEVEL", "debug")
		t.Setenv("TASKER_SCHEDULER_INTERVAL_SECONDS", "30")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, 30, cfg.Scheduler.IntervalSeconds)
	})

	t.Run("missing database URL fails validation", func(t *testing.T) {
		t.Setenv("TASKER_AUTH_JWT_SECRET", testSecret)

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("short jwt secret fails validation", func(t *testing.T) {
		t.Setenv("TASKER_DATABASE_URL", "postgres://localhost:5432/tasker_test")
		t.Setenv("TASKER_AUTH_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKER_SERVER_LOG_LEVEL", "loud")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("smtp enabled when host and sender are set", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKER_SMTP_HOST", "smtp.example.com")
		t.Setenv("TASKER_SMTP_FROM", "noreply@example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.SMTP.Enabled())
		assert.Equal(t, 587, cfg.SMTP.Port)
	})
}
