package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Not parallel: Load reads the process environment.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "lexsnap.db", cfg.Database.Path)
	assert.Zero(t, cfg.SRS.LapseRetryMinutes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEXSNAP_SERVER_PORT", "9000")
	t.Setenv("LEXSNAP_SERVER_LOG_LEVEL", "debug")
	t.Setenv("LEXSNAP_DATABASE_PATH", ":memory:")
	t.Setenv("LEXSNAP_SRS_SECOND_INTERVAL_DAYS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 4, cfg.SRS.SecondIntervalDays)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("LEXSNAP_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LEXSNAP_SERVER_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
}
