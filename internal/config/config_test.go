package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "persons.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "@every 5m", cfg.Maintenance.CheckpointSchedule)
}

func TestNewEnvOverridesDefaults(t *testing.T) {
	t.Setenv("PERSONS_SERVER.PORT", "8080")
	t.Setenv("PERSONS_DATABASE.PATH", "/tmp/other.db")
	t.Setenv("PERSONS_PRIMARY.ENV", "production")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "production", cfg.Primary.Env)

	// Untouched keys keep their defaults.
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
}

func TestNewTagsObservability(t *testing.T) {
	t.Setenv("PERSONS_PRIMARY.ENV", "staging")

	cfg, err := New()
	require.NoError(t, err)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "persons-crud", cfg.Observability.ServiceName)
	assert.Equal(t, "staging", cfg.Observability.Environment)
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "chatty"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestIsProduction(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
