package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NANOCELL_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 100, cfg.DefaultShots)
	assert.Equal(t, 1000, cfg.MaxDeliverySteps)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NANOCELL_DATA_DIR", t.TempDir())
	t.Setenv("NANOCELL_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("NANOCELL_DEFAULT_SHOTS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 500, cfg.DefaultShots)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("NANOCELL_DATA_DIR", t.TempDir())
	t.Setenv("NANOCELL_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = -1 }, true},
		{"zero shots", func(c *Config) { c.DefaultShots = 0 }, true},
		{"zero steps", func(c *Config) { c.MaxDeliverySteps = 0 }, true},
		{"negative retention", func(c *Config) { c.RetentionDays = -1 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Port:             8001,
				DefaultShots:     100,
				MaxDeliverySteps: 1000,
				RetentionDays:    30,
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
