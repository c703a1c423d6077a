package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dhzdhd/curlr/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.RequireValidURI)
	assert.False(t, cfg.RequireJSONBody)

	policy, err := cfg.MethodPolicy()
	require.NoError(t, err)
	assert.Equal(t, core.MethodAuto, policy)

	slots, err := cfg.PayloadSlots()
	require.NoError(t, err)
	assert.Equal(t, []core.Slot{core.SlotHeaders, core.SlotBody}, slots)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		cfg, err := loadConfig(env.Options{
			Prefix: EnvPrefix,
			Environment: map[string]string{
				"CURLR_METHOD":            "put",
				"CURLR_TABS":              "body,headers",
				"CURLR_TIMEOUT":           "5s",
				"CURLR_REQUIRE_JSON_BODY": "true",
				"CURLR_LOG_LEVEL":         "debug",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "put", cfg.Method)
		assert.Equal(t, []string{"body", "headers"}, cfg.Tabs)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.True(t, cfg.RequireJSONBody)
		assert.True(t, cfg.RequireValidURI)

		level, err := cfg.Level()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)
	})

	t.Run("keeps defaults when unset", func(t *testing.T) {
		cfg, err := loadConfig(env.Options{Prefix: EnvPrefix, Environment: map[string]string{}})
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		_, err := loadConfig(env.Options{
			Prefix:      EnvPrefix,
			Environment: map[string]string{"CURLR_TIMEOUT": "soon"},
		})
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"fixed method", func(c *Config) { c.Method = "patch" }, true},
		{"empty method", func(c *Config) { c.Method = "" }, false},
		{"bad method", func(c *Config) { c.Method = "GE T" }, false},
		{"single tab", func(c *Config) { c.Tabs = []string{"body"} }, true},
		{"no tabs", func(c *Config) { c.Tabs = nil }, false},
		{"duplicate tabs", func(c *Config) { c.Tabs = []string{"body", "body"} }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("discards without a file", func(t *testing.T) {
		logger, closer, err := NewLogger(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.NoError(t, closer.Close())
	})

	t.Run("writes to file at level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LogFile = filepath.Join(t.TempDir(), "curlr.log")
		cfg.LogLevel = "warn"

		logger, closer, err := NewLogger(cfg)
		require.NoError(t, err)
		logger.Info("hidden")
		logger.Warn("shown", "k", "v")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hidden")
		assert.Contains(t, string(data), "msg=shown k=v")
	})

	t.Run("fails on unwritable path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LogFile = filepath.Join(t.TempDir(), "missing", "curlr.log")
		_, _, err := NewLogger(cfg)
		assert.Error(t, err)
	})
}
