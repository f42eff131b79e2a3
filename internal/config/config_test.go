package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads the YAML file", func(t *testing.T) {
		// Given: a config file overriding a few keys
		path := filepath.Join(t.TempDir(), "config.yml")
		data := "log-level: debug\nhttp-port: \"8081\"\nkeep-marks-on-reset: true\nredis:\n  enabled: true\n  host: cache\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: file values win and the rest falls back to defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.True(t, conf.KeepMarksOnReset)
		assert.False(t, conf.IgnoreForwardedFor)
		assert.Equal(t, "game.log", conf.EventLogPath)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "tictactoe:events", conf.Redis.Key)
	})

	t.Run("Falls back to environment when the file is missing", func(t *testing.T) {
		// Given: no config file and a port in the environment
		t.Setenv("HTTP_PORT", "9999")

		// When: loading a missing path
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: the environment and defaults are used
		require.NoError(t, err)
		assert.Equal(t, "9999", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "0.0.0.0:9999", conf.GetHTTPAddr())
	})

	t.Run("Fails on a malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: [unterminated"), 0o600))

		_, err := Load(path)

		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	for _, port := range []string{"0", "65536", "http", ""} {
		conf := &Config{HTTPPort: port}
		assert.ErrorIs(t, conf.Validate(), ErrInvalidPort, "port %q", port)
	}

	conf := &Config{HTTPPort: "5000"}
	assert.NoError(t, conf.Validate())
}
