package jpathcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.DefaultLimit)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigMissingFileIsSkippedNotAnError(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_limit": 50, "log_level": "debug"}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_limit": 50, "log_level": "debug"}`), 0o600))

	t.Setenv(EnvDefaultLimit, "7")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DefaultLimit)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestApplyConfigSetsLoggerLevel(t *testing.T) {
	defer SetLogger(nil)
	ApplyConfig(Config{DefaultLimit: -1, LogLevel: "debug"})
	assert.Equal(t, logrus.DebugLevel, log().GetLevel())
}

func TestApplyConfigIgnoresInvalidLevel(t *testing.T) {
	defer SetLogger(nil)
	ApplyConfig(Config{DefaultLimit: -1, LogLevel: "warn"})
	before := log().GetLevel()
	ApplyConfig(Config{DefaultLimit: -1, LogLevel: "not-a-level"})
	assert.Equal(t, before, log().GetLevel())
}
