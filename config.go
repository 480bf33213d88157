package jpathcache

import (
	"os"
	"strconv"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

// Environment variable names for JPATHCACHE_* overrides.
const (
	EnvDefaultLimit = "JPATHCACHE_DEFAULT_LIMIT"
	EnvLogLevel     = "JPATHCACHE_LOG_LEVEL"
)

// Config holds process-wide settings: a default result limit for
// callers to pass to WithLimit themselves, and the logrus level the
// package logger runs at. It is not read implicitly — a caller wires
// the log level in via ApplyConfig.
type Config struct {
	// DefaultLimit is used by callers that want a package-wide default
	// instead of passing WithLimit(-1) everywhere; Query itself always
	// takes an explicit limit and never consults this value on its own.
	DefaultLimit int `koanf:"default_limit"`
	// LogLevel is one of logrus's level names ("warn", "info", "debug", ...).
	LogLevel string `koanf:"log_level"`
}

// defaultConfig returns the built-in defaults, the lowest layer of the
// resolution pipeline.
func defaultConfig() Config {
	return Config{DefaultLimit: -1, LogLevel: "warn"}
}

// LoadConfig runs a koanf layering pipeline: built-in defaults, then an
// optional JSON config file (missing files are silently
// skipped, matching the Harvx resolver's behavior), then
// JPATHCACHE_* environment variables, highest precedence last.
func LoadConfig(configPath string) (Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"default_limit": defaults.DefaultLimit,
		"log_level":     defaults.LogLevel,
	}, "."), nil); err != nil {
		return Config{}, &Error{Code: ErrIOError, Message: "load default config", Cause: err}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), koanfjson.Parser()); err != nil {
				return Config{}, &Error{Code: ErrIOError, Message: "load config file " + configPath, Cause: err}
			}
		}
	}

	if err := k.Load(confmap.Provider(buildEnvOverrides(), "."), nil); err != nil {
		return Config{}, &Error{Code: ErrIOError, Message: "load env overrides", Cause: err}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, &Error{Code: ErrIOError, Message: "unmarshal config", Cause: err}
	}
	return cfg, nil
}

// buildEnvOverrides reads JPATHCACHE_* environment variables into a
// flat map suitable for a koanf confmap provider. Invalid values are
// silently skipped rather than failing the whole resolution.
func buildEnvOverrides() map[string]any {
	m := make(map[string]any)
	if v := os.Getenv(EnvDefaultLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["default_limit"] = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		m["log_level"] = v
	}
	return m
}

// ApplyConfig wires a resolved Config into package state: it sets the
// logger's level. DefaultLimit is informational for callers that want
// to thread it into WithLimit themselves; jpathq does not read it.
func ApplyConfig(cfg Config) {
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log().SetLevel(lvl)
	}
}
