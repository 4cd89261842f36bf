// Package config holds the kernel's ambient tunables: settings that
// govern runtime behaviour (port buffering, diagnostics thresholds,
// tracing) rather than persisted editor data, which the core never owns
// (spec.md §6.4 reserves that to internal/storage, and even that is
// opt-in). A zero-value Config is valid -- editctx.NewContext works
// without ever touching this package.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"nested/internal/diagnostics"
)

// Config holds the kernel's ambient tunables.
type Config struct {
	PortBufferSize   int           `mapstructure:"port_buffer_size"`
	DiagMinLevel     string        `mapstructure:"diag_min_level"`
	TracingEnabled   bool          `mapstructure:"tracing_enabled"`
	TracingEndpoint  string        `mapstructure:"tracing_endpoint"`
	MorphismCacheTTL time.Duration `mapstructure:"morphism_cache_ttl"`
}

// Defaults returns the values Load starts from before applying a config
// file or environment overrides.
func Defaults() Config {
	return Config{
		PortBufferSize:   64,
		DiagMinLevel:     "info",
		TracingEnabled:   false,
		MorphismCacheTTL: 5 * time.Minute,
	}
}

// DiagLevel parses DiagMinLevel into a diagnostics.Level, falling back to
// diagnostics.LevelInfo for an unrecognised or empty value.
func (c Config) DiagLevel() diagnostics.Level {
	switch c.DiagMinLevel {
	case "warn":
		return diagnostics.LevelWarn
	case "error":
		return diagnostics.LevelError
	case "todo":
		return diagnostics.LevelTodo
	default:
		return diagnostics.LevelInfo
	}
}

// Load reads tunables from environment variables prefixed NESTED_ and,
// if path is non-empty, from the YAML file there, layered over
// Defaults(). A missing file is not an error: configuration is entirely
// optional per SPEC_FULL.md §9.3.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NESTED")
	v.AutomaticEnv()

	defaults := Defaults()
	v.SetDefault("port_buffer_size", defaults.PortBufferSize)
	v.SetDefault("diag_min_level", defaults.DiagMinLevel)
	v.SetDefault("tracing_enabled", defaults.TracingEnabled)
	v.SetDefault("tracing_endpoint", defaults.TracingEndpoint)
	v.SetDefault("morphism_cache_ttl", defaults.MorphismCacheTTL)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
