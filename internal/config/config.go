// Package config provides project configuration for LeapLineage.
// It is decoupled from CLI concerns so the HTTP server and other tools
// can load configuration without importing cobra.
package config

import "fmt"

// Defaults for configuration values.
const (
	DefaultStateFile = ".leaplineage/state.db"
	DefaultPort      = 4180
	DefaultLogLevel  = "info"
)

// Config holds the resolved project configuration.
type Config struct {
	// StatePath is the SQLite snapshot database path.
	StatePath string `koanf:"state_path"`

	// Manifest is an optional lineage manifest to load instead of the
	// latest snapshot.
	Manifest string `koanf:"manifest"`

	// Port is the HTTP API port for the serve command.
	Port int `koanf:"port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Verbose enables extra diagnostic output.
	Verbose bool `koanf:"verbose"`
}

// Default returns a config populated with default values.
func Default() *Config {
	return &Config{
		StatePath: DefaultStateFile,
		Port:      DefaultPort,
		LogLevel:  DefaultLogLevel,
	}
}

// Validate checks the configuration for structurally invalid values.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
