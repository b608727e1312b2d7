// Package config holds dimasbt's configuration: per-concern sub-structs
// merged from in-code defaults, an optional YAML file, and environment
// variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoggingConfig controls the internal/logging package.
type LoggingConfig struct {
	DebugMode bool `yaml:"debug_mode"`
}

// FactoryConfig controls which behavior registrations the CLI enables.
type FactoryConfig struct {
	// ExtendedRegistrations toggles behavior.RegisterExtended on top of
	// the always-present behavior.RegisterBuiltins set.
	ExtendedRegistrations bool `yaml:"extended_registrations"`
}

// AgentConfig controls the agent shell's run loop.
type AgentConfig struct {
	TickInterval  time.Duration `yaml:"tick_interval"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// Config holds all of dimasbt's configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Factory FactoryConfig `yaml:"factory"`
	Agent   AgentConfig   `yaml:"agent"`
}

// Default returns the default configuration: debug logging off, the
// extended registrations enabled, a 50ms tick interval, and a 2s shutdown
// grace period.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{DebugMode: false},
		Factory: FactoryConfig{ExtendedRegistrations: true},
		Agent: AgentConfig{
			TickInterval:  50 * time.Millisecond,
			ShutdownGrace: 2 * time.Second,
		},
	}
}

// Load reads a YAML config file at path, falling back to Default() if the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides lets DIMASBT_DEBUG and DIMASBT_TICK_INTERVAL override
// the loaded file; environment always wins last.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DIMASBT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("DIMASBT_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Agent.TickInterval = d
		}
	}
}
