// Package config loads the settings of the leak demonstration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// LogConfig selects the encoding and verbosity of the driver's logger.
	LogConfig struct {
		Encoding string `yaml:"encoding"`
		Level    string `yaml:"level"`
	}
	// Config holds the settings of every scenario.
	Config struct {
		// Objects is how many values each scenario allocates.
		Objects int `yaml:"objects"`
		// Capacity bounds the capacity-policy cache.
		Capacity int       `yaml:"capacity"`
		Log      LogConfig `yaml:"log"`
	}
)

// Defaults used for settings absent from the file.
const (
	// DefaultObjects is the number of values each scenario allocates.
	DefaultObjects = 5
	// DefaultCapacity is the entry limit of the capacity-policy cache.
	DefaultCapacity = 3
)

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Objects:  DefaultObjects,
		Capacity: DefaultCapacity,
		Log: LogConfig{
			Encoding: "console",
			Level:    "info",
		},
	}
}

// Load reads the YAML file at path over the [Default] settings.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the scenarios cannot run with.
func (c *Config) Validate() error {
	if c.Objects < 1 {
		return fmt.Errorf("objects must be positive but %d was requested", c.Objects)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be positive but %d was requested", c.Capacity)
	}
	return nil
}
