// Package dbcconfig loads and validates the YAML configuration shared
// by this module's command-line tools (cmd/dbcdump, cmd/dbctui):
// decode concurrency, logging, the metrics listener, and default
// dump options.
package dbcconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of a tool config file.
type Config struct {
	Concurrency     int      `yaml:"concurrency"`
	LogLevel        string   `yaml:"log_level"`
	MetricsAddr     string   `yaml:"metrics_addr"`
	Strict          bool     `yaml:"strict"`
	OutputFormat    string   `yaml:"output_format"`
	DefaultLoadMask []string `yaml:"default_load_mask"`
}

// DefaultConfig returns the configuration a tool uses when no file is
// given.
func DefaultConfig() *Config {
	return &Config{
		Concurrency:  4,
		LogLevel:     "info",
		OutputFormat: "json",
	}
}

// LoadConfig reads and validates the YAML config at path, starting from
// DefaultConfig so unset fields keep sane values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dbcconfig: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("dbcconfig: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dbcconfig: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field's constraints, collecting all violations
// rather than stopping at the first.
func (c *Config) Validate() error {
	v := NewConfigValidator("Config")
	v.Positive("Concurrency", c.Concurrency)
	v.OneOf("LogLevel", c.LogLevel, []string{"debug", "info", "warn", "error"})
	v.OneOf("OutputFormat", c.OutputFormat, []string{"json", "csv"})
	return v.Validate()
}
