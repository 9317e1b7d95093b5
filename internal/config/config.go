// Package config loads search settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"persistence"
	"persistence/internal/logging"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything a search run needs.
type Config struct {
	StartDigits int    `yaml:"start_digits"`
	EndDigits   int    `yaml:"end_digits"`
	EndValue    string `yaml:"end_value,omitempty"`
	Threshold   int    `yaml:"threshold"`
	ResultsDir  string `yaml:"results_dir"`
	LogLevel    string `yaml:"log_level"`
	LogJSON     bool   `yaml:"log_json"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		StartDigits: 1,
		EndDigits:   30,
		Threshold:   11,
		ResultsDir:  ".",
		LogLevel:    "info",
	}
}

// Load reads path on top of Default. Fields missing from the file keep their
// default values. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	switch {
	case c.StartDigits < 1:
		return fmt.Errorf("start_digits must be at least 1, got %d: %w", c.StartDigits, ErrInvalid)
	case c.EndDigits < c.StartDigits:
		return fmt.Errorf("end_digits %d is below start_digits %d: %w", c.EndDigits, c.StartDigits, ErrInvalid)
	case c.Threshold < 0:
		return fmt.Errorf("threshold must not be negative, got %d: %w", c.Threshold, ErrInvalid)
	}

	if c.EndValue != "" {
		v, err := persistence.Parse(c.EndValue)
		if err != nil {
			return fmt.Errorf("end_value: %w: %w", ErrInvalid, err)
		}
		if v.IsZero() {
			return fmt.Errorf("end_value must be positive: %w", ErrInvalid)
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w: %w", ErrInvalid, err)
	}

	return nil
}

// Search converts the file settings into the engine's search bounds.
// Call Validate first.
func (c Config) Search() (persistence.SearchConfig, error) {
	sc := persistence.SearchConfig{
		StartDigits: c.StartDigits,
		EndDigits:   c.EndDigits,
		Threshold:   c.Threshold,
	}
	if c.EndValue != "" {
		v, err := persistence.Parse(c.EndValue)
		if err != nil {
			return sc, fmt.Errorf("end_value: %w", err)
		}
		sc.EndValue = v
	}
	return sc, nil
}

// Marshal renders c as YAML, e.g. to seed a config file.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
