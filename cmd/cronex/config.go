package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	cronex "github.com/netresearch/go-cronex"
)

// Config holds the defaults a config file can set for the flags every
// subcommand shares. Explicitly set flags override it.
type Config struct {
	// Seconds makes every expression carry a leading seconds field.
	Seconds bool `yaml:"seconds"`

	// Years makes every expression carry a trailing year field.
	Years bool `yaml:"years"`

	// Epoch anchors %P repeaters. Accepts the same forms as --at,
	// e.g. "2010-01-04" or "2010-01-04 09:00 +0100"; zoneless values
	// are read as UTC. Empty keeps the Unix epoch.
	Epoch string `yaml:"epoch"`

	// UTCOffset overrides the epoch's zone offset, in minutes east of
	// UTC. Zero keeps the offset the epoch value itself carries.
	UTCOffset int `yaml:"utc_offset"`

	// Count is the number of activations next and prev print.
	// Defaults to 3.
	Count int `yaml:"count"`

	// Verbose logs progress to stderr, like --verbose.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{Count: 3}
}

// LoadConfig loads a configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Count == 0 {
		config.Count = 3
	}

	return &config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	if c.UTCOffset < -24*60 || c.UTCOffset > 24*60 {
		return fmt.Errorf("utc_offset (%d) out of range (±1440)", c.UTCOffset)
	}
	if c.Epoch != "" {
		if _, err := parseTime(c.Epoch, time.UTC); err != nil {
			return fmt.Errorf("epoch: %w", err)
		}
	}
	return nil
}

// Parser builds the expression parser the configuration describes.
func (c *Config) Parser() (cronex.Parser, error) {
	var options cronex.ParseOption
	if c.Seconds {
		options |= cronex.Second
	}
	if c.Years {
		options |= cronex.Year
	}

	parser := cronex.NewParser(options)
	epoch, custom := cronex.DefaultEpoch, false
	if c.Epoch != "" {
		t, err := parseTime(c.Epoch, time.UTC)
		if err != nil {
			return cronex.Parser{}, fmt.Errorf("epoch: %w", err)
		}
		epoch, custom = cronex.EpochOf(t), true
	}
	if c.UTCOffset != 0 {
		epoch.UTCOffset = c.UTCOffset
		custom = true
	}
	if custom {
		parser = parser.WithEpoch(epoch)
	}
	return parser, nil
}
