package cliconfig

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bft-labs/tweetsim/internal/domain"
	"github.com/bft-labs/tweetsim/internal/simulate"
)

// Config holds CLI configuration for tweetsim.
type Config struct {
	UserID         string
	UserName       string
	UserScreenName string

	NumBatches       int
	NumDeletedTweets int
	MinNewPerBatch   int
	MaxNewPerBatch   int

	OutputDir       string
	CreateOutputDir bool

	// Seed makes a run reproducible. Zero seeds from the clock.
	Seed int64

	Verify   bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		UserName:         "Jim Bob",
		UserScreenName:   "JimBob",
		NumBatches:       4,
		NumDeletedTweets: 3,
		MinNewPerBatch:   simulate.DefaultMinNewPerBatch,
		MaxNewPerBatch:   simulate.DefaultMaxNewPerBatch,
		OutputDir:        "./batches",
		Verify:           true,
		LogLevel:         "info",
	}
}

// Validate checks the configuration for errors. Errors wrap
// domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output-dir is required", domain.ErrInvalidConfig)
	}
	if err := c.ValidateLogLevel(); err != nil {
		return err
	}
	return c.Params().Validate()
}

// ValidateLogLevel defaults an empty level to info and rejects levels
// zerolog does not know.
func (c *Config) ValidateLogLevel() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log-level: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// Params converts the configuration into simulation parameters.
func (c Config) Params() simulate.Params {
	return simulate.Params{
		UserID:           c.UserID,
		UserName:         c.UserName,
		UserScreenName:   c.UserScreenName,
		NumBatches:       c.NumBatches,
		NumDeletedTweets: c.NumDeletedTweets,
		MinNewPerBatch:   c.MinNewPerBatch,
		MaxNewPerBatch:   c.MaxNewPerBatch,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
// Zero is a meaningful count here, so presence is carried by the pointer.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInt64 sets an int64 value from a pointer if not nil and flag not changed.
func (s *configSetter) setInt64(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination if valid.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
