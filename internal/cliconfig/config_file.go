package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for config files. Pointers mark keys whose zero
// value is meaningful, so an absent key leaves the default alone.
type FileConfig struct {
	UserID           string `toml:"user_id" yaml:"user_id"`
	UserName         string `toml:"user_name" yaml:"user_name"`
	UserScreenName   string `toml:"user_screen_name" yaml:"user_screen_name"`
	NumBatches       *int   `toml:"num_batches" yaml:"num_batches"`
	NumDeletedTweets *int   `toml:"num_deleted_tweets" yaml:"num_deleted_tweets"`
	MinNewPerBatch   *int   `toml:"min_new_per_batch" yaml:"min_new_per_batch"`
	MaxNewPerBatch   *int   `toml:"max_new_per_batch" yaml:"max_new_per_batch"`
	OutputDir        string `toml:"output_dir" yaml:"output_dir"`
	CreateOutputDir  *bool  `toml:"create_output_dir" yaml:"create_output_dir"`
	Seed             *int64 `toml:"seed" yaml:"seed"`
	Verify           *bool  `toml:"verify" yaml:"verify"`
	LogLevel         string `toml:"log_level" yaml:"log_level"`
}

// LoadFileConfig reads and parses a config file from the given path.
// Files ending in .yaml or .yml are parsed as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.tweetsim/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".tweetsim", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("user-id", fc.UserID, &cfg.UserID)
	s.setString("user-name", fc.UserName, &cfg.UserName)
	s.setString("user-screen-name", fc.UserScreenName, &cfg.UserScreenName)
	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("batches", fc.NumBatches, &cfg.NumBatches)
	s.setInt("deleted", fc.NumDeletedTweets, &cfg.NumDeletedTweets)
	s.setInt("min-new", fc.MinNewPerBatch, &cfg.MinNewPerBatch)
	s.setInt("max-new", fc.MaxNewPerBatch, &cfg.MaxNewPerBatch)
	s.setInt64("seed", fc.Seed, &cfg.Seed)

	s.setBool("create-dir", fc.CreateOutputDir, &cfg.CreateOutputDir)
	s.setBool("verify", fc.Verify, &cfg.Verify)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
