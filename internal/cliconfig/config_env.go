package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable tweetsim reads.
const EnvPrefix = "TWEETSIM_"

// LoadDotEnv loads variables from a .env style file into the process
// environment. Variables already set are not overridden. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (TWEETSIM_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("user-id", os.Getenv(EnvPrefix+"USER_ID"), &cfg.UserID)
	s.setString("user-name", os.Getenv(EnvPrefix+"USER_NAME"), &cfg.UserName)
	s.setString("user-screen-name", os.Getenv(EnvPrefix+"USER_SCREEN_NAME"), &cfg.UserScreenName)
	s.setString("output-dir", os.Getenv(EnvPrefix+"OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("batches", os.Getenv(EnvPrefix+"NUM_BATCHES"), &cfg.NumBatches); err != nil {
		return err
	}
	if err := s.setIntFromString("deleted", os.Getenv(EnvPrefix+"NUM_DELETED_TWEETS"), &cfg.NumDeletedTweets); err != nil {
		return err
	}
	if err := s.setIntFromString("min-new", os.Getenv(EnvPrefix+"MIN_NEW_PER_BATCH"), &cfg.MinNewPerBatch); err != nil {
		return err
	}
	if err := s.setIntFromString("max-new", os.Getenv(EnvPrefix+"MAX_NEW_PER_BATCH"), &cfg.MaxNewPerBatch); err != nil {
		return err
	}
	if err := s.setInt64FromString("seed", os.Getenv(EnvPrefix+"SEED"), &cfg.Seed); err != nil {
		return err
	}

	s.setBoolFromString("create-dir", os.Getenv(EnvPrefix+"CREATE_OUTPUT_DIR"), &cfg.CreateOutputDir)
	s.setBoolFromString("verify", os.Getenv(EnvPrefix+"VERIFY"), &cfg.Verify)

	return nil
}
