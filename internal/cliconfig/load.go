package cliconfig

import "fmt"

// Load layers the config file and TWEETSIM_* environment onto cfg, which
// already holds defaults and flag values, then validates the result.
// Precedence is flags > environment > file > defaults. A missing file at
// path is skipped.
func Load(cfg *Config, path string, changed map[string]bool) error {
	if err := Layer(cfg, path, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

// Layer applies the config file and environment like Load without
// validating, for commands that only use part of the configuration.
func Layer(cfg *Config, path string, changed map[string]bool) error {
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}
	return ApplyEnvConfig(cfg, changed)
}
