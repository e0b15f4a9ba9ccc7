// Package config resolves the application-wide directories and environment
// overrides the session core reads at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envStateDir = "QUANTUMXFER_STATE_DIR"
	envLogLevel = "QUANTUMXFER_LOG_LEVEL"
	appDirName  = "quantumxfer"
)

// Config holds the resolved on-disk locations and environment-derived
// settings for one process lifetime.
type Config struct {
	StateDir string
	LogLevel string
}

// Load resolves the state directory (QUANTUMXFER_STATE_DIR or the OS default
// per-user config directory) and the log level (QUANTUMXFER_LOG_LEVEL,
// defaulting to "info"), creating the state directory if it does not exist.
func Load() (*Config, error) {
	stateDir := os.Getenv(envStateDir)
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		stateDir = filepath.Join(base, appDirName)
	}

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory %s: %w", stateDir, err)
	}

	level := os.Getenv(envLogLevel)
	if level == "" {
		level = "info"
	}

	return &Config{StateDir: stateDir, LogLevel: level}, nil
}

// ProfilesPath returns the path of the profiles persistence file.
func (c *Config) ProfilesPath() string {
	return filepath.Join(c.StateDir, "profiles.json")
}

// CommandHistoryPath returns the path of the global command history file.
func (c *Config) CommandHistoryPath() string {
	return filepath.Join(c.StateDir, "command-history", "global-command-history.json")
}

// KeysDir returns the directory SSH key pairs are stored under.
func (c *Config) KeysDir() string {
	return filepath.Join(c.StateDir, "keys")
}
