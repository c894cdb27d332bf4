// Package config resolves the angkan workspace and loads .angkan/config.json.
// The engine's only external parameter is the data directory that holds the
// learning document; everything else in here is ambient (logging) settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all angkan configuration.
type Config struct {
	// DataPath is the directory holding the learning document. Relative paths
	// resolve against the workspace root. Empty means "<workspace>/data".
	DataPath string `json:"data_path,omitempty"`

	// Logging is consumed by the internal/logging package.
	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig controls the categorized debug logs.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
	JSONFormat bool            `json:"json_format,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads .angkan/config.json under the given workspace. A missing file
// yields the defaults; a malformed file is an error.
func Load(workspace string) (*Config, error) {
	path := filepath.Join(workspace, ".angkan", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to .angkan/config.json.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ".angkan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DataDir resolves the learning-document directory for a workspace.
func (c *Config) DataDir(workspace string) string {
	if c.DataPath == "" {
		return filepath.Join(workspace, "data")
	}
	if filepath.IsAbs(c.DataPath) {
		return c.DataPath
	}
	return filepath.Join(workspace, c.DataPath)
}

// FindWorkspaceRoot walks up from the working directory looking for an .angkan
// marker directory, falling back to a go.mod, then to the working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".angkan")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}
