// Package config loads the server configuration from a YAML file,
// layering file values over built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Defaults DefaultsConfig `yaml:"defaults"`
	LogLevel string         `yaml:"logLevel"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig selects and configures the run store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"dataDir"`
}

// DefaultsConfig holds default parameters for jobs created without them.
type DefaultsConfig struct {
	Problem  string `yaml:"problem"`
	Steps    int    `yaml:"steps"`
	Schedule string `yaml:"schedule"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Backend: BackendFS,
			DataDir: "./data",
		},
		Defaults: DefaultsConfig{
			Problem:  "sort",
			Steps:    10000,
			Schedule: "linear",
		},
		LogLevel: "info",
	}
}

// Load reads the configuration file at path over the defaults. A missing
// file is not an error; an empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Store.Backend != BackendFS && c.Store.Backend != BackendSQLite {
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFS, BackendSQLite, c.Store.Backend)
	}
	if c.Store.DataDir == "" {
		return fmt.Errorf("store.dataDir must not be empty")
	}
	if c.Defaults.Steps < 0 {
		return fmt.Errorf("defaults.steps must not be negative")
	}
	return nil
}
