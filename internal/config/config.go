// Package config loads agent configuration from an optional YAML file with
// environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds all sessionlens configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the HTTP transport settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// StoreConfig holds bundle-store settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration: defaults, then the YAML file named by
// SESSIONLENS_CONFIG (if set), then SESSIONLENS_* env vars.
func Load() (Config, error) {
	cfg := Config{
		Server:  ServerConfig{Address: "127.0.0.1:8123"},
		Store:   StoreConfig{Path: defaultStorePath()},
		Logging: LoggingConfig{Level: "info"},
	}

	if path := os.Getenv("SESSIONLENS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Server.Address = getenv("SESSIONLENS_ADDRESS", cfg.Server.Address)
	cfg.Store.Path = getenv("SESSIONLENS_DB", cfg.Store.Path)
	cfg.Logging.Level = getenv("SESSIONLENS_LOG_LEVEL", cfg.Logging.Level)
	return cfg, nil
}

// defaultStorePath picks the platform-specific application data location.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sessions.db"
	}
	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = filepath.Join(home, "Library", "Application Support", "SessionLens")
	case "windows":
		dir = filepath.Join(home, "AppData", "Roaming", "SessionLens")
	default: // linux and others
		dir = filepath.Join(home, ".local", "share", "SessionLens")
	}
	return filepath.Join(dir, "sessions.db")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
