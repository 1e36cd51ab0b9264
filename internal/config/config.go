// Package config loads rota's settings from a YAML file, an optional .env
// file and ROTA_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rotar1/rota/internal/record"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the top-level configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where the study record lives.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path,omitempty"` // sqlite file; empty uses the XDG data dir
	RedisURL string `yaml:"redis_url,omitempty"`
	Key      string `yaml:"key"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Key:     record.DefaultKey,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rota/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "rota", "config.yaml"), nil
}

// Load reads the YAML file at path. A missing file yields the defaults.
// Variables from a .env file in the working directory and the process
// environment are applied on top.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ROTA_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ROTA_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ROTA_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("ROTA_STORAGE_KEY"); v != "" {
		c.Storage.Key = v
	}
	if v := os.Getenv("ROTA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// ValidBackends lists the supported storage backends.
var ValidBackends = []string{BackendSQLite, BackendRedis, BackendMemory}

// Validate checks the storage selection.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("redis backend needs a URL (set storage.redis_url or ROTA_REDIS_URL)")
		}
	default:
		return fmt.Errorf("invalid storage backend: %q (valid: %v)", c.Storage.Backend, ValidBackends)
	}
	if c.Storage.Key == "" {
		c.Storage.Key = record.DefaultKey
	}
	return nil
}
