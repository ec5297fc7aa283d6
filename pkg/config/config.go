// Package config loads the todo-api server configuration. It handles parsing the
// YAML config file, filling defaults, and applying TODO_API_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/backendtypes"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/factory"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/providers/sqlite"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "TODO_API_"

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() backendtypes.BackendConfig {
	return backendtypes.BackendConfig{
		Server: backendtypes.ServerConfig{
			Host:            "localhost",
			Port:            5000,
			Version:         "dev",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: backendtypes.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		CORS: backendtypes.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"*"},
			AllowedHeaders: []string{"*"},
		},
		Auth: backendtypes.AuthConfig{
			PublicPaths: []string{"/health", "/status", "/version"},
		},
		RateLimit: backendtypes.RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Providers: backendtypes.ProvidersConfig{
			DurableKey: factory.DefaultDurableKey,
			SQLite:     backendtypes.SQLiteConfig{DSN: sqlite.DefaultDSN},
		},
	}
}

// LoadConfig loads and parses a YAML configuration file on top of DefaultConfig.
// An empty filename returns the defaults.
func LoadConfig(filename string) (*backendtypes.BackendConfig, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides cfg from TODO_API_* variables looked up through getenv.
func ApplyEnv(cfg *backendtypes.BackendConfig, getenv func(string) string) error {
	if v := getenv(EnvPrefix + "HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := getenv(EnvPrefix + "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", EnvPrefix, err)
		}
		cfg.Server.Port = port
	}
	if v := getenv(EnvPrefix + "DB_DSN"); v != "" {
		cfg.Providers.SQLite.DSN = v
	}
	if v := getenv(EnvPrefix + "CORS_ORIGIN"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate reports every configuration problem found, joined into one error.
func Validate(cfg *backendtypes.BackendConfig) error {
	var errs []error
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", cfg.Server.Port))
	}
	if cfg.Providers.SQLite.DSN == "" {
		errs = append(errs, errors.New("providers.sqlite.dsn is required"))
	}
	if cfg.Providers.DurableKey == "" {
		errs = append(errs, errors.New("providers.durable_key is required"))
	}
	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", cfg.Logging.Format))
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("rate_limit.requests_per_second must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads filename, applies the process environment, and validates the result.
func Load(filename string) (*backendtypes.BackendConfig, error) {
	cfg, err := LoadConfig(filename)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
