// Package common provides shared utilities for StockSeer
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the StockSeer server
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Auth        AuthConfig    `toml:"auth"`
	Ledger      LedgerConfig  `toml:"ledger"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds document-store configuration.
// Backend is "badger" (embedded, default) or "surreal".
type StorageConfig struct {
	Backend string        `toml:"backend"`
	Path    string        `toml:"path"`   // badger data directory
	Backup  AreaConfig    `toml:"backup"` // ledger snapshot directory
	Surreal SurrealConfig `toml:"surreal"`
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// SurrealConfig holds SurrealDB connection configuration.
type SurrealConfig struct {
	URL       string `toml:"url"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	MarketData MarketDataConfig `toml:"marketdata"`
	Gemini     GeminiConfig     `toml:"gemini"`
}

// MarketDataConfig holds upstream market-data provider configuration
type MarketDataConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *MarketDataConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LedgerConfig holds dummy-account ledger configuration.
// The Zolo exchange rate is fixed by the product and is not configurable.
type LedgerConfig struct {
	StartingZolos float64 `toml:"starting_zolos"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Storage: StorageConfig{
			Backend: "badger",
			Path:    "data/profiles",
			Backup:  AreaConfig{Path: "data/backup"},
			Surreal: SurrealConfig{
				URL:       "ws://localhost:8800/rpc",
				Username:  "root",
				Password:  "root",
				Namespace: "stockseer",
				Database:  "stockseer",
			},
		},
		Clients: ClientsConfig{
			MarketData: MarketDataConfig{
				BaseURL:   "http://localhost:8000",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Ledger: LedgerConfig{
			StartingZolos: 10000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateBackend(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKSEER_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKSEER_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKSEER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKSEER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("STOCKSEER_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}

	if path := os.Getenv("STOCKSEER_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "profiles")
		config.Storage.Backup.Path = filepath.Join(path, "backup")
	}

	if v := os.Getenv("STOCKSEER_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("STOCKSEER_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("STOCKSEER_MARKETDATA_URL"); v != "" {
		config.Clients.MarketData.BaseURL = v
	}
	if v := os.Getenv("STOCKSEER_MARKETDATA_API_KEY"); v != "" {
		config.Clients.MarketData.APIKey = v
	}
	if v := firstEnv("GEMINI_API_KEY", "STOCKSEER_GEMINI_API_KEY", "GOOGLE_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}

	if v := os.Getenv("STOCKSEER_SURREAL_URL"); v != "" {
		config.Storage.Surreal.URL = v
	}
}

// firstEnv returns the first non-empty value among the named env vars.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateBackend ensures the storage backend is a known engine, defaulting to badger.
func validateBackend(config *Config) {
	backend := strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if backend != "badger" && backend != "surreal" {
		backend = "badger"
	}
	config.Storage.Backend = backend
}
