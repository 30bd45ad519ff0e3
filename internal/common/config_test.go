package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, "badger", config.Storage.Backend)
	assert.Equal(t, 10000.0, config.Ledger.StartingZolos)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, 24*time.Hour, config.Auth.GetTokenExpiry())
	assert.Equal(t, 30*time.Second, config.Clients.MarketData.GetTimeout())
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig("/nonexistent/stockseer.toml")
	require.NoError(t, err)
	assert.Equal(t, 8000, config.Server.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, "stockseer.toml", `
environment = "production"

[server]
port = 9090

[storage]
backend = "surreal"

[ledger]
starting_zolos = 5000

[logging]
level = "debug"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "surreal", config.Storage.Backend)
	assert.Equal(t, 5000.0, config.Ledger.StartingZolos)
	assert.Equal(t, "debug", config.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestLoadConfigLaterFilesOverride(t *testing.T) {
	base := writeConfigFile(t, "base.toml", `
[server]
port = 9000
host = "127.0.0.1"
`)
	override := writeConfigFile(t, "override.toml", `
[server]
port = 9999
`)

	config, err := LoadConfig(base, override)
	require.NoError(t, err)
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfigFile(t, "bad.toml", "[server\nport=")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOCKSEER_ENV", "production")
	t.Setenv("STOCKSEER_PORT", "7777")
	t.Setenv("STOCKSEER_LOG_LEVEL", "warn")
	t.Setenv("STOCKSEER_STORAGE_BACKEND", "surreal")
	t.Setenv("STOCKSEER_DATA_PATH", "/var/lib/stockseer")
	t.Setenv("STOCKSEER_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("STOCKSEER_MARKETDATA_API_KEY", "md-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "surreal", config.Storage.Backend)
	assert.Equal(t, filepath.Join("/var/lib/stockseer", "profiles"), config.Storage.Path)
	assert.Equal(t, filepath.Join("/var/lib/stockseer", "backup"), config.Storage.Backup.Path)
	assert.Equal(t, "env-secret", config.Auth.JWTSecret)
	assert.Equal(t, "md-key", config.Clients.MarketData.APIKey)
	assert.Equal(t, "gm-key", config.Clients.Gemini.APIKey)
}

func TestEnvOverridesInvalidPortIgnored(t *testing.T) {
	t.Setenv("STOCKSEER_PORT", "not-a-number")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8000, config.Server.Port)
}

func TestValidateBackendFallsBackToBadger(t *testing.T) {
	path := writeConfigFile(t, "stockseer.toml", `
[storage]
backend = "postgres"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "badger", config.Storage.Backend)
}

func TestValidateBackendNormalizesCase(t *testing.T) {
	path := writeConfigFile(t, "stockseer.toml", `
[storage]
backend = " Surreal "
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "surreal", config.Storage.Backend)
}

func TestGetTokenExpiryInvalidDuration(t *testing.T) {
	c := AuthConfig{TokenExpiry: "soon"}
	assert.Equal(t, 24*time.Hour, c.GetTokenExpiry())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.True(t, (&Config{Environment: " Prod "}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
}
