package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  dsn: /var/lib/repairshop/shop.db
tracking:
  base_url: https://atelier.test/suivi/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.False(t, cfg.Push.Enabled())
	assert.Equal(t, "https://atelier.test/suivi/", cfg.Tracking.BaseURL)
	assert.Equal(t, 256, cfg.Tracking.QRSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  dsn: ./shop.db
`)
	t.Setenv("REPAIRSHOP_SERVER_PORT", "7000")
	t.Setenv("REPAIRSHOP_DATABASE_DSN", "postgres://shop:secret@db:5432/shop")
	t.Setenv("REPAIRSHOP_WORKER_POOL_SIZE", "4")
	t.Setenv("REPAIRSHOP_PUSH_VAPID_PUBLIC_KEY", "pub")
	t.Setenv("REPAIRSHOP_PUSH_VAPID_PRIVATE_KEY", "priv")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
	assert.True(t, cfg.Push.Enabled())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./repairshop.db", cfg.Database.DSN)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not, a, map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDriverFromDSN(t *testing.T) {
	testCases := []struct {
		dsn      string
		expected string
	}{
		{"./repairshop.db", "sqlite"},
		{"file::memory:?cache=shared", "sqlite"},
		{"postgres://u:p@localhost/shop", "postgres"},
		{"host=localhost user=shop dbname=shop", "postgres"},
	}
	for _, tc := range testCases {
		t.Run(tc.dsn, func(t *testing.T) {
			assert.Equal(t, tc.expected, DriverFromDSN(tc.dsn))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	assert.NoError(t, LogConfig{Level: "debug", Format: "json"}.ConfigureLogger())
	assert.Error(t, LogConfig{Level: "loud", Format: "text"}.ConfigureLogger())
	assert.Error(t, LogConfig{Level: "info", Format: "xml"}.ConfigureLogger())
	assert.NoError(t, LogConfig{Level: "info", Format: "text"}.ConfigureLogger())
}
