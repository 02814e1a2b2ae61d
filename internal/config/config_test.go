package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 5*1024*1024, cfg.Storage.QuotaBytes)
	assert.Equal(t, 720*time.Hour, cfg.Storage.RedisItemTTL)
	assert.Equal(t, 15*time.Minute, cfg.Storage.StoreIdleTimeout)
	assert.Equal(t, "data/games.json", cfg.Catalog.Path)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvStorageType, "redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/1")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Storage.RedisURL)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_RedisRequiresURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvStorageType, "redis")

	_, err := Load()
	assert.ErrorContains(t, err, EnvRedisURL)
}

func TestLoad_InvalidStorageType(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvStorageType, "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPort, "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "chatty"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
}
