package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every server environment variable
const EnvPrefix = "PSCONSOLE"

// Environment variable names
const (
	EnvHost        = "PSCONSOLE_HOST"
	EnvPort        = "PSCONSOLE_PORT"
	EnvStorageType = "PSCONSOLE_STORAGE_TYPE"
	EnvRedisURL    = "PSCONSOLE_REDIS_URL"
	EnvSQLitePath  = "PSCONSOLE_SQLITE_PATH"
	EnvQuotaBytes  = "PSCONSOLE_STORAGE_QUOTA_BYTES"
	EnvCatalogPath = "PSCONSOLE_CATALOG_PATH"
	EnvLogLevel    = "PSCONSOLE_LOG_LEVEL"
	EnvLogFormat   = "PSCONSOLE_LOG_FORMAT"
)

// Config is the server configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host            string        `envconfig:"PSCONSOLE_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PSCONSOLE_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"PSCONSOLE_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"PSCONSOLE_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `envconfig:"PSCONSOLE_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"PSCONSOLE_SHUTDOWN_TIMEOUT" default:"10s"`
}

type StorageConfig struct {
	Type       string `envconfig:"PSCONSOLE_STORAGE_TYPE" default:"memory"`
	QuotaBytes int    `envconfig:"PSCONSOLE_STORAGE_QUOTA_BYTES" default:"5242880"`

	// Profile stores unused for this long are dropped from memory
	StoreIdleTimeout time.Duration `envconfig:"PSCONSOLE_STORE_IDLE_TIMEOUT" default:"15m"`

	RedisURL          string        `envconfig:"PSCONSOLE_REDIS_URL"`
	RedisPoolSize     int           `envconfig:"PSCONSOLE_REDIS_POOL_SIZE" default:"10"`
	RedisMinIdleConns int           `envconfig:"PSCONSOLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	RedisItemTTL      time.Duration `envconfig:"PSCONSOLE_REDIS_ITEM_TTL" default:"720h"`

	SQLitePath string `envconfig:"PSCONSOLE_SQLITE_PATH" default:"data/psconsole.db"`
}

type CatalogConfig struct {
	Path string `envconfig:"PSCONSOLE_CATALOG_PATH" default:"data/games.json"`
}

type LogConfig struct {
	Level  string `envconfig:"PSCONSOLE_LOG_LEVEL" default:"info"`
	Format string `envconfig:"PSCONSOLE_LOG_FORMAT" default:"json"`
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	// A missing .env file is normal outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case "memory", "sqlite":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("%s required when %s=redis", EnvRedisURL, EnvStorageType)
		}
	default:
		return fmt.Errorf("invalid %s %q: must be memory, redis or sqlite", EnvStorageType, c.Storage.Type)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid %s %d", EnvPort, c.Server.Port)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid %s %q: must be json or text", EnvLogFormat, c.Log.Format)
	}
	return nil
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SlogLevel parses the configured log level, defaulting to info
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
