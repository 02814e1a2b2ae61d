package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ItemTTL expires user origin items after inactivity. Zero keeps them forever.
	ItemTTL time.Duration

	// SystemTTL applies to items in the reserved system origin
	SystemTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ItemTTL:      30 * 24 * time.Hour,
		SystemTTL:    0,
	}
}

func (c Config) ttlFor(origin string) time.Duration {
	if origin == systemOrigin {
		return c.SystemTTL
	}
	return c.ItemTTL
}
