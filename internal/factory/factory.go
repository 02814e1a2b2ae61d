package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/psconsole/internal/config"
	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/services/profile"
	"github.com/mcoot/psconsole/internal/storage"
	"github.com/mcoot/psconsole/internal/storage/memory"
	redisstorage "github.com/mcoot/psconsole/internal/storage/redis"
	sqlitestorage "github.com/mcoot/psconsole/internal/storage/sqlite"
	"github.com/mcoot/psconsole/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Metrics
	Registry     *prometheus.Registry
	StoreMetrics *metrics.StoreMetrics
	HTTPMetrics  *metrics.HTTPMetrics

	// Services
	Catalog     *catalog.Service
	Manager     *profile.Manager
	Library     *library.Service
	Tracker     *playsession.Tracker
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// QuotaBytes caps each origin's memory storage (optional)
	QuotaBytes int
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// CatalogPath is the path to the games file (optional)
	// If empty, the catalog must be loaded manually
	CatalogPath string
}

// ConfigFrom maps the server configuration onto a factory Config
func ConfigFrom(cfg *config.Config, logger *slog.Logger) Config {
	return Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		QuotaBytes:  cfg.Storage.QuotaBytes,
		RedisConfig: &redisstorage.Config{
			URL:          cfg.Storage.RedisURL,
			PoolSize:     cfg.Storage.RedisPoolSize,
			MinIdleConns: cfg.Storage.RedisMinIdleConns,
			ItemTTL:      cfg.Storage.RedisItemTTL,
		},
		SQLitePath:  cfg.Storage.SQLitePath,
		CatalogPath: cfg.Catalog.Path,
	}
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// External dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		var opts []memory.Option
		if cfg.QuotaBytes > 0 {
			opts = append(opts, memory.WithQuota(cfg.QuotaBytes))
		}
		store = memory.New(opts...)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.Open(ctx, cfg.SQLitePath, clk)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closers = append(closers, sqliteStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := newWithDependencies(store, clk, rnd, registry, logger)
	app.closers = closers

	if cfg.CatalogPath != "" {
		if err := app.Catalog.LoadFromFile(ctx, cfg.CatalogPath); err != nil {
			// The console still boots with an empty or cached catalog
			logger.Warn("catalog load recovered", slog.String("path", cfg.CatalogPath), slog.Any("error", err))
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, registry *prometheus.Registry, logger *slog.Logger) *App {
	storeMetrics := metrics.NewStoreMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	catalogService := catalog.New(store, logger)
	manager := profile.NewManager(store, clk, broadcaster, storeMetrics, logger)
	libraryService := library.New(catalogService)
	tracker := playsession.NewTracker(catalogService, clk, storeMetrics, logger, playsession.WithNotifier(broadcaster))

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		Registry:     registry,
		StoreMetrics: storeMetrics,
		HTTPMetrics:  httpMetrics,
		Catalog:      catalogService,
		Manager:      manager,
		Library:      libraryService,
		Tracker:      tracker,
		HubManager:   hubManager,
		Broadcaster:  broadcaster,
	}
}

// EvictIdleStores drops profile stores idle for at least idle. Origins with
// a listening event stream or an open play session are kept.
func (a *App) EvictIdleStores(idle time.Duration) int {
	return a.Manager.EvictIdle(idle, func(origin model.Origin) bool {
		if hub := a.HubManager.GetHub(origin); hub != nil && hub.ClientCount() > 0 {
			return true
		}
		_, playing := a.Tracker.Current(origin)
		return playing
	})
}

// Close stops the SSE hubs and releases storage connections
func (a *App) Close() error {
	a.HubManager.Close()
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
