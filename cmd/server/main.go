package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mcoot/psconsole/internal/api"
	"github.com/mcoot/psconsole/internal/config"
	"github.com/mcoot/psconsole/internal/factory"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/web"
)

// hubCleanupInterval is how often SSE hubs without clients and idle profile
// stores are dropped
const hubCleanupInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := factory.New(ctx, factory.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
	}()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Manager:     app.Manager,
		Catalog:     app.Catalog,
		Library:     app.Library,
		Tracker:     app.Tracker,
		HubManager:  app.HubManager,
		Random:      app.Random,
		Clock:       app.Clock,
		HTTPMetrics: app.HTTPMetrics,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		Manager:     app.Manager,
		Catalog:     app.Catalog,
		Library:     app.Library,
		Tracker:     app.Tracker,
		Random:      app.Random,
		HTTPMetrics: app.HTTPMetrics,
		StaticDir:   findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", metrics.Handler(app.Registry))
	mux.Handle("/", webRouter)

	server := api.NewServer(mux, cfg.Server, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(hubCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				app.HubManager.CleanupEmptyHubs()
				app.EvictIdleStores(cfg.Storage.StoreIdleTimeout)
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.Int("catalog_games", app.Catalog.Count()),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		// Open event streams only end when their hub closes
		app.HubManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return "internal/web/static"
}
