package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/services/profile"
	"github.com/mcoot/psconsole/internal/web/handler"
	"github.com/mcoot/psconsole/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	Manager     *profile.Manager
	Catalog     *catalog.Service
	Library     *library.Service
	Tracker     *playsession.Tracker
	Random      random.Random
	HTTPMetrics *metrics.HTTPMetrics
	StaticDir   string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger, cfg.HTTPMetrics))

	dashboardHandler := handler.NewDashboardHandler(cfg.Catalog, cfg.Library, cfg.Tracker)
	actionHandler := handler.NewActionHandler(cfg.Catalog, cfg.Library, cfg.Tracker, cfg.Logger)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	console := r.NewRoute().Subrouter()
	console.Use(middleware.Flash())
	console.Use(middleware.Origin(cfg.Manager, cfg.Random, cfg.Logger))

	console.HandleFunc("/", dashboardHandler.Dashboard).Methods(http.MethodGet)

	console.HandleFunc("/library/{game_id}", actionHandler.AddToLibrary).Methods(http.MethodPost)
	console.HandleFunc("/library/{game_id}/remove", actionHandler.RemoveFromLibrary).Methods(http.MethodPost)
	console.HandleFunc("/library/{game_id}/favorite", actionHandler.ToggleFavorite).Methods(http.MethodPost)
	console.HandleFunc("/library/{game_id}/install", actionHandler.SetInstalled(true)).Methods(http.MethodPost)
	console.HandleFunc("/library/{game_id}/uninstall", actionHandler.SetInstalled(false)).Methods(http.MethodPost)

	console.HandleFunc("/play/stop", actionHandler.Stop).Methods(http.MethodPost)
	console.HandleFunc("/play/{game_id}", actionHandler.Play).Methods(http.MethodPost)

	console.HandleFunc("/preferences", actionHandler.UpdatePreferences).Methods(http.MethodPost)
	console.HandleFunc("/logout", actionHandler.Logout).Methods(http.MethodPost)

	return r
}
