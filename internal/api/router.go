package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/psconsole/internal/api/handler"
	"github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/api/response"
	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/metrics"
	sharedmw "github.com/mcoot/psconsole/internal/middleware"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/services/profile"
	"github.com/mcoot/psconsole/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Manager     *profile.Manager
	Catalog     *catalog.Service
	Library     *library.Service
	Tracker     *playsession.Tracker
	HubManager  *sse.HubManager
	Random      random.Random
	Clock       clock.Clock
	HTTPMetrics *metrics.HTTPMetrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	originHandler := handler.NewOriginHandler(cfg.Manager, cfg.Random)
	profileHandler := handler.NewProfileHandler(cfg.Tracker)
	libraryHandler := handler.NewLibraryHandler(cfg.Library, cfg.Catalog)
	gamesHandler := handler.NewGamesHandler(cfg.Catalog)
	sessionHandler := handler.NewSessionHandler(cfg.Tracker, cfg.Clock)
	eventsHandler := handler.NewEventsHandler(cfg.HubManager)

	// Create middleware
	originMiddleware := middleware.Origin(cfg.Manager)
	loggingMiddleware := sharedmw.Logging(cfg.Logger, cfg.HTTPMetrics)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Routes that need no origin
	api.HandleFunc("/health", healthHandler(cfg.Catalog)).Methods(http.MethodGet)
	api.HandleFunc("/origins", originHandler.Create).Methods(http.MethodPost)

	api.HandleFunc("/games", gamesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/featured", gamesHandler.Featured).Methods(http.MethodGet)
	api.HandleFunc("/games/{game_id}", gamesHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/categories", gamesHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{category}/games", gamesHandler.ByCategory).Methods(http.MethodGet)

	// Origin-scoped routes
	scoped := api.NewRoute().Subrouter()
	scoped.Use(originMiddleware)

	scoped.HandleFunc("/profile", profileHandler.Get).Methods(http.MethodGet)
	scoped.HandleFunc("/profile", profileHandler.Update).Methods(http.MethodPatch)
	scoped.HandleFunc("/profile", profileHandler.Delete).Methods(http.MethodDelete)
	scoped.HandleFunc("/profile/stats", profileHandler.Stats).Methods(http.MethodGet)
	scoped.HandleFunc("/profile/storage", profileHandler.Storage).Methods(http.MethodGet)
	scoped.HandleFunc("/profile/preferences", profileHandler.UpdatePreferences).Methods(http.MethodPatch)
	scoped.HandleFunc("/profile/experience", profileHandler.AddExperience).Methods(http.MethodPost)
	scoped.HandleFunc("/profile/achievements", profileHandler.ListAchievements).Methods(http.MethodGet)
	scoped.HandleFunc("/profile/achievements", profileHandler.UnlockAchievement).Methods(http.MethodPost)

	scoped.HandleFunc("/library", libraryHandler.List).Methods(http.MethodGet)
	scoped.HandleFunc("/library/stats", libraryHandler.Stats).Methods(http.MethodGet)
	scoped.HandleFunc("/library/{game_id}", libraryHandler.Add).Methods(http.MethodPost)
	scoped.HandleFunc("/library/{game_id}", libraryHandler.Remove).Methods(http.MethodDelete)
	scoped.HandleFunc("/library/{game_id}/favorite", libraryHandler.ToggleFavorite).Methods(http.MethodPost)
	scoped.HandleFunc("/library/{game_id}/installed", libraryHandler.SetInstalled).Methods(http.MethodPut)

	scoped.HandleFunc("/sessions", sessionHandler.Start).Methods(http.MethodPost)
	scoped.HandleFunc("/sessions/current", sessionHandler.Current).Methods(http.MethodGet)
	scoped.HandleFunc("/sessions/current", sessionHandler.End).Methods(http.MethodDelete)

	scoped.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	return r
}

func healthHandler(c *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := "ok"
		if !c.IsLoaded() || c.FromCache() {
			status = "degraded"
		}
		response.JSON(w, http.StatusOK, response.Health{
			Status:        status,
			CatalogLoaded: c.IsLoaded(),
			CatalogCached: c.FromCache(),
			CatalogGames:  c.Count(),
		})
	}
}
