package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/web/middleware"
)

// ActionHandler handles the dashboard's form posts.
// Every action sets a flash and redirects back to a screen.
type ActionHandler struct {
	catalog *catalog.Service
	library *library.Service
	tracker *playsession.Tracker
	logger  *slog.Logger
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(catalog *catalog.Service, library *library.Service, tracker *playsession.Tracker, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		catalog: catalog,
		library: library,
		tracker: tracker,
		logger:  logger,
	}
}

func (h *ActionHandler) done(w http.ResponseWriter, r *http.Request, screen, flashType, message string) {
	middleware.SetFlash(w, flashType, message)
	http.Redirect(w, r, "/?screen="+screen, http.StatusSeeOther)
}

func (h *ActionHandler) fail(w http.ResponseWriter, r *http.Request, screen string, err error) {
	message := "Something went wrong"
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		message = "Game not found"
	case errors.Is(err, model.ErrSessionInProgress):
		message = "Stop the current game first"
	case errors.Is(err, model.ErrNoActiveSession):
		message = "No game is running"
	case errors.Is(err, model.ErrInvalidPreference):
		message = "Invalid settings"
	case errors.Is(err, model.ErrQuotaExceeded):
		message = "Console storage is full"
	case errors.Is(err, model.ErrStorageUnavailable):
		message = "Changes could not be saved"
	default:
		h.logger.Error("dashboard action failed", "path", r.URL.Path, "error", err)
	}
	h.done(w, r, screen, "error", message)
}

// AddToLibrary handles POST /library/{game_id}
func (h *ActionHandler) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r.Context())
	added, err := h.library.Add(r.Context(), store, model.GameID(mux.Vars(r)["game_id"]))
	if err != nil {
		h.fail(w, r, "store", err)
		return
	}
	if !added {
		h.done(w, r, "store", "info", "Already in your library")
		return
	}
	h.done(w, r, "store", "success", "Added to your library")
}

// RemoveFromLibrary handles POST /library/{game_id}/remove
func (h *ActionHandler) RemoveFromLibrary(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r.Context())
	if _, err := store.RemoveFromLibrary(r.Context(), model.GameID(mux.Vars(r)["game_id"])); err != nil {
		h.fail(w, r, "library", err)
		return
	}
	h.done(w, r, "library", "success", "Removed from your library")
}

// ToggleFavorite handles POST /library/{game_id}/favorite
func (h *ActionHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["game_id"])
	if !h.catalog.Exists(id) {
		h.fail(w, r, "library", model.ErrGameNotFound)
		return
	}
	store := middleware.GetStore(r.Context())
	favorite, err := store.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.fail(w, r, "library", err)
		return
	}
	message := "Removed from favorites"
	if favorite {
		message = "Added to favorites"
	}
	h.done(w, r, "library", "success", message)
}

// SetInstalled handles POST /library/{game_id}/install and /uninstall
func (h *ActionHandler) SetInstalled(installed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.GameID(mux.Vars(r)["game_id"])
		if !h.catalog.Exists(id) {
			h.fail(w, r, "library", model.ErrGameNotFound)
			return
		}
		store := middleware.GetStore(r.Context())
		if err := store.SetInstalled(r.Context(), id, installed); err != nil {
			h.fail(w, r, "library", err)
			return
		}
		message := "Uninstalled"
		if installed {
			message = "Installed"
		}
		h.done(w, r, "library", "success", message)
	}
}

// Play handles POST /play/{game_id}
func (h *ActionHandler) Play(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r.Context())
	if _, err := h.tracker.Start(store.Origin(), model.GameID(mux.Vars(r)["game_id"])); err != nil {
		h.fail(w, r, "library", err)
		return
	}
	h.done(w, r, "library", "success", "Game started")
}

// Stop handles POST /play/stop
func (h *ActionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r.Context())
	if _, _, err := h.tracker.End(r.Context(), store.Origin(), store); err != nil {
		h.fail(w, r, "library", err)
		return
	}
	h.done(w, r, "library", "success", "Game stopped")
}

// UpdatePreferences handles POST /preferences.
// Empty fields are left unchanged.
func (h *ActionHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, "profile", "error", "Invalid form data")
		return
	}
	store := middleware.GetStore(r.Context())
	updates := make(map[model.PreferenceKey]any, 3)
	for _, key := range []model.PreferenceKey{model.PreferenceTheme, model.PreferenceVolume, model.PreferenceLanguage} {
		if value := r.PostFormValue(string(key)); value != "" {
			updates[key] = value
		}
	}
	if err := store.SetPreferences(r.Context(), updates); err != nil {
		h.fail(w, r, "profile", err)
		return
	}
	h.done(w, r, "profile", "success", "Settings saved")
}

// Logout handles POST /logout: the profile is reset to a fresh guest
func (h *ActionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r.Context())
	if err := store.Reset(r.Context()); err != nil {
		h.fail(w, r, "home", err)
		return
	}
	h.tracker.Abandon(store.Origin())
	h.done(w, r, "home", "info", "Profile reset")
}
