package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/api/request"
	"github.com/mcoot/psconsole/internal/api/response"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/library"
)

// LibraryHandler handles library endpoints
type LibraryHandler struct {
	library *library.Service
	catalog *catalog.Service
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *library.Service, catalog *catalog.Service) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		catalog: catalog,
	}
}

// List handles GET /api/v1/library?filter=
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	filter := model.LibraryFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = model.FilterAll
	}

	entries, err := h.library.Games(r.Context(), store, filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Library{
		Filter: string(filter),
		Games:  response.LibraryFromEntries(entries),
	})
}

// Stats handles GET /api/v1/library/stats
func (h *LibraryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	stats, err := h.library.Stats(r.Context(), store)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// Add handles POST /api/v1/library/{game_id}
func (h *LibraryHandler) Add(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	added, err := h.library.Add(r.Context(), store, gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.LibraryChange{GameID: string(gameID), Changed: added})
}

// Remove handles DELETE /api/v1/library/{game_id}
func (h *LibraryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	removed, err := store.RemoveFromLibrary(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LibraryChange{GameID: string(gameID), Changed: removed})
}

// ToggleFavorite handles POST /api/v1/library/{game_id}/favorite
func (h *LibraryHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	if !h.catalog.Exists(gameID) {
		WriteError(w, fmt.Errorf("%w: %q", model.ErrGameNotFound, gameID))
		return
	}

	if _, err := store.ToggleFavorite(r.Context(), gameID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeFlags(w, r, gameID)
}

// SetInstalled handles PUT /api/v1/library/{game_id}/installed
func (h *LibraryHandler) SetInstalled(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.SetInstalledRequest
	if err := request.DecodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if !h.catalog.Exists(gameID) {
		WriteError(w, fmt.Errorf("%w: %q", model.ErrGameNotFound, gameID))
		return
	}

	if err := store.SetInstalled(r.Context(), gameID, *req.Installed); err != nil {
		WriteError(w, err)
		return
	}

	h.writeFlags(w, r, gameID)
}

func (h *LibraryHandler) writeFlags(w http.ResponseWriter, r *http.Request, gameID model.GameID) {
	p, err := middleware.MustGetStore(r.Context()).Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	meta := p.GameMeta(gameID)
	response.JSON(w, http.StatusOK, response.GameFlags{
		GameID:    string(gameID),
		Favorite:  meta.Favorite,
		Installed: meta.Installed,
	})
}
