package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/psconsole/internal/api/response"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
)

// GamesHandler handles catalog endpoints. None of them need an origin.
type GamesHandler struct {
	catalog *catalog.Service
}

// NewGamesHandler creates a new games handler
func NewGamesHandler(catalog *catalog.Service) *GamesHandler {
	return &GamesHandler{
		catalog: catalog,
	}
}

// List handles GET /api/v1/games?section=&q=
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	games, err := h.catalog.Section(model.StoreSection(q.Get("section")), q.Get("q"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Featured handles GET /api/v1/games/featured
func (h *GamesHandler) Featured(w http.ResponseWriter, r *http.Request) {
	game, ok := h.catalog.Featured()
	if !ok {
		WriteError(w, model.ErrGameNotFound)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{game_id}
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.catalog.Get(model.GameID(mux.Vars(r)["game_id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Categories handles GET /api/v1/categories
func (h *GamesHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Categories{Categories: h.catalog.Categories()})
}

// ByCategory handles GET /api/v1/categories/{category}/games
func (h *GamesHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	games := h.catalog.ByCategory(mux.Vars(r)["category"])
	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}
