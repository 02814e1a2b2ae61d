package handler

import (
	"net/http"

	"github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/api/request"
	"github.com/mcoot/psconsole/internal/api/response"
	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/profile"
)

// originCookieMaxAge keeps the browser on the same origin for a year
const originCookieMaxAge = 365 * 24 * 60 * 60

// OriginHandler boots console origins
type OriginHandler struct {
	manager *profile.Manager
	random  random.Random
}

// NewOriginHandler creates a new origin handler
func NewOriginHandler(manager *profile.Manager, random random.Random) *OriginHandler {
	return &OriginHandler{
		manager: manager,
		random:  random,
	}
}

// Create handles POST /api/v1/origins.
// The body is optional; without an origin a new one is allocated.
func (h *OriginHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOriginRequest
	if r.ContentLength != 0 {
		if err := request.DecodeJSONBody(r, &req); err != nil {
			WriteError(w, err)
			return
		}
	}

	origin := model.Origin(req.Origin)
	if origin == "" {
		origin = profile.GenerateOrigin(h.random)
	}

	store, err := h.manager.Store(origin)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, recovered := store.Load(r.Context())
	resp := response.Origin{
		Origin:  string(origin),
		Profile: response.ProfileFromModel(p),
	}
	if recovered != nil {
		resp.Recovered = recovered.Error()
	}

	SetOriginCookie(w, origin)
	response.JSON(w, http.StatusCreated, resp)
}

// SetOriginCookie remembers the origin in the browser
func SetOriginCookie(w http.ResponseWriter, origin model.Origin) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.OriginCookie,
		Value:    string(origin),
		Path:     "/",
		MaxAge:   originCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
