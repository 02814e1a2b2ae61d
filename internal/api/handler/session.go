package handler

import (
	"net/http"

	"github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/api/request"
	"github.com/mcoot/psconsole/internal/api/response"
	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/playsession"
)

// SessionHandler handles play session endpoints
type SessionHandler struct {
	tracker *playsession.Tracker
	clock   clock.Clock
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tracker *playsession.Tracker, clock clock.Clock) *SessionHandler {
	return &SessionHandler{
		tracker: tracker,
		clock:   clock,
	}
}

// Start handles POST /api/v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	var req request.StartSessionRequest
	if err := request.DecodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.tracker.Start(store.Origin(), model.GameID(req.GameID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session, h.clock.Now()))
}

// Current handles GET /api/v1/sessions/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	session, ok := h.tracker.Current(store.Origin())
	if !ok {
		WriteError(w, model.ErrNoActiveSession)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session, h.clock.Now()))
}

// End handles DELETE /api/v1/sessions/current.
// The elapsed time is recorded on the profile exactly once.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	session, seconds, err := h.tracker.End(r.Context(), store.Origin(), store)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := store.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionEnded{
		Session:         response.SessionFromModel(session, h.clock.Now()),
		DurationSeconds: seconds,
		TotalPlayTime:   p.TotalPlayTime,
		GamesPlayed:     p.GamesPlayed,
	})
}
