package handler

import (
	"net/http"

	"github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/web/sse"
)

// EventsHandler streams profile events for the request's origin
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		hubManager: hubManager,
	}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	hub := h.hubManager.GetOrCreateHub(store.Origin())
	sse.ServeSSE(w, r, hub)
}
