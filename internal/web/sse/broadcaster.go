package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/psconsole/internal/model"
)

// ProfileUpdatedEvent is the SSE event name carrying profile events
const ProfileUpdatedEvent = "profile-updated"

// Broadcaster forwards committed profile events to the origin's SSE clients.
// It satisfies profile.Notifier.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify broadcasts the event if anyone is watching the origin
func (b *Broadcaster) Notify(_ context.Context, event model.ProfileEvent) {
	hub := b.hubManager.GetHub(event.Origin)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode profile event",
			slog.String("origin", string(event.Origin)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(ProfileUpdatedEvent, string(data))
}
