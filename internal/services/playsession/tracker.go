package playsession

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/profile"
)

// Session is an open play session
type Session struct {
	Origin    model.Origin `json:"origin"`
	GameID    model.GameID `json:"game_id"`
	StartedAt time.Time    `json:"started_at"`
}

// Elapsed returns the whole seconds played so far
func (s Session) Elapsed(now time.Time) int {
	d := int(now.Sub(s.StartedAt) / time.Second)
	return max(d, 0)
}

// Tracker keeps at most one open play session per origin
type Tracker struct {
	catalog  *catalog.Service
	clock    clock.Clock
	metrics  *metrics.StoreMetrics
	notifier profile.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[model.Origin]Session
	ending   map[model.Origin]bool
}

// Option configures a Tracker
type Option func(*Tracker)

// WithNotifier announces session starts; ends are announced by the profile store
func WithNotifier(n profile.Notifier) Option {
	return func(t *Tracker) {
		t.notifier = n
	}
}

// NewTracker creates a new play session tracker
func NewTracker(catalog *catalog.Service, clock clock.Clock, metrics *metrics.StoreMetrics, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		catalog:  catalog,
		clock:    clock,
		metrics:  metrics,
		notifier: profile.NopNotifier{},
		logger:   logger,
		sessions: make(map[model.Origin]Session),
		ending:   make(map[model.Origin]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start opens a session for a catalog game
func (t *Tracker) Start(origin model.Origin, gameID model.GameID) (Session, error) {
	if !t.catalog.Exists(gameID) {
		return Session{}, model.ErrGameNotFound
	}

	t.mu.Lock()
	if _, open := t.sessions[origin]; open {
		t.mu.Unlock()
		return Session{}, model.ErrSessionInProgress
	}
	session := Session{Origin: origin, GameID: gameID, StartedAt: t.clock.Now()}
	t.sessions[origin] = session
	t.metrics.SetActiveSessions(len(t.sessions))
	t.mu.Unlock()

	t.logger.Info("play session started", "origin", string(origin), "game_id", string(gameID))
	t.notifier.Notify(context.Background(), model.ProfileEvent{
		Type:      model.EventPlaySessionStarted,
		Origin:    origin,
		GameID:    gameID,
		Timestamp: session.StartedAt,
	})
	return session, nil
}

// Current returns the open session, if any
func (t *Tracker) Current(origin model.Origin) (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	session, ok := t.sessions[origin]
	return session, ok
}

// End closes the open session and records it on the store exactly once.
// If recording fails the session stays open so the caller can retry.
// The tracker lock is not held while the store writes.
func (t *Tracker) End(ctx context.Context, origin model.Origin, store *profile.Store) (Session, int, error) {
	t.mu.Lock()
	session, open := t.sessions[origin]
	if !open || t.ending[origin] {
		t.mu.Unlock()
		return Session{}, 0, model.ErrNoActiveSession
	}
	t.ending[origin] = true
	seconds := session.Elapsed(t.clock.Now())
	t.mu.Unlock()

	err := store.RecordPlaySession(ctx, session.GameID, seconds)

	t.mu.Lock()
	delete(t.ending, origin)
	if err == nil && t.sessions[origin] == session {
		delete(t.sessions, origin)
	}
	t.metrics.SetActiveSessions(len(t.sessions))
	t.mu.Unlock()

	if err != nil {
		return session, 0, err
	}
	t.logger.Info("play session ended", "origin", string(origin), "game_id", string(session.GameID), "seconds", seconds)
	return session, seconds, nil
}

// Abandon drops the open session without recording it
func (t *Tracker) Abandon(origin model.Origin) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, open := t.sessions[origin]
	delete(t.sessions, origin)
	t.metrics.SetActiveSessions(len(t.sessions))
	return open
}
