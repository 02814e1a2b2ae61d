package profile

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
)

const (
	originPrefix   = "console-"
	originAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	originLength   = 12
)

// GenerateOrigin allocates a fresh origin id for a console that has none
func GenerateOrigin(r random.Random) model.Origin {
	return model.Origin(originPrefix + r.String(originLength, originAlphabet))
}

// Manager owns one Store per origin
type Manager struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier Notifier
	metrics  *metrics.StoreMetrics
	logger   *slog.Logger

	mu       sync.Mutex
	stores   map[model.Origin]*Store
	lastUsed map[model.Origin]time.Time
}

// NewManager creates a new store registry
func NewManager(
	storage storage.Storage,
	clock clock.Clock,
	notifier Notifier,
	metrics *metrics.StoreMetrics,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		stores:   make(map[model.Origin]*Store),
		lastUsed: make(map[model.Origin]time.Time),
	}
}

// Store returns the store for the origin, creating it on first use.
// The returned store has not necessarily been loaded.
func (m *Manager) Store(origin model.Origin) (*Store, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUsed[origin] = m.clock.Now()
	if s, ok := m.stores[origin]; ok {
		return s, nil
	}
	s := NewStore(origin, m.storage, m.clock, m.notifier, m.metrics, m.logger)
	m.stores[origin] = s
	m.metrics.SetActiveOrigins(len(m.stores))
	return s, nil
}

// Open returns the store for the origin after making sure it has been loaded.
// Recovered load conditions are logged, not returned.
func (m *Manager) Open(ctx context.Context, origin model.Origin) (*Store, error) {
	s, err := m.Store(origin)
	if err != nil {
		return nil, err
	}
	select {
	case <-s.Ready():
	default:
		if _, err := s.Load(ctx); err != nil {
			m.logger.Warn("profile load recovered", "origin", string(origin), "error", err)
		}
	}
	return s, nil
}

// Origins lists the origins with a store, sorted
func (m *Manager) Origins() []model.Origin {
	m.mu.Lock()
	defer m.mu.Unlock()
	origins := make([]model.Origin, 0, len(m.stores))
	for o := range m.stores {
		origins = append(origins, o)
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })
	return origins
}

// Forget drops the in-memory store for an origin; persisted data is kept
func (m *Manager) Forget(origin model.Origin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, origin)
	delete(m.lastUsed, origin)
	m.metrics.SetActiveOrigins(len(m.stores))
}

// EvictIdle forgets stores that have not been handed out for at least idle,
// skipping origins for which busy returns true. It returns how many were dropped.
func (m *Manager) EvictIdle(idle time.Duration, busy func(model.Origin) bool) int {
	cutoff := m.clock.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for origin := range m.stores {
		if m.lastUsed[origin].After(cutoff) {
			continue
		}
		if busy != nil && busy(origin) {
			continue
		}
		delete(m.stores, origin)
		delete(m.lastUsed, origin)
		evicted++
	}
	if evicted > 0 {
		m.metrics.SetActiveOrigins(len(m.stores))
		m.logger.Info("idle profile stores evicted", "evicted", evicted, "remaining", len(m.stores))
	}
	return evicted
}
