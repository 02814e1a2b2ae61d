package profile

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/psconsole/internal/dependencies/mocks"
	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage/memory"
	"github.com/mcoot/psconsole/internal/testutil"
)

func newTestManager() *Manager {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewManager(memory.New(), clk, nil, metrics.NewStoreMetrics(prometheus.NewRegistry()), testutil.NopLogger())
}

func TestManagerReturnsSameStorePerOrigin(t *testing.T) {
	m := newTestManager()

	a1, err := m.Store("origin-a")
	require.NoError(t, err)
	a2, err := m.Store("origin-a")
	require.NoError(t, err)
	b, err := m.Store("origin-b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, []model.Origin{"origin-a", "origin-b"}, m.Origins())
}

func TestManagerRejectsInvalidOrigins(t *testing.T) {
	m := newTestManager()

	for _, origin := range []model.Origin{"", "_system", "has space", "slash/origin", model.Origin(make([]byte, 65))} {
		_, err := m.Store(origin)
		assert.ErrorIs(t, err, model.ErrInvalidOrigin, "origin %q", origin)
	}
}

func TestManagerOpenLoadsOnce(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	s, err := m.Open(ctx, "origin-a")
	require.NoError(t, err)
	_, err = s.AddToLibrary(ctx, "g1")
	require.NoError(t, err)

	again, err := m.Open(ctx, "origin-a")
	require.NoError(t, err)
	p, err := again.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.GameID{"g1"}, p.Library)
}

func TestManagerOriginsAreIsolated(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	a, _ := m.Open(ctx, "origin-a")
	b, _ := m.Open(ctx, "origin-b")
	_, _ = a.AddToLibrary(ctx, "g1")

	p, _ := b.Snapshot(ctx)
	assert.Empty(t, p.Library)
}

func TestManagerForgetKeepsPersistedData(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	a, _ := m.Open(ctx, "origin-a")
	_, _ = a.AddToLibrary(ctx, "g1")

	m.Forget("origin-a")
	assert.Empty(t, m.Origins())

	reopened, err := m.Open(ctx, "origin-a")
	require.NoError(t, err)
	assert.NotSame(t, a, reopened)
	p, _ := reopened.Snapshot(ctx)
	assert.Equal(t, []model.GameID{"g1"}, p.Library)
}

func TestManagerEvictIdle(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	m := NewManager(memory.New(), clk, nil, nil, testutil.NopLogger())
	ctx := context.Background()

	old, err := m.Open(ctx, "origin-old")
	require.NoError(t, err)
	_, _ = old.AddToLibrary(ctx, "g1")
	_, _ = m.Open(ctx, "origin-busy")

	clk.Advance(20 * time.Minute)
	_, _ = m.Open(ctx, "origin-fresh")

	evicted := m.EvictIdle(15*time.Minute, func(origin model.Origin) bool {
		return origin == "origin-busy"
	})

	assert.Equal(t, 1, evicted)
	assert.Equal(t, []model.Origin{"origin-busy", "origin-fresh"}, m.Origins())

	// Persisted data comes back with a new store
	reopened, err := m.Open(ctx, "origin-old")
	require.NoError(t, err)
	assert.NotSame(t, old, reopened)
	p, _ := reopened.Snapshot(ctx)
	assert.Equal(t, []model.GameID{"g1"}, p.Library)
}

func TestManagerEvictIdleCountsUseNotCreation(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	m := NewManager(memory.New(), clk, nil, nil, testutil.NopLogger())

	_, _ = m.Store("origin-a")
	clk.Advance(10 * time.Minute)
	_, _ = m.Store("origin-a")
	clk.Advance(10 * time.Minute)

	assert.Equal(t, 0, m.EvictIdle(15*time.Minute, nil))
	assert.Equal(t, []model.Origin{"origin-a"}, m.Origins())
}

func TestGenerateOrigin(t *testing.T) {
	r := mocks.NewMockRandom()
	r.StringResults = []string{"abc123def456"}

	origin := GenerateOrigin(r)

	assert.Equal(t, model.Origin("console-abc123def456"), origin)
	assert.NoError(t, origin.Validate())
}

func TestGenerateOriginIsValidWithRealRandom(t *testing.T) {
	origin := GenerateOrigin(random.New())
	assert.NoError(t, origin.Validate())
	assert.Len(t, string(origin), len("console-")+12)
}
