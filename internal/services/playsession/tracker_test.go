package playsession

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/psconsole/internal/dependencies/mocks"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/profile"
	"github.com/mcoot/psconsole/internal/storage/memory"
	"github.com/mcoot/psconsole/internal/testutil"
)

type TrackerSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	store   *profile.Store
	tracker *Tracker
	ctx     context.Context
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	storage := memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	cat := catalog.New(storage, logger)
	cat.LoadRecords([]model.GameRecord{{ID: "g1"}, {ID: "g2"}})

	s.store = profile.NewStore("origin-a", storage, s.clock, nil, nil, logger)
	s.tracker = NewTracker(cat, s.clock, nil, logger)
	s.ctx = context.Background()
}

func (s *TrackerSuite) TestStartAndEndRecordsWholeSeconds() {
	_, err := s.tracker.Start("origin-a", "g1")
	s.Require().NoError(err)

	s.clock.Advance(90*time.Second + 700*time.Millisecond)
	session, seconds, err := s.tracker.End(s.ctx, "origin-a", s.store)
	s.Require().NoError(err)
	s.Equal(90, seconds)
	s.Equal(model.GameID("g1"), session.GameID)

	p, _ := s.store.Snapshot(s.ctx)
	s.Equal(90, p.TotalPlayTime)
	s.Equal(1, p.GamesPlayed)
}

func (s *TrackerSuite) TestTwoSessionsAccumulate() {
	_, _ = s.tracker.Start("origin-a", "g1")
	s.clock.Advance(90 * time.Second)
	_, _, _ = s.tracker.End(s.ctx, "origin-a", s.store)

	_, _ = s.tracker.Start("origin-a", "g1")
	s.clock.Advance(30 * time.Second)
	_, _, _ = s.tracker.End(s.ctx, "origin-a", s.store)

	p, _ := s.store.Snapshot(s.ctx)
	s.Equal(120, p.TotalPlayTime)
	s.Equal(2, p.GamesPlayed)
}

func (s *TrackerSuite) TestStartWhileOpenFails() {
	_, err := s.tracker.Start("origin-a", "g1")
	s.Require().NoError(err)

	_, err = s.tracker.Start("origin-a", "g2")
	s.ErrorIs(err, model.ErrSessionInProgress)

	current, ok := s.tracker.Current("origin-a")
	s.True(ok)
	s.Equal(model.GameID("g1"), current.GameID)
}

func (s *TrackerSuite) TestSessionsArePerOrigin() {
	_, err := s.tracker.Start("origin-a", "g1")
	s.Require().NoError(err)
	_, err = s.tracker.Start("origin-b", "g1")
	s.NoError(err)
}

func (s *TrackerSuite) TestStartUnknownGame() {
	_, err := s.tracker.Start("origin-a", "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *TrackerSuite) TestEndWithoutSession() {
	_, _, err := s.tracker.End(s.ctx, "origin-a", s.store)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *TrackerSuite) TestEndRecordsExactlyOnce() {
	_, _ = s.tracker.Start("origin-a", "g1")
	s.clock.Advance(10 * time.Second)

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.tracker.End(s.ctx, "origin-a", s.store)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrNoActiveSession)
		}
	}
	s.Equal(1, succeeded)

	p, _ := s.store.Snapshot(s.ctx)
	s.Equal(1, p.GamesPlayed)
	s.Equal(10, p.TotalPlayTime)
}

func (s *TrackerSuite) TestAbandonDoesNotRecord() {
	_, _ = s.tracker.Start("origin-a", "g1")

	s.True(s.tracker.Abandon("origin-a"))
	s.False(s.tracker.Abandon("origin-a"))

	_, ok := s.tracker.Current("origin-a")
	s.False(ok)
	p, _ := s.store.Snapshot(s.ctx)
	s.Equal(0, p.GamesPlayed)
}

func (s *TrackerSuite) TestClockGoingBackwardsRecordsZero() {
	_, _ = s.tracker.Start("origin-a", "g1")
	s.clock.Advance(-time.Minute)

	_, seconds, err := s.tracker.End(s.ctx, "origin-a", s.store)
	s.Require().NoError(err)
	s.Equal(0, seconds)
}

type captureNotifier struct {
	mu     sync.Mutex
	events []model.ProfileEvent
}

func (c *captureNotifier) Notify(_ context.Context, e model.ProfileEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (s *TrackerSuite) TestStartAnnouncesSession() {
	n := &captureNotifier{}
	storage := memory.New()
	cat := catalog.New(storage, testutil.NopLogger())
	cat.LoadRecords([]model.GameRecord{{ID: "g1"}})
	tracker := NewTracker(cat, s.clock, nil, testutil.NopLogger(), WithNotifier(n))

	_, err := tracker.Start("origin-a", "g1")
	s.Require().NoError(err)

	s.Require().Len(n.events, 1)
	s.Equal(model.EventPlaySessionStarted, n.events[0].Type)
	s.Equal(model.Origin("origin-a"), n.events[0].Origin)
	s.Equal(model.GameID("g1"), n.events[0].GameID)

	_, err = tracker.Start("origin-a", "g1")
	s.ErrorIs(err, model.ErrSessionInProgress)
	s.Len(n.events, 1, "rejected starts are not announced")
}

// blockingStorage holds every write until release is closed
type blockingStorage struct {
	*memory.Storage
	writing chan struct{}
	release chan struct{}
}

func (b *blockingStorage) SetItem(ctx context.Context, origin model.Origin, key string, value []byte) error {
	b.writing <- struct{}{}
	<-b.release
	return b.Storage.SetItem(ctx, origin, key, value)
}

func (s *TrackerSuite) TestEndDoesNotBlockOtherOrigins() {
	logger := testutil.NopLogger()
	storage := &blockingStorage{Storage: memory.New(), writing: make(chan struct{}, 1), release: make(chan struct{})}
	slow := profile.NewStore("origin-slow", storage, s.clock, nil, nil, logger)
	_, _ = s.tracker.Start("origin-slow", "g1")

	done := make(chan error, 1)
	go func() {
		_, _, err := s.tracker.End(s.ctx, "origin-slow", slow)
		done <- err
	}()
	<-storage.writing

	// While the slow write is pending, other origins and a second End are served
	_, err := s.tracker.Start("origin-b", "g2")
	s.Require().NoError(err)
	_, ok := s.tracker.Current("origin-b")
	s.True(ok)
	_, _, err = s.tracker.End(s.ctx, "origin-slow", slow)
	s.ErrorIs(err, model.ErrNoActiveSession)

	close(storage.release)
	s.Require().NoError(<-done)
	_, ok = s.tracker.Current("origin-slow")
	s.False(ok)
}
