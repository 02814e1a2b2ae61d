package factory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mcoot/psconsole/internal/dependencies/mocks"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
	"github.com/mcoot/psconsole/internal/storage/memory"
	"github.com/mcoot/psconsole/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(func(m *memory.Storage) storage.Storage { return m })
}

// NewTestAppWithStorage is NewTestApp with the memory storage wrapped by wrap,
// for tests that need storage failures
func NewTestAppWithStorage(wrap func(*memory.Storage) storage.Storage) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(wrap(store), mockClock, mockRandom, prometheus.NewRegistry(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// TestCatalog is a small catalog covering each store section and library filter
func TestCatalog() []model.GameRecord {
	return []model.GameRecord{
		{
			ID: "space-runner", Title: "Space Runner", Category: "arcade",
			Description: "Dodge asteroids", Rating: 4.7, Size: "250 MB", Type: model.GameTypeWebGL,
			Featured: true, New: true,
		},
		{
			ID: "puzzle-master", Title: "Puzzle Master", Category: "puzzle",
			Description: "Logic puzzles", Rating: 4.5, Size: "120 MB", Type: model.GameTypeHTML5,
			Featured: true,
		},
		{
			ID: "soccer-champs", Title: "Soccer Champs", Category: "sports",
			Description: "Five-a-side football", Rating: 4.8, Size: "800 MB", Type: model.GameTypeWebGL,
			New: true, Price: decimal.RequireFromString("49.99"), Discount: decimal.NewFromInt(20),
		},
	}
}

// LoadTestCatalog loads TestCatalog into the app's catalog
func (t *TestApp) LoadTestCatalog() {
	t.Catalog.LoadRecords(TestCatalog())
}
