package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
)

// CacheKey is where the last good catalog is kept in the system origin
const CacheKey = "catalog"

// Service is the read-only game catalog. Callers always receive copies.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu        sync.RWMutex
	games     []model.GameRecord
	byID      map[model.GameID]int
	loaded    bool
	fromCache bool
}

// New creates a new catalog service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		byID:    make(map[model.GameID]int),
	}
}

// LoadFromFile loads the catalog from a JSON array file and caches it.
// If the file cannot be used, the cached copy is loaded instead; if that
// fails too the catalog is left empty and the error wraps ErrCatalogUnavailable.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	fileErr := s.loadFile(ctx, path)
	if fileErr == nil {
		return nil
	}

	s.logger.Warn("catalog file unusable, trying cache", "path", path, "error", fileErr)
	if cacheErr := s.LoadFromStorage(ctx); cacheErr != nil {
		s.loadRecords(nil, false)
		return fmt.Errorf("%w: %w", model.ErrCatalogUnavailable, errors.Join(fileErr, cacheErr))
	}
	return nil
}

func (s *Service) loadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	records, err := parse(data)
	if err != nil {
		return err
	}

	// Save to storage for future use
	if err := s.storage.SetItem(ctx, model.SystemOrigin, CacheKey, data); err != nil {
		s.logger.Warn("could not cache catalog", "error", err)
	}

	s.loadRecords(records, false)
	s.logger.Info("catalog loaded", "path", path, "games", len(records))
	return nil
}

// LoadFromStorage loads the cached catalog
func (s *Service) LoadFromStorage(ctx context.Context) error {
	data, err := s.storage.GetItem(ctx, model.SystemOrigin, CacheKey)
	if err != nil {
		return err
	}
	records, err := parse(data)
	if err != nil {
		return err
	}
	s.loadRecords(records, true)
	s.logger.Info("catalog loaded from cache", "games", len(records))
	return nil
}

// LoadRecords directly loads records (useful for testing)
func (s *Service) LoadRecords(records []model.GameRecord) {
	s.loadRecords(records, false)
}

func parse(data []byte) ([]model.GameRecord, error) {
	var records []model.GameRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return records, nil
}

func (s *Service) loadRecords(records []model.GameRecord, fromCache bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make([]model.GameRecord, 0, len(records))
	s.byID = make(map[model.GameID]int, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		// First occurrence wins
		if _, dup := s.byID[r.ID]; dup {
			continue
		}
		s.byID[r.ID] = len(s.games)
		s.games = append(s.games, r.Clone())
	}
	s.loaded = true
	s.fromCache = fromCache
}

// IsLoaded returns whether a load has completed
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// FromCache reports whether the current catalog came from the storage cache
func (s *Service) FromCache() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fromCache
}

// Count returns the number of games
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// All returns every game in catalog order
func (s *Service) All() []model.GameRecord {
	return s.filter(func(model.GameRecord) bool { return true })
}

// Get returns a single game
func (s *Service) Get(id model.GameID) (model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return model.GameRecord{}, model.ErrGameNotFound
	}
	return s.games[idx].Clone(), nil
}

// Exists reports whether the id is in the catalog
func (s *Service) Exists(id model.GameID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// Featured returns the first featured game, else the first game
func (s *Service) Featured() (model.GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.games {
		if g.Featured {
			return g.Clone(), true
		}
	}
	if len(s.games) > 0 {
		return s.games[0].Clone(), true
	}
	return model.GameRecord{}, false
}

// Recent returns the first n games
func (s *Service) Recent(n int) []model.GameRecord {
	return limit(s.All(), n)
}

// Recommended returns the first n featured games
func (s *Service) Recommended(n int) []model.GameRecord {
	return limit(s.filter(func(g model.GameRecord) bool { return g.Featured }), n)
}

// Section returns the games of a store section, filtered by a
// case-insensitive search over title, description and category
func (s *Service) Section(section model.StoreSection, query string) ([]model.GameRecord, error) {
	if section == "" {
		section = model.SectionFeatured
	}
	if !section.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidSection, section)
	}

	var games []model.GameRecord
	switch section {
	case model.SectionNew:
		games = s.filter(func(g model.GameRecord) bool { return g.New })
	case model.SectionFree:
		games = s.filter(func(g model.GameRecord) bool { return g.IsFree() })
	case model.SectionTop:
		games = s.All()
		sort.SliceStable(games, func(i, j int) bool { return games[i].Rating > games[j].Rating })
	default:
		games = s.All()
	}

	return Search(games, query), nil
}

// Search filters games by a case-insensitive substring of title, description or category
func Search(games []model.GameRecord, query string) []model.GameRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return games
	}
	result := make([]model.GameRecord, 0, len(games))
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Title), q) ||
			strings.Contains(strings.ToLower(g.Description), q) ||
			strings.Contains(strings.ToLower(g.Category), q) {
			result = append(result, g)
		}
	}
	return result
}

// Categories returns the categories present in the catalog with game counts,
// ordered by first appearance
func (s *Service) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	var categories []model.Category
	for _, g := range s.games {
		if g.Category == "" {
			continue
		}
		if i, ok := index[g.Category]; ok {
			categories[i].Count++
			continue
		}
		index[g.Category] = len(categories)
		categories = append(categories, model.Category{
			ID:    g.Category,
			Name:  model.CategoryName(g.Category),
			Icon:  categoryIcon(g.Category),
			Count: 1,
		})
	}
	if categories == nil {
		return []model.Category{}
	}
	return categories
}

func categoryIcon(id string) string {
	if icon, ok := model.CategoryIcons[id]; ok {
		return icon
	}
	return "fa-gamepad"
}

// ByCategory returns the games in a category
func (s *Service) ByCategory(category string) []model.GameRecord {
	return s.filter(func(g model.GameRecord) bool { return g.Category == category })
}

// Resolve maps ids to records in the given order, skipping unknown ids
func (s *Service) Resolve(ids []model.GameID) []model.GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.GameRecord, 0, len(ids))
	for _, id := range ids {
		if idx, ok := s.byID[id]; ok {
			result = append(result, s.games[idx].Clone())
		}
	}
	return result
}

func (s *Service) filter(keep func(model.GameRecord) bool) []model.GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.GameRecord, 0, len(s.games))
	for _, g := range s.games {
		if keep(g) {
			result = append(result, g.Clone())
		}
	}
	return result
}

func limit(games []model.GameRecord, n int) []model.GameRecord {
	if n >= 0 && len(games) > n {
		return games[:n]
	}
	return games
}
