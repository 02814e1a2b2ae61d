package library

import (
	"context"
	"fmt"
	"math"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/profile"
)

// RecentLimit is how many of the most recently added games the recent filter shows
const RecentLimit = 10

// Stats summarizes a library
type Stats struct {
	GameCount   int     `json:"game_count"`
	TotalSizeMB int     `json:"total_size_mb"`
	TotalSizeGB float64 `json:"total_size_gb"`
	SizeLabel   string  `json:"size_label"`
}

// Entry is a library game joined with the user's flags for it
type Entry struct {
	model.GameRecord
	Favorite  bool `json:"favorite"`
	Installed bool `json:"installed"`
}

// Service projects a profile's library onto the catalog
type Service struct {
	catalog *catalog.Service
}

// New creates a new library service
func New(catalog *catalog.Service) *Service {
	return &Service{catalog: catalog}
}

// Games returns the library filtered for display. Ids missing from the
// catalog are skipped here but stay in the stored library.
func (s *Service) Games(ctx context.Context, store *profile.Store, filter model.LibraryFilter) ([]Entry, error) {
	if filter == "" {
		filter = model.FilterAll
	}
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidFilter, filter)
	}

	p, err := store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	games := s.catalog.Resolve(p.Library)
	if filter == model.FilterRecent {
		games = recentGames(games, RecentLimit)
	}

	entries := make([]Entry, 0, len(games))
	for _, g := range games {
		meta := p.GameMeta(g.ID)
		entry := Entry{GameRecord: g, Favorite: meta.Favorite, Installed: meta.Installed}
		switch filter {
		case model.FilterInstalled:
			if !entry.Installed {
				continue
			}
		case model.FilterFavorites:
			if !entry.Favorite {
				continue
			}
		case model.FilterWebGL:
			if g.Type != model.GameTypeWebGL {
				continue
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// recentGames returns the last n resolved games, newest first
func recentGames(games []model.GameRecord, n int) []model.GameRecord {
	start := max(len(games)-n, 0)
	result := make([]model.GameRecord, 0, len(games)-start)
	for i := len(games) - 1; i >= start; i-- {
		result = append(result, games[i])
	}
	return result
}

// Stats sums the catalog sizes of the library games
func (s *Service) Stats(ctx context.Context, store *profile.Store) (Stats, error) {
	p, err := store.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}

	games := s.catalog.Resolve(p.Library)
	total := 0
	for _, g := range games {
		total += g.SizeMB()
	}
	gb := math.Round(float64(total)/1000*10) / 10
	return Stats{
		GameCount:   len(games),
		TotalSizeMB: total,
		TotalSizeGB: gb,
		SizeLabel:   fmt.Sprintf("%.1f GB", gb),
	}, nil
}

// Add checks the game exists in the catalog before adding it to the library
func (s *Service) Add(ctx context.Context, store *profile.Store, id model.GameID) (bool, error) {
	if !s.catalog.Exists(id) {
		return false, fmt.Errorf("%w: %q", model.ErrGameNotFound, id)
	}
	return store.AddToLibrary(ctx, id)
}
