package response

import (
	"time"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/services/profile"
)

// Health is the response for the health endpoint
type Health struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
	CatalogCached bool   `json:"catalog_cached"`
	CatalogGames  int    `json:"catalog_games"`
}

// Profile is the API view of a user profile
type Profile struct {
	ID            string              `json:"id"`
	Username      string              `json:"username"`
	Avatar        string              `json:"avatar"`
	Level         int                 `json:"level"`
	Exp           int                 `json:"exp"`
	TotalPlayTime int                 `json:"total_play_time"`
	GamesPlayed   int                 `json:"games_played"`
	Achievements  []model.Achievement `json:"achievements"`
	Library       []string            `json:"library"`
	Preferences   Preferences         `json:"preferences"`
}

// Preferences is the API view of the UI preferences
type Preferences struct {
	Theme    string `json:"theme"`
	Volume   int    `json:"volume"`
	Language string `json:"language"`
}

// PreferencesFromModel converts model.Preferences
func PreferencesFromModel(p model.Preferences) Preferences {
	return Preferences{
		Theme:    string(p.Theme),
		Volume:   int(p.Volume),
		Language: string(p.Language),
	}
}

// ProfileFromModel converts a model.UserProfile to a response Profile
func ProfileFromModel(p *model.UserProfile) Profile {
	lib := make([]string, len(p.Library))
	for i, id := range p.Library {
		lib[i] = string(id)
	}
	achievements := p.Achievements
	if achievements == nil {
		achievements = []model.Achievement{}
	}
	return Profile{
		ID:            p.ID,
		Username:      p.Username,
		Avatar:        p.Avatar,
		Level:         p.Level,
		Exp:           p.Exp,
		TotalPlayTime: p.TotalPlayTime,
		GamesPlayed:   p.GamesPlayed,
		Achievements:  achievements,
		Library:       lib,
		Preferences:   PreferencesFromModel(p.Preferences),
	}
}

// Origin is the response after booting a console origin
type Origin struct {
	Origin  string  `json:"origin"`
	Profile Profile `json:"profile"`
	// Recovered names a condition recovered from while loading, if any
	Recovered string `json:"recovered,omitempty"`
}

// Game is the API view of a catalog game
type Game struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Icon         string   `json:"icon"`
	Category     string   `json:"category"`
	CategoryName string   `json:"category_name"`
	Rating       float64  `json:"rating"`
	Size         string   `json:"size"`
	Players      string   `json:"players"`
	Type         string   `json:"type"`
	Featured     bool     `json:"featured"`
	New          bool     `json:"new"`
	Free         bool     `json:"free"`
	Price        string   `json:"price"`
	Discount     string   `json:"discount"`
	FinalPrice   string   `json:"final_price"`
	Requirements []string `json:"requirements,omitempty"`
}

// GameFromModel converts a model.GameRecord
func GameFromModel(g model.GameRecord) Game {
	return Game{
		ID:           string(g.ID),
		Title:        g.Title,
		Description:  g.Description,
		Image:        g.Image,
		Icon:         g.Icon,
		Category:     g.Category,
		CategoryName: model.CategoryName(g.Category),
		Rating:       g.Rating,
		Size:         g.Size,
		Players:      g.Players,
		Type:         string(g.Type),
		Featured:     g.Featured,
		New:          g.New,
		Free:         g.IsFree(),
		Price:        g.Price.StringFixed(2),
		Discount:     g.Discount.String(),
		FinalPrice:   g.FinalPrice().StringFixed(2),
		Requirements: g.Requirements,
	}
}

// GamesFromModel converts a slice of catalog games
func GamesFromModel(games []model.GameRecord) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}

// LibraryGame is a library entry with the user's flags
type LibraryGame struct {
	Game
	Favorite  bool `json:"favorite"`
	Installed bool `json:"installed"`
}

// LibraryFromEntries converts library entries
func LibraryFromEntries(entries []library.Entry) []LibraryGame {
	out := make([]LibraryGame, len(entries))
	for i, e := range entries {
		out[i] = LibraryGame{
			Game:      GameFromModel(e.GameRecord),
			Favorite:  e.Favorite,
			Installed: e.Installed,
		}
	}
	return out
}

// Library is the response for GET /library
type Library struct {
	Filter string        `json:"filter"`
	Games  []LibraryGame `json:"games"`
}

// LibraryChange is the response after adding or removing a library game
type LibraryChange struct {
	GameID  string `json:"game_id"`
	Changed bool   `json:"changed"`
}

// GameFlags is the response after changing per-game flags
type GameFlags struct {
	GameID    string `json:"game_id"`
	Favorite  bool   `json:"favorite"`
	Installed bool   `json:"installed"`
}

// Stats is the response for GET /profile/stats
type Stats = profile.Stats

// LibraryStats is the response for GET /library/stats
type LibraryStats = library.Stats

// Experience is the response after adding experience
type Experience struct {
	Level          int     `json:"level"`
	Exp            int     `json:"exp"`
	ExpToNextLevel int     `json:"exp_to_next_level"`
	LevelProgress  float64 `json:"level_progress"`
}

// AchievementUnlock is the response after unlocking an achievement
type AchievementUnlock struct {
	Unlocked     bool                `json:"unlocked"`
	Achievements []model.Achievement `json:"achievements"`
}

// Session is the API view of a play session
type Session struct {
	Origin         string    `json:"origin"`
	GameID         string    `json:"game_id"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// SessionFromModel converts a playsession.Session
func SessionFromModel(s playsession.Session, now time.Time) Session {
	return Session{
		Origin:         string(s.Origin),
		GameID:         string(s.GameID),
		StartedAt:      s.StartedAt,
		ElapsedSeconds: s.Elapsed(now),
	}
}

// SessionEnded is the response after ending a play session
type SessionEnded struct {
	Session
	DurationSeconds int `json:"duration_seconds"`
	TotalPlayTime   int `json:"total_play_time"`
	GamesPlayed     int `json:"games_played"`
}

// Categories is the response for GET /categories
type Categories struct {
	Categories []model.Category `json:"categories"`
}

// StorageKeys lists what an origin holds in storage
type StorageKeys struct {
	Origin string   `json:"origin"`
	Keys   []string `json:"keys"`
}
