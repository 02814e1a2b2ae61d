package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case OriginResult:
		o.printOrigin(v)
	case Profile:
		o.printProfile(v)
	case Preferences:
		o.printPreferences(v)
	case ProfileStats:
		o.printProfileStats(v)
	case Experience:
		fmt.Printf("Level %d (%d/%d exp, %.0f%%)\n", v.Level, v.Exp, v.ExpToNextLevel, v.LevelProgress)
	case []Achievement:
		o.printAchievements(v)
	case AchievementUnlock:
		if v.Unlocked {
			fmt.Println("Achievement unlocked")
		} else {
			fmt.Println("Achievement already unlocked")
		}
	case Library:
		o.printLibrary(v)
	case LibraryStats:
		fmt.Printf("Games: %d\nSize: %s\n", v.GameCount, v.SizeLabel)
	case LibraryChange:
		fmt.Printf("%s: changed=%t\n", v.GameID, v.Changed)
	case GameFlags:
		fmt.Printf("%s: favorite=%t installed=%t\n", v.GameID, v.Favorite, v.Installed)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case Categories:
		for _, c := range v.Categories {
			fmt.Printf("  %-12s %-14s %d games\n", c.ID, c.Name, c.Count)
		}
	case Session:
		fmt.Printf("Playing: %s (%s elapsed)\n", v.GameID, time.Duration(v.ElapsedSeconds)*time.Second)
	case SessionEnded:
		fmt.Printf("Stopped %s after %s\n", v.GameID, time.Duration(v.DurationSeconds)*time.Second)
		fmt.Printf("Total play time: %s, games played: %d\n", time.Duration(v.TotalPlayTime)*time.Second, v.GamesPlayed)
	case HealthResult:
		o.printHealthResult(v)
	case StorageKeys:
		o.printStorageKeys(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// OriginResult response type (matches API)
type OriginResult struct {
	Origin    string  `json:"origin"`
	Profile   Profile `json:"profile"`
	Recovered string  `json:"recovered,omitempty"`
}

// Profile response type
type Profile struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Avatar        string        `json:"avatar"`
	Level         int           `json:"level"`
	Exp           int           `json:"exp"`
	TotalPlayTime int           `json:"total_play_time"`
	GamesPlayed   int           `json:"games_played"`
	Achievements  []Achievement `json:"achievements"`
	Library       []string      `json:"library"`
	Preferences   Preferences   `json:"preferences"`
}

// Preferences response type
type Preferences struct {
	Theme    string `json:"theme"`
	Volume   int    `json:"volume"`
	Language string `json:"language"`
}

// Achievement response type
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Date        string `json:"date"`
}

// AchievementUnlock response type
type AchievementUnlock struct {
	Unlocked     bool          `json:"unlocked"`
	Achievements []Achievement `json:"achievements"`
}

// ProfileStats response type
type ProfileStats struct {
	PlayTimeLabel     string  `json:"play_time_label"`
	GamesOwned        int     `json:"games_owned"`
	GamesPlayed       int     `json:"games_played"`
	AchievementsCount int     `json:"achievements_count"`
	Rating            string  `json:"rating"`
	Level             int     `json:"level"`
	Exp               int     `json:"exp"`
	ExpToNextLevel    int     `json:"exp_to_next_level"`
	LevelProgress     float64 `json:"level_progress"`
}

// Experience response type
type Experience struct {
	Level          int     `json:"level"`
	Exp            int     `json:"exp"`
	ExpToNextLevel int     `json:"exp_to_next_level"`
	LevelProgress  float64 `json:"level_progress"`
}

// Game response type
type Game struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	CategoryName string  `json:"category_name"`
	Rating       float64 `json:"rating"`
	Size         string  `json:"size"`
	Type         string  `json:"type"`
	Free         bool    `json:"free"`
	Price        string  `json:"price"`
	Discount     string  `json:"discount"`
	FinalPrice   string  `json:"final_price"`
}

// LibraryGame response type
type LibraryGame struct {
	Game
	Favorite  bool `json:"favorite"`
	Installed bool `json:"installed"`
}

// Library response type
type Library struct {
	Filter string        `json:"filter"`
	Games  []LibraryGame `json:"games"`
}

// LibraryStats response type
type LibraryStats struct {
	GameCount   int     `json:"game_count"`
	TotalSizeMB int     `json:"total_size_mb"`
	TotalSizeGB float64 `json:"total_size_gb"`
	SizeLabel   string  `json:"size_label"`
}

// LibraryChange response type
type LibraryChange struct {
	GameID  string `json:"game_id"`
	Changed bool   `json:"changed"`
}

// GameFlags response type
type GameFlags struct {
	GameID    string `json:"game_id"`
	Favorite  bool   `json:"favorite"`
	Installed bool   `json:"installed"`
}

// Category response type
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// Categories response type
type Categories struct {
	Categories []Category `json:"categories"`
}

// Session response type
type Session struct {
	Origin         string    `json:"origin"`
	GameID         string    `json:"game_id"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}

// SessionEnded response type
type SessionEnded struct {
	Session
	DurationSeconds int `json:"duration_seconds"`
	TotalPlayTime   int `json:"total_play_time"`
	GamesPlayed     int `json:"games_played"`
}

// HealthResult response type
type HealthResult struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
	CatalogCached bool   `json:"catalog_cached"`
	CatalogGames  int    `json:"catalog_games"`
}

// StorageKeys response type
type StorageKeys struct {
	Origin string   `json:"origin"`
	Keys   []string `json:"keys"`
}

func (o *Output) printOrigin(r OriginResult) {
	fmt.Printf("Origin: %s\n", r.Origin)
	if r.Recovered != "" {
		fmt.Printf("Recovered: %s\n", r.Recovered)
	}
	o.printProfile(r.Profile)
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("Profile: %s (%s)\n", p.Username, p.ID)
	fmt.Printf("Level: %d (%d exp)\n", p.Level, p.Exp)
	fmt.Printf("Play time: %s over %d sessions\n", time.Duration(p.TotalPlayTime)*time.Second, p.GamesPlayed)
	fmt.Printf("Library: %d games\n", len(p.Library))
	fmt.Printf("Achievements: %d\n", len(p.Achievements))
	o.printPreferences(p.Preferences)
}

func (o *Output) printPreferences(p Preferences) {
	fmt.Printf("Theme: %s\nVolume: %d\nLanguage: %s\n", p.Theme, p.Volume, p.Language)
}

func (o *Output) printProfileStats(s ProfileStats) {
	fmt.Printf("Play time: %s\n", s.PlayTimeLabel)
	fmt.Printf("Games owned: %d\n", s.GamesOwned)
	fmt.Printf("Games played: %d\n", s.GamesPlayed)
	fmt.Printf("Achievements: %d\n", s.AchievementsCount)
	fmt.Printf("Rating: %s\n", s.Rating)
	fmt.Printf("Level: %d (%d/%d exp)\n", s.Level, s.Exp, s.ExpToNextLevel)
}

func (o *Output) printAchievements(list []Achievement) {
	if len(list) == 0 {
		fmt.Println("No achievements")
		return
	}
	for _, a := range list {
		fmt.Printf("  [%s] %s - %s\n", a.Date, a.Title, a.Description)
	}
}

func (o *Output) printGame(g Game) {
	price := "free"
	if !g.Free {
		price = "$" + g.FinalPrice
		if g.Discount != "0" {
			price += fmt.Sprintf(" (was $%s, -%s%%)", g.Price, g.Discount)
		}
	}
	fmt.Printf("%s (%s)\n", g.Title, g.ID)
	fmt.Printf("  %s | %s | %.1f | %s | %s\n", g.CategoryName, g.Type, g.Rating, g.Size, price)
	if g.Description != "" {
		fmt.Printf("  %s\n", g.Description)
	}
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		o.printGame(g)
	}
}

func (o *Output) printLibrary(l Library) {
	fmt.Printf("Library (%s): %d games\n", l.Filter, len(l.Games))
	for _, g := range l.Games {
		var flags []string
		if g.Favorite {
			flags = append(flags, "favorite")
		}
		if g.Installed {
			flags = append(flags, "installed")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) %s%s\n", g.Title, g.ID, g.Size, suffix)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Catalog: %d games (loaded=%t cached=%t)\n", h.CatalogGames, h.CatalogLoaded, h.CatalogCached)
}

func (o *Output) printStorageKeys(k StorageKeys) {
	fmt.Printf("Origin: %s\n", k.Origin)
	if len(k.Keys) == 0 {
		fmt.Println("No stored items")
		return
	}
	for _, key := range k.Keys {
		fmt.Printf("  %s\n", key)
	}
}
