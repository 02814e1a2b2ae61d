package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ProfileStorageKey is the single storage key holding the whole profile record
const ProfileStorageKey = "ps_console_user"

// CurrentSchemaVersion is written into every persisted profile
const CurrentSchemaVersion = 1

// Profile defaults for a fresh guest
const (
	DefaultUsername = "ضيف"
	DefaultVolume   = 80

	// ExpPerLevel multiplied by the current level gives the level-up threshold
	ExpPerLevel = 1000

	MaxUsernameLength = 32
)

// Theme is a UI colour scheme preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Language is a UI language preference
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// PreferenceKey names one of the enumerated preferences
type PreferenceKey string

const (
	PreferenceTheme    PreferenceKey = "theme"
	PreferenceVolume   PreferenceKey = "volume"
	PreferenceLanguage PreferenceKey = "language"
)

// Avatars maps the selectable avatar names to their image paths
var Avatars = map[string]string{
	"default": "assets/images/default-avatar.png",
	"avatar1": "assets/images/avatars/avatar1.png",
	"avatar2": "assets/images/avatars/avatar2.png",
	"avatar3": "assets/images/avatars/avatar3.png",
}

// DefaultAvatar is the image path given to new guests
var DefaultAvatar = Avatars["default"]

// Volume is a 0-100 sound level.
// Older records stored it as a string, so both encodings are accepted.
type Volume int

// VolumeUnset marks a stored volume that was null, empty or not a number.
// Normalize replaces it with DefaultVolume.
const VolumeUnset Volume = math.MinInt32

// UnmarshalJSON accepts a JSON number or a numeric string. Values that carry
// no usable number decode to VolumeUnset rather than failing the record.
func (v *Volume) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("volume: %w", err)
		}
		n = json.Number(strings.TrimSpace(s))
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*v = VolumeUnset
		return nil
	}
	*v = Volume(math.Round(f))
	return nil
}

// Valid reports whether the volume is within 0-100
func (v Volume) Valid() bool {
	return v >= 0 && v <= 100
}

// Preferences holds the user's UI preferences
type Preferences struct {
	Theme    Theme    `json:"theme"`
	Volume   Volume   `json:"volume"`
	Language Language `json:"language"`
}

// DefaultPreferences returns the preferences given to new guests
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:    ThemeDark,
		Volume:   DefaultVolume,
		Language: LanguageArabic,
	}
}

// Achievement is an unlocked milestone
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Date        string `json:"date"`
}

// GameMeta holds per-user flags for a single game
type GameMeta struct {
	Favorite  bool `json:"favorite,omitempty"`
	Installed bool `json:"installed,omitempty"`
}

// IsZero reports whether no flag is set
func (m GameMeta) IsZero() bool {
	return !m.Favorite && !m.Installed
}

// UserProfile is the persisted state of one console user
type UserProfile struct {
	SchemaVersion int                 `json:"schemaVersion"`
	ID            string              `json:"id"`
	Username      string              `json:"username"`
	Avatar        string              `json:"avatar"`
	Level         int                 `json:"level"`
	Exp           int                 `json:"exp"`
	TotalPlayTime int                 `json:"totalPlayTime"`
	GamesPlayed   int                 `json:"gamesPlayed"`
	Achievements  []Achievement       `json:"achievements"`
	Library       []GameID            `json:"library"`
	Preferences   Preferences         `json:"preferences"`
	Games         map[GameID]GameMeta `json:"games,omitempty"`
}

// NewGuestProfile builds the default guest profile created on first load
func NewGuestProfile(now time.Time) *UserProfile {
	return &UserProfile{
		SchemaVersion: CurrentSchemaVersion,
		ID:            "guest_" + strconv.FormatInt(now.UnixMilli(), 10),
		Username:      DefaultUsername,
		Avatar:        DefaultAvatar,
		Level:         1,
		Exp:           0,
		Achievements:  []Achievement{},
		Library:       []GameID{},
		Preferences:   DefaultPreferences(),
	}
}

// Clone returns a deep copy
func (p *UserProfile) Clone() *UserProfile {
	cp := *p
	cp.Achievements = append([]Achievement{}, p.Achievements...)
	cp.Library = append([]GameID{}, p.Library...)
	if p.Games != nil {
		cp.Games = make(map[GameID]GameMeta, len(p.Games))
		for id, meta := range p.Games {
			cp.Games[id] = meta
		}
	}
	return &cp
}

// Normalize repairs a decoded record so that every invariant holds.
// It reports whether anything had to change.
func (p *UserProfile) Normalize() bool {
	changed := false

	if p.SchemaVersion < CurrentSchemaVersion {
		p.SchemaVersion = CurrentSchemaVersion
		changed = true
	}
	if strings.TrimSpace(p.Username) == "" {
		p.Username = DefaultUsername
		changed = true
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
		changed = true
	}
	if p.Level < 1 {
		p.Level = 1
		changed = true
	}
	for _, n := range []*int{&p.Exp, &p.TotalPlayTime, &p.GamesPlayed} {
		if *n < 0 {
			*n = 0
			changed = true
		}
	}
	if p.Achievements == nil {
		p.Achievements = []Achievement{}
		changed = true
	}

	// Collapse duplicate library entries, keeping first-add order
	seen := make(map[GameID]struct{}, len(p.Library))
	library := make([]GameID, 0, len(p.Library))
	for _, id := range p.Library {
		if _, dup := seen[id]; dup || id == "" {
			changed = true
			continue
		}
		seen[id] = struct{}{}
		library = append(library, id)
	}
	p.Library = library

	defaults := DefaultPreferences()
	if p.Preferences.Theme == "" {
		p.Preferences.Theme = defaults.Theme
		changed = true
	}
	if p.Preferences.Language == "" {
		p.Preferences.Language = defaults.Language
		changed = true
	}
	if p.Preferences.Volume == VolumeUnset {
		p.Preferences.Volume = defaults.Volume
		changed = true
	}
	if !p.Preferences.Volume.Valid() {
		p.Preferences.Volume = Volume(min(max(int(p.Preferences.Volume), 0), 100))
		changed = true
	}

	for id, meta := range p.Games {
		if meta.IsZero() {
			delete(p.Games, id)
			changed = true
		}
	}

	return changed
}

// HasGame reports whether the game is in the library
func (p *UserProfile) HasGame(id GameID) bool {
	for _, g := range p.Library {
		if g == id {
			return true
		}
	}
	return false
}

// GameMeta returns the per-user flags for a game
func (p *UserProfile) GameMeta(id GameID) GameMeta {
	return p.Games[id]
}

// SetGameMeta stores per-user flags, dropping empty entries
func (p *UserProfile) SetGameMeta(id GameID, meta GameMeta) {
	if meta.IsZero() {
		delete(p.Games, id)
		return
	}
	if p.Games == nil {
		p.Games = make(map[GameID]GameMeta)
	}
	p.Games[id] = meta
}

// ExpToNextLevel returns the cumulative experience needed for the next level
func (p *UserProfile) ExpToNextLevel() int {
	return p.Level * ExpPerLevel
}

// LevelProgress returns the progress towards the next level as a percentage
func (p *UserProfile) LevelProgress() float64 {
	needed := p.ExpToNextLevel()
	if needed <= 0 {
		return 0
	}
	return math.Min(float64(p.Exp)/float64(needed)*100, 100)
}

// HasAchievement reports whether an achievement with the title is unlocked
func (p *UserProfile) HasAchievement(title string) bool {
	for _, a := range p.Achievements {
		if a.Title == title {
			return true
		}
	}
	return false
}

// Rating is the displayed player rating derived from profile activity
func (p *UserProfile) Rating() float64 {
	rating := 5.0
	if p.TotalPlayTime > 100 {
		rating++
	}
	if len(p.Achievements) > 10 {
		rating++
	}
	if len(p.Library) > 20 {
		rating++
	}
	return rating
}
