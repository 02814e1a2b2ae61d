package model

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// GameID uniquely identifies a catalog game
type GameID string

// GameType distinguishes how a game is launched
type GameType string

const (
	GameTypeWebGL GameType = "webgl"
	GameTypeHTML5 GameType = "html5"
)

// GameRecord is a read-only catalog entry
type GameRecord struct {
	ID           GameID          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Icon         string          `json:"icon"`
	Category     string          `json:"category"`
	Rating       float64         `json:"rating"`
	Size         string          `json:"size"`
	Players      string          `json:"players"`
	Type         GameType        `json:"type"`
	Featured     bool            `json:"featured"`
	New          bool            `json:"new"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	Requirements []string        `json:"requirements,omitempty"`
}

// Clone returns a copy that shares nothing with the receiver
func (g GameRecord) Clone() GameRecord {
	g.Requirements = append([]string(nil), g.Requirements...)
	return g
}

// IsFree reports whether the game has no price
func (g GameRecord) IsFree() bool {
	return g.Price.IsZero()
}

// FinalPrice applies the percentage discount to the price
func (g GameRecord) FinalPrice() decimal.Decimal {
	if g.Discount.IsZero() {
		return g.Price
	}
	hundred := decimal.NewFromInt(100)
	return g.Price.Mul(hundred.Sub(g.Discount)).Div(hundred).Round(2)
}

// SizeMB returns the leading integer of the size label ("250 MB" -> 250).
// Labels without a leading number count as zero.
func (g GameRecord) SizeMB() int {
	s := strings.TrimSpace(g.Size)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// StoreSection is one of the store screen tabs
type StoreSection string

const (
	SectionFeatured   StoreSection = "featured"
	SectionNew        StoreSection = "new"
	SectionTop        StoreSection = "top"
	SectionFree       StoreSection = "free"
	SectionCategories StoreSection = "categories"
)

// Valid reports whether the section is known
func (s StoreSection) Valid() bool {
	switch s {
	case SectionFeatured, SectionNew, SectionTop, SectionFree, SectionCategories:
		return true
	}
	return false
}

// LibraryFilter is one of the library screen filters
type LibraryFilter string

const (
	FilterAll       LibraryFilter = "all"
	FilterInstalled LibraryFilter = "installed"
	FilterRecent    LibraryFilter = "recent"
	FilterFavorites LibraryFilter = "favorites"
	FilterWebGL     LibraryFilter = "webgl"
)

// Valid reports whether the filter is known
func (f LibraryFilter) Valid() bool {
	switch f {
	case FilterAll, FilterInstalled, FilterRecent, FilterFavorites, FilterWebGL:
		return true
	}
	return false
}

// Category is a derived store category
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// CategoryNames holds display names for the known categories
var CategoryNames = map[string]string{
	"action":     "أكشن",
	"adventure":  "مغامرة",
	"sports":     "رياضة",
	"racing":     "سباق",
	"puzzle":     "ألغاز",
	"strategy":   "إستراتيجية",
	"arcade":     "أركيد",
	"simulation": "محاكاة",
}

// CategoryIcons holds icon classes for the known categories
var CategoryIcons = map[string]string{
	"action":     "fa-fist-raised",
	"adventure":  "fa-mountain",
	"sports":     "fa-futbol",
	"racing":     "fa-flag-checkered",
	"puzzle":     "fa-puzzle-piece",
	"strategy":   "fa-chess",
	"arcade":     "fa-gamepad",
	"simulation": "fa-plane",
}

// CategoryName returns the display name, falling back to the id
func CategoryName(id string) string {
	if name, ok := CategoryNames[id]; ok {
		return name
	}
	return id
}
