package handler

import (
	"net/http"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/catalog"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/web/middleware"
	"github.com/mcoot/psconsole/internal/web/templates/layout"
	"github.com/mcoot/psconsole/internal/web/templates/pages"
)

// Home screen list sizes
const (
	recentCount      = 6
	recommendedCount = 4
)

// DashboardHandler renders the console screens
type DashboardHandler struct {
	catalog *catalog.Service
	library *library.Service
	tracker *playsession.Tracker
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(catalog *catalog.Service, library *library.Service, tracker *playsession.Tracker) *DashboardHandler {
	return &DashboardHandler{
		catalog: catalog,
		library: library,
		tracker: tracker,
	}
}

// Dashboard handles GET /?screen=&section=&q=&filter=
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := middleware.GetStore(ctx)

	p, err := store.Snapshot(ctx)
	if err != nil {
		http.Error(w, "profile unavailable", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	data := pages.DashboardData{
		Page: layout.PageData{
			Title:       "Console",
			Origin:      store.Origin(),
			Preferences: p.Preferences,
			Flash:       middleware.GetFlash(ctx),
		},
		Screen:  query.Get("screen"),
		Profile: p,
	}

	if current, ok := h.tracker.Current(store.Origin()); ok {
		data.Current = &current
		data.Playing = string(current.GameID)
		if g, err := h.catalog.Get(current.GameID); err == nil {
			data.Playing = g.Title
		}
	}

	switch data.Screen {
	case pages.ScreenStore:
		data.Section = model.StoreSection(query.Get("section"))
		if !data.Section.Valid() || data.Section == model.SectionCategories {
			data.Section = model.SectionFeatured
		}
		data.Query = query.Get("q")
		data.Games, err = h.catalog.Section(data.Section, data.Query)

	case pages.ScreenLibrary:
		data.Filter = model.LibraryFilter(query.Get("filter"))
		if !data.Filter.Valid() {
			data.Filter = model.FilterAll
		}
		if data.Library, err = h.library.Games(ctx, store, data.Filter); err == nil {
			data.LibraryStats, err = h.library.Stats(ctx, store)
		}

	case pages.ScreenProfile:
		data.Stats, err = store.Stats(ctx)

	default:
		data.Screen = pages.ScreenHome
		if g, ok := h.catalog.Featured(); ok {
			data.Featured = &g
		}
		data.Recent = h.catalog.Recent(recentCount)
		data.Recommended = h.catalog.Recommended(recommendedCount)
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Dashboard(data).Render(ctx, w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
