package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/services/profile"
	"github.com/mcoot/psconsole/internal/web/templates/components"
	"github.com/mcoot/psconsole/internal/web/templates/layout"
)

// Screens
const (
	ScreenHome    = "home"
	ScreenStore   = "store"
	ScreenLibrary = "library"
	ScreenProfile = "profile"
)

// DashboardData is everything the dashboard needs for one render
type DashboardData struct {
	Page    layout.PageData
	Screen  string
	Profile *model.UserProfile
	Current *playsession.Session
	Playing string

	// home
	Featured    *model.GameRecord
	Recent      []model.GameRecord
	Recommended []model.GameRecord

	// store
	Section model.StoreSection
	Query   string
	Games   []model.GameRecord

	// library
	Filter       model.LibraryFilter
	Library      []library.Entry
	LibraryStats library.Stats

	// profile
	Stats profile.Stats
}

// Dashboard renders the console page for the selected screen
func Dashboard(data DashboardData) templ.Component {
	return layout.Base(data.Page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		owned := func(id model.GameID) bool { return data.Profile.HasGame(id) }

		parts := []templ.Component{
			components.ProfileHeader(data.Profile),
			components.Nav(data.Screen),
			components.NowPlaying(data.Current, data.Playing),
		}
		if _, err := io.WriteString(w, `<main id="screen-`+templ.EscapeString(data.Screen)+`" class="screen">`); err != nil {
			return err
		}
		for _, c := range parts {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}

		var err error
		switch data.Screen {
		case ScreenStore:
			err = storeScreen(ctx, w, data, owned)
		case ScreenLibrary:
			err = components.LibraryGrid(data.Filter, data.Library, data.LibraryStats, data.Current).Render(ctx, w)
		case ScreenProfile:
			err = profileScreen(ctx, w, data)
		default:
			err = homeScreen(ctx, w, data, owned)
		}
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, `</main>`)
		return err
	}))
}

func homeScreen(ctx context.Context, w io.Writer, data DashboardData, owned func(model.GameID) bool) error {
	if data.Featured != nil {
		if _, err := io.WriteString(w, `<section id="featured" class="featured">`); err != nil {
			return err
		}
		if err := components.GameCard(*data.Featured, owned(data.Featured.ID)).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</section>`); err != nil {
			return err
		}
	}
	if err := components.GameGrid("recent", data.Recent, owned).Render(ctx, w); err != nil {
		return err
	}
	return components.GameGrid("recommended", data.Recommended, owned).Render(ctx, w)
}

func storeScreen(ctx context.Context, w io.Writer, data DashboardData, owned func(model.GameID) bool) error {
	if _, err := io.WriteString(w, `<nav class="sections">`); err != nil {
		return err
	}
	for _, s := range []model.StoreSection{model.SectionFeatured, model.SectionNew, model.SectionTop, model.SectionFree, model.SectionCategories} {
		class := "section"
		if s == data.Section {
			class += " active"
		}
		if _, err := io.WriteString(w, `<a class="`+class+`" href="/?screen=store&amp;section=`+string(s)+`">`+string(s)+`</a>`); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</nav>`+
		`<form class="search" method="get" action="/">`+
		`<input type="hidden" name="screen" value="store">`+
		`<input type="hidden" name="section" value="`+templ.EscapeString(string(data.Section))+`">`+
		`<input type="search" name="q" value="`+templ.EscapeString(data.Query)+`"></form>`); err != nil {
		return err
	}
	return components.GameGrid("store-games", data.Games, owned).Render(ctx, w)
}

func profileScreen(ctx context.Context, w io.Writer, data DashboardData) error {
	for _, c := range []templ.Component{
		components.StatsPanel(data.Stats),
		components.Achievements(data.Profile.Achievements),
		components.PreferencesForm(data.Profile.Preferences),
	} {
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
