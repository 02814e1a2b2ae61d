package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/library"
	"github.com/mcoot/psconsole/internal/services/playsession"
	"github.com/mcoot/psconsole/internal/services/profile"
)

func esc(s string) string {
	return templ.EscapeString(s)
}

func write(w io.Writer, parts ...string) error {
	_, err := io.WriteString(w, strings.Join(parts, ""))
	return err
}

// ProfileHeader shows the avatar, name and level progress
func ProfileHeader(p *model.UserProfile) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<header id="profile-header" class="profile-header">`,
			`<img class="avatar" src="/`, esc(p.Avatar), `" alt="">`,
			`<span class="username">`, esc(p.Username), `</span>`,
			`<span class="level">`, fmt.Sprintf("Lv. %d", p.Level), `</span>`,
			`<div class="exp-bar"><div class="exp-fill" style="width:`, fmt.Sprintf("%.0f", p.LevelProgress()), `%"></div></div>`,
			`<span class="exp">`, fmt.Sprintf("%d / %d", p.Exp, p.ExpToNextLevel()), `</span>`,
			`</header>`)
	})
}

// Nav renders the screen tabs
func Nav(active string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<nav class="screens">`); err != nil {
			return err
		}
		for _, screen := range []string{"home", "store", "library", "profile"} {
			class := "screen-tab"
			if screen == active {
				class += " active"
			}
			if err := write(w, `<a class="`, class, `" data-screen="`, screen, `" href="/?screen=`, screen, `">`, screen, `</a>`); err != nil {
				return err
			}
		}
		return write(w, `</nav>`)
	})
}

// GameCard renders a catalog game with its store actions
func GameCard(g model.GameRecord, owned bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		price := "Free"
		if !g.IsFree() {
			price = "$" + g.FinalPrice().StringFixed(2)
		}
		action := `<form method="post" action="/library/` + esc(string(g.ID)) + `"><button class="add-to-library">Add</button></form>`
		if owned {
			action = `<span class="owned">In library</span>`
		}
		return write(w,
			`<article class="game-card" data-game-id="`, esc(string(g.ID)), `" data-type="`, esc(string(g.Type)), `">`,
			`<img src="/`, esc(g.Image), `" alt="">`,
			`<h3 class="title">`, esc(g.Title), `</h3>`,
			`<span class="category"><i class="fas `, esc(g.Icon), `"></i> `, esc(model.CategoryName(g.Category)), `</span>`,
			`<span class="rating">`, fmt.Sprintf("%.1f", g.Rating), `</span>`,
			`<span class="size">`, esc(g.Size), `</span>`,
			`<span class="price">`, esc(price), `</span>`,
			action,
			`</article>`)
	})
}

// GameGrid renders a list of catalog games
func GameGrid(id string, games []model.GameRecord, owned func(model.GameID) bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<section id="`, esc(id), `" class="game-grid">`); err != nil {
			return err
		}
		if len(games) == 0 {
			if err := write(w, `<p class="empty">No games</p>`); err != nil {
				return err
			}
		}
		for _, g := range games {
			if err := GameCard(g, owned(g.ID)).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</section>`)
	})
}

// LibraryCard renders an owned game with its play and flag actions
func LibraryCard(e library.Entry, playing bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		id := esc(string(e.ID))
		classes := "library-card"
		if e.Favorite {
			classes += " favorite"
		}
		if e.Installed {
			classes += " installed"
		}
		install := `<form method="post" action="/library/` + id + `/install"><button class="install">Install</button></form>`
		if e.Installed {
			install = `<form method="post" action="/library/` + id + `/uninstall"><button class="uninstall">Uninstall</button></form>`
		}
		play := `<form method="post" action="/play/` + id + `"><button class="play">Play</button></form>`
		if playing {
			play = `<form method="post" action="/play/stop"><button class="stop">Stop</button></form>`
		}
		return write(w,
			`<article class="`, classes, `" data-game-id="`, id, `">`,
			`<h3 class="title">`, esc(e.Title), `</h3>`,
			`<span class="size">`, esc(e.Size), `</span>`,
			play,
			install,
			`<form method="post" action="/library/`, id, `/favorite"><button class="favorite-toggle">&#9733;</button></form>`,
			`<form method="post" action="/library/`, id, `/remove"><button class="remove">Remove</button></form>`,
			`</article>`)
	})
}

// LibraryGrid renders the filtered library with its size summary
func LibraryGrid(filter model.LibraryFilter, entries []library.Entry, stats library.Stats, current *playsession.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<section id="library" class="library" data-filter="`, esc(string(filter)), `">`,
			`<div class="library-stats"><span class="game-count">`, fmt.Sprintf("%d", stats.GameCount), `</span> `,
			`<span class="total-size">`, esc(stats.SizeLabel), `</span></div>`,
			`<nav class="filters">`); err != nil {
			return err
		}
		for _, f := range []model.LibraryFilter{model.FilterAll, model.FilterInstalled, model.FilterRecent, model.FilterFavorites, model.FilterWebGL} {
			class := "filter"
			if f == filter {
				class += " active"
			}
			if err := write(w, `<a class="`, class, `" href="/?screen=library&amp;filter=`, string(f), `">`, string(f), `</a>`); err != nil {
				return err
			}
		}
		if err := write(w, `</nav>`); err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := write(w, `<p class="empty">Your library is empty</p>`); err != nil {
				return err
			}
		}
		for _, e := range entries {
			playing := current != nil && current.GameID == e.ID
			if err := LibraryCard(e, playing).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</section>`)
	})
}

// StatsPanel renders the profile screen summary
func StatsPanel(s profile.Stats) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<section id="profile-stats" class="stats">`,
			`<div class="stat"><span class="label">Play time</span><span class="play-time">`, esc(s.PlayTimeLabel), `</span></div>`,
			`<div class="stat"><span class="label">Games</span><span class="games-owned">`, fmt.Sprintf("%d", s.GamesOwned), `</span></div>`,
			`<div class="stat"><span class="label">Achievements</span><span class="achievements-count">`, fmt.Sprintf("%d", s.AchievementsCount), `</span></div>`,
			`<div class="stat"><span class="label">Rating</span><span class="rating">`, esc(s.Rating), `</span></div>`,
			`</section>`)
	})
}

// Achievements renders the unlocked achievements
func Achievements(list []model.Achievement) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<ul id="achievements" class="achievements">`); err != nil {
			return err
		}
		for _, a := range list {
			if err := write(w, `<li class="achievement"><i class="fas `, esc(a.Icon), `"></i>`,
				`<span class="title">`, esc(a.Title), `</span>`,
				`<span class="description">`, esc(a.Description), `</span>`,
				`<time>`, esc(a.Date), `</time></li>`); err != nil {
				return err
			}
		}
		return write(w, `</ul>`)
	})
}

// PreferencesForm renders the settings form
func PreferencesForm(p model.Preferences) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		selected := func(ok bool) string {
			if ok {
				return " selected"
			}
			return ""
		}
		return write(w,
			`<form id="preferences" method="post" action="/preferences">`,
			`<select name="theme">`,
			`<option value="dark"`, selected(p.Theme == model.ThemeDark), `>dark</option>`,
			`<option value="light"`, selected(p.Theme == model.ThemeLight), `>light</option>`,
			`</select>`,
			`<input type="range" name="volume" min="0" max="100" value="`, fmt.Sprintf("%d", p.Volume), `">`,
			`<select name="language">`,
			`<option value="ar"`, selected(p.Language == model.LanguageArabic), `>العربية</option>`,
			`<option value="en"`, selected(p.Language == model.LanguageEnglish), `>English</option>`,
			`</select>`,
			`<button type="submit">Save</button></form>`,
			`<form method="post" action="/logout"><button class="logout">Reset profile</button></form>`)
	})
}

// NowPlaying shows the open play session, if any
func NowPlaying(current *playsession.Session, title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if current == nil {
			return nil
		}
		return write(w,
			`<div id="now-playing" class="now-playing" data-game-id="`, esc(string(current.GameID)), `">`,
			`<span class="title">`, esc(title), `</span>`,
			`<form method="post" action="/play/stop"><button class="stop">Stop</button></form>`,
			`</div>`)
	})
}
