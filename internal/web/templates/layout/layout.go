package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/psconsole/internal/model"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string
	Message string
}

// PageData holds data shared by every page
type PageData struct {
	Title       string
	Origin      model.Origin
	Preferences model.Preferences
	Flash       *FlashMessage
}

// Direction returns the text direction for the language preference
func (p PageData) Direction() string {
	if p.Preferences.Language == model.LanguageArabic {
		return "rtl"
	}
	return "ltr"
}

// Base wraps page content in the console shell
func Base(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := string(data.Preferences.Language)
		if lang == "" {
			lang = string(model.LanguageArabic)
		}
		theme := string(data.Preferences.Theme)
		if theme == "" {
			theme = string(model.ThemeDark)
		}

		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="`+templ.EscapeString(lang)+`" dir="`+data.Direction()+`">`+
			`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(data.Title)+` | PS Console</title>`+
			`<link rel="stylesheet" href="/static/css/console.css"></head>`+
			`<body class="theme-`+templ.EscapeString(theme)+`" data-origin="`+templ.EscapeString(string(data.Origin))+`">`); err != nil {
			return err
		}

		if data.Flash != nil {
			if _, err := io.WriteString(w, `<div class="flash flash-`+templ.EscapeString(data.Flash.Type)+`" role="status">`+
				templ.EscapeString(data.Flash.Message)+`</div>`); err != nil {
				return err
			}
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		// Reload when another tab or the CLI changes this profile
		_, err := io.WriteString(w, `<script>(function(){`+
			`var es=new EventSource("/api/v1/events");var t;`+
			`es.addEventListener("profile-updated",function(){clearTimeout(t);t=setTimeout(function(){location.reload()},250)});`+
			`})();</script></body></html>`)
		return err
	})
}
