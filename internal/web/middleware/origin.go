package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apimw "github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/dependencies/random"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/profile"
)

type contextKey string

const originCookieMaxAge = 365 * 24 * 60 * 60

// Origin resolves the browser's console origin and opens its profile store.
// The origin comes from the ?origin= query, then the cookie; a browser with
// neither, or with a malformed one, is given a fresh origin.
func Origin(manager *profile.Manager, rnd random.Random, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := requestedOrigin(r)
			if origin == "" || origin.Validate() != nil {
				origin = profile.GenerateOrigin(rnd)
				logger.Info("allocated console origin", "origin", string(origin))
			}

			store, err := manager.Open(r.Context(), origin)
			if err != nil {
				http.Error(w, "profile storage unavailable", http.StatusServiceUnavailable)
				return
			}

			if cookie, err := r.Cookie(apimw.OriginCookie); err != nil || cookie.Value != string(origin) {
				SetOriginCookie(w, origin)
			}

			next.ServeHTTP(w, r.WithContext(apimw.WithStore(r.Context(), store)))
		})
	}
}

func requestedOrigin(r *http.Request) model.Origin {
	if origin := strings.TrimSpace(r.URL.Query().Get("origin")); origin != "" {
		return model.Origin(origin)
	}
	if cookie, err := r.Cookie(apimw.OriginCookie); err == nil {
		return model.Origin(strings.TrimSpace(cookie.Value))
	}
	return ""
}

// SetOriginCookie remembers the origin in the browser
func SetOriginCookie(w http.ResponseWriter, origin model.Origin) {
	http.SetCookie(w, &http.Cookie{
		Name:     apimw.OriginCookie,
		Value:    string(origin),
		Path:     "/",
		MaxAge:   originCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetStore retrieves the origin's profile store from the request context
func GetStore(ctx context.Context) *profile.Store {
	return apimw.GetStore(ctx)
}
