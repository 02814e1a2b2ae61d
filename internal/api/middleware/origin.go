package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/psconsole/internal/api/apierr"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/profile"
)

const (
	// OriginHeader names the storage origin a request acts on
	OriginHeader = "X-Console-Origin"
	// OriginCookie is consulted when the header is absent
	OriginCookie = "console_origin"
)

type contextKey string

const storeContextKey contextKey = "store"

// Origin resolves the request's storage origin and opens its profile store.
// Returns 400 if the origin is missing or malformed.
func Origin(manager *profile.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := ExtractOrigin(r)
			if origin == "" {
				apierr.WriteError(w, apierr.NewMissingOriginError())
				return
			}

			store, err := manager.Open(r.Context(), origin)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := WithStore(r.Context(), store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractOrigin gets the origin from the header or the cookie
func ExtractOrigin(r *http.Request) model.Origin {
	if origin := strings.TrimSpace(r.Header.Get(OriginHeader)); origin != "" {
		return model.Origin(origin)
	}
	if cookie, err := r.Cookie(OriginCookie); err == nil {
		return model.Origin(strings.TrimSpace(cookie.Value))
	}
	return ""
}

// WithStore adds a profile store to the context
func WithStore(ctx context.Context, store *profile.Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

// GetStore retrieves the profile store from the request context.
// Returns nil if the Origin middleware did not run.
func GetStore(ctx context.Context) *profile.Store {
	store, _ := ctx.Value(storeContextKey).(*profile.Store)
	return store
}

// MustGetStore retrieves the profile store from context, panicking if not present.
// Only use in handlers that are guaranteed to be behind the Origin middleware.
func MustGetStore(ctx context.Context) *profile.Store {
	store := GetStore(ctx)
	if store == nil {
		panic("MustGetStore called without Origin middleware")
	}
	return store
}
