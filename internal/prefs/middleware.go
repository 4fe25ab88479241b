package prefs

import (
	"net/http"

	"marketplace-be/internal/session"
)

// Middleware attaches a Provider for the request's session. It must run
// after session.Middleware.
func Middleware(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := NewProvider(store, session.IDFrom(r.Context()))
			ctx := WithProvider(r.Context(), p)
			w.Header().Set("Content-Language", p.Language(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
