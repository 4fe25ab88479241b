package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "session_id"

type ctxKey string

const sessionIDKey ctxKey = "session_id"

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func IDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// Middleware reads the session cookie, issuing a new session id when the
// request has none.
func Middleware(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(CookieName); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(ttl.Seconds()),
				})
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
