package auth

import (
	"net/http"
	"strings"
)

// CookieName is the HttpOnly cookie the login endpoint sets.
const CookieName = "access_token"

// ExtractAccessToken returns the caller's token: the access cookie when
// set, otherwise a Bearer Authorization header (scheme matched case
// insensitively).
func ExtractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
