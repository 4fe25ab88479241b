package middleware

import (
	"net/http"
	"slices"

	"marketplace-be/internal/auth"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware resolves the caller from the access token. Requests
// without a token pass through as anonymous; a token that does not verify
// is rejected.
func AuthMiddleware(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role, claims.SellerID)
			ctx = logger.WithFields(ctx, zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through authenticated callers whose role is one of
// roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
				utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, utils.GetUserRoleFromContext(r.Context())) {
				utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// InternalService marks requests carrying the shared service secret.
func InternalService(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" && r.Header.Get("X-Service-Auth") == secret {
				r = r.WithContext(utils.WithInternalRequest(r.Context()))
			}
			next.ServeHTTP(w, r)
		})
	}
}
