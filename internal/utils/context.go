package utils

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	SellerIDKey  contextKey = "seller_id"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
)

// Roles carried in access tokens.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type ctxKey string

const internalRequestKey ctxKey = "internal_request"

// SetUserContext stores the authenticated principal (called by middleware).
func SetUserContext(ctx context.Context, id, email, role, sellerID string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	if sellerID != "" {
		ctx = context.WithValue(ctx, SellerIDKey, sellerID)
	}
	return ctx
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

// GetUserRoleFromContext returns the caller's role; anonymous callers are
// buyers.
func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	if role == "" {
		return RoleBuyer
	}
	return role
}

func GetSellerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SellerIDKey).(string)
	return id, ok && id != ""
}

func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequestKey, true)
}

func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequestKey).(bool)
	return v
}
