package crud

import "context"

type ctxKey string

const idempotencyKey ctxKey = "idempotency_key"

// WithIdempotencyKey marks a create request so a duplicate submission with
// the same key is rejected while the first one is in flight.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, idempotencyKey, key)
}

func IdempotencyKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey).(string)
	return key
}
