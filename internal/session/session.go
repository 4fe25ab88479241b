package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys persisted per session.
const (
	KeyCartItems = "cartItems"
	KeyLanguage  = "language"
)

// Store is session-scoped storage for small JSON values.
type Store interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, bool, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}

func storeKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}

// GetJSON decodes the value under key into a T. ok is false when the key
// is not set.
func GetJSON[T any](ctx context.Context, s Store, sessionID, key string) (v T, ok bool, err error) {
	data, ok, err := s.Get(ctx, sessionID, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode session %s: %w", key, err)
	}
	return v, true, nil
}

func SetJSON[T any](ctx context.Context, s Store, sessionID, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	return s.Set(ctx, sessionID, key, data)
}
