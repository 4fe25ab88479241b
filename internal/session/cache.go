package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CacheStore keeps sessions in process memory; entries expire after ttl of
// inactivity.
type CacheStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewCacheStore(ttl time.Duration) *CacheStore {
	return &CacheStore{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *CacheStore) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	k := storeKey(sessionID, key)
	v, ok := s.cache.Get(k)
	if !ok {
		return nil, false, nil
	}
	data := v.([]byte)
	s.cache.Set(k, data, s.ttl)
	return append([]byte(nil), data...), true, nil
}

func (s *CacheStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Set(storeKey(sessionID, key), append([]byte(nil), value...), s.ttl)
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(storeKey(sessionID, key))
	return nil
}
