package crud

import (
	"context"
	"sync"
)

// Guard tracks keys that have a mutation in flight.
type Guard struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

func NewGuard() *Guard {
	return &Guard{keys: make(map[string]chan struct{})}
}

// Acquire claims key. It returns false when the key is already claimed;
// otherwise the returned release func must be called exactly once.
func (g *Guard) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.keys[key]; busy {
		return nil, false
	}
	return g.claim(key), true
}

// Wait claims key like Acquire but blocks until the current holder
// releases it or ctx is done.
func (g *Guard) Wait(ctx context.Context, key string) (release func(), err error) {
	for {
		g.mu.Lock()
		done, busy := g.keys[key]
		if !busy {
			release = g.claim(key)
			g.mu.Unlock()
			return release, nil
		}
		g.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// claim must be called with g.mu held.
func (g *Guard) claim(key string) func() {
	done := make(chan struct{})
	g.keys[key] = done

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.keys, key)
			g.mu.Unlock()
			close(done)
		})
	}
}
