package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"marketplace-be/internal/crud"
)

// Memory is the mock repository: an in-memory slice that answers after an
// optional artificial delay. The delay honors context cancellation.
type Memory[T any] struct {
	mu       sync.RWMutex
	items    []T
	identity crud.Identity[T]
	delay    time.Duration
}

type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	delay time.Duration
}

// WithDelay makes every call wait d before touching the collection.
func WithDelay(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.delay = d }
}

func NewMemory[T any](identity crud.Identity[T], seed []T, opts ...MemoryOption) *Memory[T] {
	var o memoryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory[T]{
		items:    slices.Clone(seed),
		identity: identity,
		delay:    o.delay,
	}
}

func (m *Memory[T]) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Memory[T]) indexOf(id string) int {
	return slices.IndexFunc(m.items, func(it T) bool { return m.identity.ID(it) == id })
}

func (m *Memory[T]) List(ctx context.Context) ([]T, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items), nil
}

func (m *Memory[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := m.wait(ctx); err != nil {
		return zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return zero, crud.ErrNotFound
	}
	return m.items[i], nil
}

func (m *Memory[T]) Insert(ctx context.Context, item T) (T, error) {
	var zero T
	if err := m.wait(ctx); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(m.identity.ID(item)) >= 0 {
		return zero, crud.ErrDuplicate
	}
	m.items = append(m.items, item)
	return item, nil
}

func (m *Memory[T]) Replace(ctx context.Context, id string, item T) (T, error) {
	var zero T
	if err := m.wait(ctx); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return zero, crud.ErrNotFound
	}
	m.items[i] = item
	return item, nil
}

func (m *Memory[T]) Remove(ctx context.Context, id string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return crud.ErrNotFound
	}
	m.items = slices.Delete(m.items, i, i+1)
	return nil
}
