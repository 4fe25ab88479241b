package crud

import "context"

// Repository is the service boundary every management screen depends on.
// Implementations return ErrNotFound for unknown ids and must be safe for
// concurrent use.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, item T) (T, error)
	Replace(ctx context.Context, id string, item T) (T, error)
	Remove(ctx context.Context, id string) error
}

// Identity reads and assigns the identifier of an item.
type Identity[T any] struct {
	ID     func(T) string
	WithID func(T, string) T
}

// IDGenerator produces a fresh identifier given the ones in use.
type IDGenerator interface {
	NextID(existing []string) (string, error)
}
