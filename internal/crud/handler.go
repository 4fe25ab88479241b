package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"marketplace-be/internal/events"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Config wires a Handler.
type Config[T any] struct {
	Kind      string
	Repo      Repository[T]
	Identity  Identity[T]
	IDs       IDGenerator
	Validator *validator.Validate
	Publisher events.Publisher
	Metrics   *metrics.Collector
}

// Handler applies create, update and delete to a source collection. At
// most one mutation per item id is in flight at any time; a second one is
// rejected with ErrInFlight, except through Apply, which queues.
type Handler[T any] struct {
	kind     string
	repo     Repository[T]
	identity Identity[T]
	ids      IDGenerator
	validate *validator.Validate
	pub      events.Publisher
	metrics  *metrics.Collector

	guard    *Guard
	createMu sync.Mutex
}

func NewHandler[T any](cfg Config[T]) *Handler[T] {
	h := &Handler[T]{
		kind:     cfg.Kind,
		repo:     cfg.Repo,
		identity: cfg.Identity,
		ids:      cfg.IDs,
		validate: cfg.Validator,
		pub:      cfg.Publisher,
		metrics:  cfg.Metrics,
		guard:    NewGuard(),
	}
	if h.validate == nil {
		h.validate = NewValidator()
	}
	if h.pub == nil {
		h.pub = &events.NoopPublisher{}
	}
	return h
}

func (h *Handler[T]) Kind() string { return h.kind }

func (h *Handler[T]) log(ctx context.Context, method string) *zap.Logger {
	return logger.FromCtx(ctx).With(
		zap.String("layer", "crud"),
		zap.String("kind", h.kind),
		zap.String("method", method),
	)
}

// List returns the whole source collection.
func (h *Handler[T]) List(ctx context.Context) ([]T, error) {
	items, err := h.repo.List(ctx)
	if err != nil {
		h.log(ctx, "List").Error("failed to list items", zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", h.kind, err)
	}
	return items, nil
}

func (h *Handler[T]) Get(ctx context.Context, id string) (T, error) {
	return h.repo.Get(ctx, id)
}

// Create validates item, assigns it a new id and appends it.
func (h *Handler[T]) Create(ctx context.Context, item T) (out T, err error) {
	log := h.log(ctx, "Create")
	defer func() { h.metrics.ObserveMutation(h.kind, "create", err) }()

	if key := IdempotencyKeyFrom(ctx); key != "" {
		release, ok := h.guard.Acquire("create:" + key)
		if !ok {
			h.metrics.ObserveInFlightRejection(h.kind)
			log.Warn("duplicate create rejected", zap.String("idempotency_key", key))
			return out, ErrInFlight
		}
		defer release()
	}

	if err := Validate(h.validate, item); err != nil {
		log.Warn("create validation failed", zap.Error(err))
		return out, err
	}

	h.createMu.Lock()
	defer h.createMu.Unlock()

	existing, err := h.repo.List(ctx)
	if err != nil {
		log.Error("failed to load ids", zap.Error(err))
		return out, fmt.Errorf("create %s: %w", h.kind, err)
	}
	used := make([]string, 0, len(existing))
	for _, it := range existing {
		used = append(used, h.identity.ID(it))
	}

	id, err := h.ids.NextID(used)
	if err != nil {
		return out, fmt.Errorf("create %s: %w", h.kind, err)
	}

	out, err = h.repo.Insert(ctx, h.identity.WithID(item, id))
	if err != nil {
		log.Error("failed to insert item", zap.String("id", id), zap.Error(err))
		return out, fmt.Errorf("create %s: %w", h.kind, err)
	}

	log.Info("item created", zap.String("id", id))
	h.publish(ctx, events.ActionCreated, events.ItemChanged{Kind: h.kind, ID: id, Item: out})
	return out, nil
}

// Update shallow-merges patch into the item with the given id.
func (h *Handler[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	return h.modify(ctx, "update", id, false, func(cur T) (T, error) {
		return ApplyPatch(cur, patch)
	})
}

// Modify replaces the item with the result of fn under the same in-flight
// guard and validation as Update. Domain services use it for state
// transitions.
func (h *Handler[T]) Modify(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	return h.modify(ctx, "update", id, false, fn)
}

// Apply is Modify for internal bookkeeping such as stock counts: instead of
// failing with ErrInFlight it waits for the current mutation of id to
// finish.
func (h *Handler[T]) Apply(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	return h.modify(ctx, "update", id, true, fn)
}

func (h *Handler[T]) modify(ctx context.Context, op, id string, wait bool, fn func(T) (T, error)) (out T, err error) {
	log := h.log(ctx, "Update").With(zap.String("id", id))
	defer func() { h.metrics.ObserveMutation(h.kind, op, err) }()

	if wait {
		release, err := h.guard.Wait(ctx, id)
		if err != nil {
			log.Warn("gave up waiting for item", zap.Error(err))
			return out, err
		}
		defer release()
	} else {
		release, ok := h.guard.Acquire(id)
		if !ok {
			h.metrics.ObserveInFlightRejection(h.kind)
			log.Warn("update rejected, item busy")
			return out, ErrInFlight
		}
		defer release()
	}

	cur, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("update target not found")
		}
		return out, err
	}

	next, err := fn(cur)
	if err != nil {
		return out, err
	}
	next = h.identity.WithID(next, id)

	if err := Validate(h.validate, next); err != nil {
		log.Warn("update validation failed", zap.Error(err))
		return out, err
	}

	out, err = h.repo.Replace(ctx, id, next)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error("failed to replace item", zap.Error(err))
		}
		return out, err
	}

	log.Info("item updated")
	h.publish(ctx, events.ActionUpdated, events.ItemChanged{Kind: h.kind, ID: id, Item: out})
	return out, nil
}

// Delete removes the item with the given id.
func (h *Handler[T]) Delete(ctx context.Context, id string) (err error) {
	log := h.log(ctx, "Delete").With(zap.String("id", id))
	defer func() { h.metrics.ObserveMutation(h.kind, "delete", err) }()

	release, ok := h.guard.Acquire(id)
	if !ok {
		h.metrics.ObserveInFlightRejection(h.kind)
		log.Warn("delete rejected, item busy")
		return ErrInFlight
	}
	defer release()

	if err := h.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("delete target not found")
		} else {
			log.Error("failed to remove item", zap.Error(err))
		}
		return err
	}

	log.Info("item deleted")
	h.publish(ctx, events.ActionDeleted, events.ItemDeleted{Kind: h.kind, ID: id})
	return nil
}

func (h *Handler[T]) publish(ctx context.Context, action string, event any) {
	topic := events.Topic(h.kind, action)
	if err := h.pub.Publish(ctx, topic, event); err != nil {
		h.log(ctx, "publish").Warn("failed to publish event",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}
