package seller

import (
	"context"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/store"
)

type Service struct {
	*crud.Handler[Seller]
	now func() time.Time
}

func NewService(cfg crud.Config[Seller]) *Service {
	cfg.Kind = Kind
	cfg.Identity = Identity
	if cfg.IDs == nil {
		cfg.IDs = store.Sequence{}
	}
	return &Service{Handler: crud.NewHandler(cfg), now: time.Now}
}

func (s *Service) List(ctx context.Context, q crud.Query) (listview.Derived[Seller], error) {
	return s.Query(ctx, Schema, q)
}

// Create registers a shop awaiting approval.
func (s *Service) Create(ctx context.Context, sl Seller) (Seller, error) {
	sl.Status = StatusPending
	if sl.Type == "" {
		sl.Type = TypeIndividual
	}
	if sl.JoinedAt.IsZero() {
		sl.JoinedAt = s.now().UTC()
	}
	return s.Handler.Create(ctx, sl)
}

// Approve activates a pending or suspended shop.
func (s *Service) Approve(ctx context.Context, id string) (Seller, error) {
	return s.Modify(ctx, id, func(sl Seller) (Seller, error) {
		if sl.Status == StatusActive {
			return sl, ErrInvalidTransition
		}
		sl.Status = StatusActive
		sl.SuspendReason = ""
		return sl, nil
	})
}

// Suspend blocks an active shop. A reason is required.
func (s *Service) Suspend(ctx context.Context, id, reason string) (Seller, error) {
	if reason == "" {
		return Seller{}, crud.NewValidationError("reason", "reason is required")
	}
	return s.Modify(ctx, id, func(sl Seller) (Seller, error) {
		if sl.Status != StatusActive {
			return sl, ErrInvalidTransition
		}
		sl.Status = StatusSuspended
		sl.SuspendReason = reason
		return sl, nil
	})
}
