package report

import (
	"context"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/store"
)

type Service struct {
	*crud.Handler[Report]
	now func() time.Time
}

func NewService(cfg crud.Config[Report]) *Service {
	cfg.Kind = Kind
	cfg.Identity = Identity
	if cfg.IDs == nil {
		cfg.IDs = store.UUID{}
	}
	return &Service{Handler: crud.NewHandler(cfg), now: time.Now}
}

func (s *Service) List(ctx context.Context, q crud.Query) (listview.Derived[Report], error) {
	return s.Query(ctx, Schema, q)
}

// Create files a new report. Reports always start pending.
func (s *Service) Create(ctx context.Context, r Report) (Report, error) {
	r.Status = StatusPending
	r.Resolution = ""
	r.ClosedAt = nil
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	r.CreatedAt = s.now().UTC()
	return s.Handler.Create(ctx, r)
}

// Review marks a pending report as being looked at.
func (s *Service) Review(ctx context.Context, id string) (Report, error) {
	return s.Modify(ctx, id, func(r Report) (Report, error) {
		if r.Closed() {
			return r, ErrAlreadyClosed
		}
		r.Status = StatusReviewing
		return r, nil
	})
}

func (s *Service) Resolve(ctx context.Context, id, resolution string) (Report, error) {
	return s.close(ctx, id, StatusResolved, resolution)
}

func (s *Service) Dismiss(ctx context.Context, id, resolution string) (Report, error) {
	return s.close(ctx, id, StatusDismissed, resolution)
}

func (s *Service) close(ctx context.Context, id, status, resolution string) (Report, error) {
	return s.Modify(ctx, id, func(r Report) (Report, error) {
		if r.Closed() {
			return r, ErrAlreadyClosed
		}
		now := s.now().UTC()
		r.Status = status
		r.Resolution = resolution
		r.ClosedAt = &now
		return r, nil
	})
}
