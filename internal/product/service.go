package product

import (
	"context"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/store"

	"go.uber.org/zap"
)

type Service struct {
	*crud.Handler[Product]
	now func() time.Time
}

// NewService fills in the product kind, identity and a max+1 id sequence
// unless cfg already sets them.
func NewService(cfg crud.Config[Product]) *Service {
	cfg.Kind = Kind
	cfg.Identity = Identity
	if cfg.IDs == nil {
		cfg.IDs = store.Sequence{}
	}
	return &Service{Handler: crud.NewHandler(cfg), now: time.Now}
}

func (s *Service) List(ctx context.Context, q crud.Query) (listview.Derived[Product], error) {
	return s.Query(ctx, Schema, q)
}

// Create stores a new product. New listings wait for review unless a
// status is given.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	p.Sold = 0
	return s.Handler.Create(ctx, p)
}

// Reserve takes quantity units out of stock for an order. Stock changes
// queue behind any other mutation of the same product.
func (s *Service) Reserve(ctx context.Context, id string, quantity int) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Reserve"),
		zap.String("product_id", id),
	)

	p, err := s.Apply(ctx, id, func(p Product) (Product, error) {
		if p.Status != StatusActive {
			return p, ErrNotAvailable
		}
		if quantity <= 0 || p.Stock < quantity {
			return p, ErrInsufficientStock
		}
		p.Stock -= quantity
		p.Sold += quantity
		return p, nil
	})
	if err != nil {
		log.Warn("reserve failed", zap.Int("quantity", quantity), zap.Error(err))
		return p, err
	}

	log.Info("stock reserved", zap.Int("quantity", quantity), zap.Int("stock_left", p.Stock))
	return p, nil
}

// Release puts quantity units back, e.g. when an order is cancelled.
func (s *Service) Release(ctx context.Context, id string, quantity int) error {
	_, err := s.Apply(ctx, id, func(p Product) (Product, error) {
		p.Stock += quantity
		p.Sold = max(0, p.Sold-quantity)
		return p, nil
	})
	return err
}
