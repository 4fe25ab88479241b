package order

import (
	"context"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/store"
	"marketplace-be/internal/utils"

	"go.uber.org/zap"
)

// Inventory gives stock back when an order is cancelled.
type Inventory interface {
	Release(ctx context.Context, productID string, quantity int) error
}

type Service struct {
	*crud.Handler[Order]
	inventory Inventory
	now       func() time.Time
}

func NewService(cfg crud.Config[Order], inventory Inventory) *Service {
	cfg.Kind = Kind
	cfg.Identity = Identity
	if cfg.IDs == nil {
		cfg.IDs = store.NanoID{Prefix: "ORD-", Length: 8}
	}
	return &Service{
		Handler:   crud.NewHandler(cfg),
		inventory: inventory,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, q crud.Query) (listview.Derived[Order], error) {
	return s.Query(ctx, Schema, q)
}

// Create fills in the defaults of a new order: pending, unpaid, cash on
// delivery, total from the lines and a fresh invoice number.
func (s *Service) Create(ctx context.Context, o Order) (Order, error) {
	now := s.now().UTC()

	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentCOD
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentUnpaid
	}
	if o.Total == 0 {
		o.Total = o.Subtotal()
	}
	if o.InvoiceNo == "" {
		o.InvoiceNo = utils.GenerateInvoiceNumber(now)
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	return s.Handler.Create(ctx, o)
}

// Update merges patch into the order. A status carried in the patch goes
// through the same transition rules and side effects as UpdateStatus.
func (s *Service) Update(ctx context.Context, id string, patch crud.Patch) (Order, error) {
	patch = patch.Without("invoiceNo", "createdAt", "updatedAt")

	var from Status
	o, err := s.Modify(ctx, id, func(cur Order) (Order, error) {
		next, err := crud.ApplyPatch(cur, patch)
		if err != nil {
			return cur, err
		}
		from = cur.Status
		if next.Status != cur.Status {
			to := next.Status
			next.Status = cur.Status
			if next, err = transition(next, to); err != nil {
				return cur, err
			}
		}
		next.UpdatedAt = s.now().UTC()
		return next, nil
	})
	if err != nil {
		return o, err
	}

	if o.Status != from {
		s.afterTransition(ctx, s.log(ctx, "Update", id, o.Status), o)
	}
	return o, nil
}

// UpdateStatus moves the order along its lifecycle. Delivering a cash on
// delivery order marks it paid; cancelling a paid order marks it refunded
// and returns the stock.
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	log := s.log(ctx, "UpdateStatus", id, to)

	o, err := s.Modify(ctx, id, func(o Order) (Order, error) {
		o, err := transition(o, to)
		if err != nil {
			return o, err
		}
		o.UpdatedAt = s.now().UTC()
		return o, nil
	})
	if err != nil {
		log.Warn("status change rejected", zap.Error(err))
		return o, err
	}

	s.afterTransition(ctx, log, o)
	return o, nil
}

func (s *Service) log(ctx context.Context, method, id string, to Status) *zap.Logger {
	return logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
		zap.String("order_id", id),
		zap.String("to", string(to)),
	)
}

func transition(o Order, to Status) (Order, error) {
	if !CanTransition(o.Status, to) {
		return o, ErrInvalidTransition
	}
	o.Status = to
	switch {
	case to == StatusDelivered && o.PaymentMethod == PaymentCOD:
		o.PaymentStatus = PaymentPaid
	case to == StatusCancelled && o.PaymentStatus == PaymentPaid:
		o.PaymentStatus = PaymentRefunded
	}
	return o, nil
}

// afterTransition returns the stock of a cancelled order.
func (s *Service) afterTransition(ctx context.Context, log *zap.Logger, o Order) {
	if o.Status == StatusCancelled && s.inventory != nil {
		for _, l := range o.Lines {
			if err := s.inventory.Release(ctx, l.ProductID, l.Quantity); err != nil {
				log.Error("failed to release stock",
					zap.String("product_id", l.ProductID),
					zap.Int("quantity", l.Quantity),
					zap.Error(err),
				)
			}
		}
	}
	log.Info("order status updated")
}

// MarkPaid records a successful prepayment.
func (s *Service) MarkPaid(ctx context.Context, id string) (Order, error) {
	return s.Modify(ctx, id, func(o Order) (Order, error) {
		if o.Status == StatusCancelled {
			return o, ErrInvalidTransition
		}
		o.PaymentStatus = PaymentPaid
		o.UpdatedAt = s.now().UTC()
		return o, nil
	})
}
