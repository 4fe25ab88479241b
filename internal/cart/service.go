package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/events"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"
	"marketplace-be/internal/order"
	"marketplace-be/internal/product"
	"marketplace-be/internal/session"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Catalog is the part of the product service the cart depends on.
type Catalog interface {
	Get(ctx context.Context, id string) (product.Product, error)
	Reserve(ctx context.Context, id string, quantity int) (product.Product, error)
	Release(ctx context.Context, id string, quantity int) error
}

// Orders creates the orders produced by a checkout and removes them again
// when the checkout is rolled back.
type Orders interface {
	Create(ctx context.Context, o order.Order) (order.Order, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store     session.Store
	catalog   Catalog
	orders    Orders
	publisher events.Publisher
	metrics   *metrics.Collector
	validate  *validator.Validate
	guard     *crud.Guard
}

func NewService(store session.Store, catalog Catalog, orders Orders, pub events.Publisher, m *metrics.Collector) *Service {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Service{
		store:     store,
		catalog:   catalog,
		orders:    orders,
		publisher: pub,
		metrics:   m,
		validate:  crud.NewValidator(),
		guard:     crud.NewGuard(),
	}
}

func (s *Service) log(ctx context.Context, method string) *zap.Logger {
	return logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
		zap.String("session_id", session.IDFrom(ctx)),
	)
}

func (s *Service) load(ctx context.Context, sid string) ([]Item, error) {
	items, _, err := session.GetJSON[[]Item](ctx, s.store, sid, session.KeyCartItems)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, sid string, items []Item) (Cart, error) {
	if len(items) == 0 {
		if err := s.store.Delete(ctx, sid, session.KeyCartItems); err != nil {
			return Cart{}, fmt.Errorf("save cart: %w", err)
		}
		return newCart(nil), nil
	}
	if err := session.SetJSON(ctx, s.store, sid, session.KeyCartItems, items); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return newCart(items), nil
}

// mutate runs fn over the session's cart lines. Only one change per
// session runs at a time.
func (s *Service) mutate(ctx context.Context, sid string, fn func([]Item) ([]Item, error)) (Cart, error) {
	release, ok := s.guard.Acquire(sid)
	if !ok {
		return Cart{}, crud.ErrInFlight
	}
	defer release()

	items, err := s.load(ctx, sid)
	if err != nil {
		return Cart{}, err
	}
	items, err = fn(items)
	if err != nil {
		return Cart{}, err
	}
	return s.save(ctx, sid, items)
}

func (s *Service) Get(ctx context.Context, sid string) (Cart, error) {
	items, err := s.load(ctx, sid)
	if err != nil {
		return Cart{}, err
	}
	return newCart(items), nil
}

// Add puts quantity units of a product in the cart, merging with an
// existing line for the same product and variant.
func (s *Service) Add(ctx context.Context, sid, productID, variant string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, ErrInvalidQuantity
	}

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return Cart{}, err
	}
	if p.Status != product.StatusActive {
		return Cart{}, product.ErrNotAvailable
	}

	c, err := s.mutate(ctx, sid, func(items []Item) ([]Item, error) {
		i := slices.IndexFunc(items, func(it Item) bool { return it.same(productID, variant) })
		total := quantity
		if i >= 0 {
			total += items[i].Quantity
		}
		if total > p.Stock {
			return nil, product.ErrInsufficientStock
		}

		line := Item{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: total,
			Image:    p.Image,
			Variant:  variant,
			SellerID: p.SellerID,
		}
		if i >= 0 {
			items[i] = line
			return items, nil
		}
		return append(items, line), nil
	})
	if err != nil {
		s.log(ctx, "Add").Warn("add to cart failed", zap.String("product_id", productID), zap.Error(err))
		return c, err
	}
	return c, nil
}

// SetQuantity changes the quantity of a line; zero removes it.
func (s *Service) SetQuantity(ctx context.Context, sid, productID, variant string, quantity int) (Cart, error) {
	if quantity < 0 {
		return Cart{}, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.Remove(ctx, sid, productID, variant)
	}

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return Cart{}, err
	}

	return s.mutate(ctx, sid, func(items []Item) ([]Item, error) {
		i := slices.IndexFunc(items, func(it Item) bool { return it.same(productID, variant) })
		if i < 0 {
			return nil, ErrItemNotFound
		}
		if quantity > p.Stock {
			return nil, product.ErrInsufficientStock
		}
		items[i].Quantity = quantity
		items[i].Price = p.Price
		return items, nil
	})
}

func (s *Service) Remove(ctx context.Context, sid, productID, variant string) (Cart, error) {
	return s.mutate(ctx, sid, func(items []Item) ([]Item, error) {
		i := slices.IndexFunc(items, func(it Item) bool { return it.same(productID, variant) })
		if i < 0 {
			return nil, ErrItemNotFound
		}
		return slices.Delete(items, i, i+1), nil
	})
}

func (s *Service) Clear(ctx context.Context, sid string) (Cart, error) {
	return s.mutate(ctx, sid, func([]Item) ([]Item, error) { return nil, nil })
}

type reservation struct {
	productID string
	quantity  int
}

// Checkout turns the cart into one order per seller. Stock is reserved
// first; if anything fails, orders created so far are deleted, reserved
// stock is given back and the cart is left untouched.
func (s *Service) Checkout(ctx context.Context, sid string, in CheckoutInput) ([]order.Order, error) {
	log := s.log(ctx, "Checkout")

	if err := crud.Validate(s.validate, in); err != nil {
		return nil, err
	}

	release, ok := s.guard.Acquire(sid)
	if !ok {
		log.Warn("duplicate checkout rejected")
		return nil, crud.ErrInFlight
	}
	defer release()

	items, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	var (
		reserved []reservation
		orders   []order.Order
	)
	rollback := func() {
		bg := context.WithoutCancel(ctx)
		for _, o := range orders {
			if err := s.orders.Delete(bg, o.ID); err != nil {
				log.Error("failed to delete order", zap.String("order_id", o.ID), zap.Error(err))
			}
		}
		for _, r := range reserved {
			if err := s.catalog.Release(bg, r.productID, r.quantity); err != nil {
				log.Error("failed to release stock", zap.String("product_id", r.productID), zap.Error(err))
			}
		}
	}

	bySeller := map[string][]order.Line{}
	var sellers []string
	for _, it := range items {
		p, err := s.catalog.Reserve(ctx, it.ID, it.Quantity)
		if err != nil {
			rollback()
			log.Warn("checkout aborted", zap.String("product_id", it.ID), zap.Error(err))
			return nil, fmt.Errorf("%s: %w", it.Name, err)
		}
		reserved = append(reserved, reservation{productID: it.ID, quantity: it.Quantity})

		if _, seen := bySeller[p.SellerID]; !seen {
			sellers = append(sellers, p.SellerID)
		}
		bySeller[p.SellerID] = append(bySeller[p.SellerID], order.Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			Variant:   it.Variant,
			Image:     p.Image,
		})
	}

	orders = make([]order.Order, 0, len(sellers))
	for _, sellerID := range sellers {
		o, err := s.orders.Create(ctx, order.Order{
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			ShippingAddress: in.ShippingAddress,
			SellerID:        sellerID,
			Lines:           bySeller[sellerID],
			PaymentMethod:   order.PaymentMethod(in.PaymentMethod),
			Note:            in.Note,
		})
		if err != nil {
			rollback()
			log.Error("failed to create order", zap.String("seller_id", sellerID), zap.Error(err))
			return nil, errors.Join(errors.New("checkout"), err)
		}
		orders = append(orders, o)
	}

	if _, err := s.save(ctx, sid, nil); err != nil {
		log.Error("failed to clear cart after checkout", zap.Error(err))
	}

	var total float64
	for _, o := range orders {
		total += o.Total
		event := events.CheckoutCompleted{OrderID: o.ID, SessionID: sid, Total: o.Total, Lines: len(o.Lines)}
		if err := s.publisher.Publish(ctx, events.TopicOrderCheckout, event); err != nil {
			log.Warn("failed to publish checkout", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	s.metrics.ObserveCheckout()

	log.Info("checkout completed", zap.Int("orders", len(orders)), zap.Float64("total", total))
	return orders, nil
}
