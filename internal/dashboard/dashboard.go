package dashboard

import (
	"context"
	"fmt"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/order"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/user"

	"go.uber.org/zap"
)

const recentLimit = 5

// Lister is the list operation every domain service exposes.
type Lister[T any] interface {
	List(ctx context.Context, q crud.Query) (listview.Derived[T], error)
}

// Snapshot is the admin overview. Every section is the stats block of an
// unfiltered list of that collection.
type Snapshot struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Products    listview.Stats    `json:"products"`
	Orders      listview.Stats    `json:"orders"`
	Sellers     listview.Stats    `json:"sellers"`
	Reports     listview.Stats    `json:"reports"`
	Users       listview.Stats    `json:"users"`
	Recent      []order.Order     `json:"recentOrders"`
	LowStock    []product.Product `json:"lowStock"`
}

type Builder struct {
	products Lister[product.Product]
	orders   Lister[order.Order]
	sellers  Lister[seller.Seller]
	reports  Lister[report.Report]
	users    Lister[user.User]
	now      func() time.Time
}

func NewBuilder(
	products Lister[product.Product],
	orders Lister[order.Order],
	sellers Lister[seller.Seller],
	reports Lister[report.Report],
	users Lister[user.User],
) *Builder {
	return &Builder{
		products: products,
		orders:   orders,
		sellers:  sellers,
		reports:  reports,
		users:    users,
		now:      time.Now,
	}
}

func stats[T any](ctx context.Context, l Lister[T], kind string) (listview.Stats, error) {
	d, err := l.List(ctx, crud.Query{})
	if err != nil {
		return listview.Stats{}, fmt.Errorf("%s stats: %w", kind, err)
	}
	return d.Stats, nil
}

// Build computes a fresh snapshot.
func (b *Builder) Build(ctx context.Context) (Snapshot, error) {
	var (
		snap = Snapshot{GeneratedAt: b.now().UTC()}
		err  error
	)

	if snap.Products, err = stats(ctx, b.products, product.Kind); err != nil {
		return Snapshot{}, err
	}
	if snap.Orders, err = stats(ctx, b.orders, order.Kind); err != nil {
		return Snapshot{}, err
	}
	if snap.Sellers, err = stats(ctx, b.sellers, seller.Kind); err != nil {
		return Snapshot{}, err
	}
	if snap.Reports, err = stats(ctx, b.reports, report.Kind); err != nil {
		return Snapshot{}, err
	}
	if snap.Users, err = stats(ctx, b.users, user.Kind); err != nil {
		return Snapshot{}, err
	}

	recent, err := b.orders.List(ctx, crud.Query{
		Fields:   map[string]string{"sort": "-createdAt"},
		PageSize: recentLimit,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("recent orders: %w", err)
	}
	snap.Recent = recent.Items

	low, err := b.products.List(ctx, crud.Query{
		Fields:   map[string]string{"stock": "low", "status": product.StatusActive, "sort": "stock"},
		PageSize: recentLimit,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("low stock: %w", err)
	}
	snap.LowStock = low.Items

	logger.FromCtx(ctx).Debug("dashboard snapshot built",
		zap.Int("products", snap.Products.Total),
		zap.Int("orders", snap.Orders.Total),
	)
	return snap, nil
}
