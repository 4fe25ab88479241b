package httpapi

import (
	"marketplace-be/internal/crud"
	"marketplace-be/internal/order"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/user"
	"marketplace-be/internal/utils"
)

var (
	adminOnly     = []string{utils.RoleAdmin}
	sellerOrAdmin = []string{utils.RoleSeller, utils.RoleAdmin}
	anyRole       = []string{utils.RoleBuyer, utils.RoleSeller, utils.RoleAdmin}
)

// Buyers and anonymous visitors only see active products; sellers manage
// their own catalog.
func productResource(d Deps) *resource[product.Product] {
	return &resource[product.Product]{
		name:     "products",
		kind:     product.Kind,
		service:  d.Products,
		columns:  product.Columns,
		pageSize: d.PageSize,
		access:   access{create: sellerOrAdmin, write: sellerOrAdmin},
		scope: func(c caller, q crud.Query) crud.Query {
			switch {
			case c.isAdmin():
				return q
			case c.isSeller():
				return q.With("seller", c.sellerID)
			default:
				return q.With("status", product.StatusActive)
			}
		},
		visible: func(c caller, p product.Product) bool {
			return c.isAdmin() || p.Status == product.StatusActive || (c.isSeller() && p.SellerID == c.sellerID)
		},
		owns: func(c caller, p product.Product) bool {
			return c.isAdmin() || (c.isSeller() && p.SellerID == c.sellerID)
		},
		prepare: func(c caller, p product.Product) product.Product {
			if !c.isAdmin() {
				p.SellerID = c.sellerID
				p.Status = product.StatusPending
			}
			return p
		},
		preparePatch: func(c caller, p crud.Patch) crud.Patch {
			if c.isAdmin() {
				return p
			}
			return p.Without("sellerId", "status", "sold", "rating")
		},
		sink:    d.Sink,
		metrics: d.Metrics,
	}
}

func orderResource(d Deps) *resource[order.Order] {
	return &resource[order.Order]{
		name:     "orders",
		kind:     order.Kind,
		service:  d.Orders,
		columns:  order.Columns,
		pageSize: d.PageSize,
		access:   access{read: sellerOrAdmin, create: adminOnly, write: adminOnly},
		scope: func(c caller, q crud.Query) crud.Query {
			if c.isAdmin() {
				return q
			}
			return q.With("seller", c.sellerID)
		},
		visible: func(c caller, o order.Order) bool {
			return c.isAdmin() || (c.isSeller() && o.SellerID == c.sellerID)
		},
		sink:    d.Sink,
		metrics: d.Metrics,
	}
}

func sellerResource(d Deps) *resource[seller.Seller] {
	return &resource[seller.Seller]{
		name:     "sellers",
		kind:     seller.Kind,
		service:  d.Sellers,
		columns:  seller.Columns,
		pageSize: d.PageSize,
		access:   access{read: adminOnly, create: anyRole, write: adminOnly},
		sink:     d.Sink,
		metrics:  d.Metrics,
	}
}

// Anyone signed in may file a report; reviewing them is for admins.
func reportResource(d Deps) *resource[report.Report] {
	return &resource[report.Report]{
		name:     "reports",
		kind:     report.Kind,
		service:  d.Reports,
		columns:  report.Columns,
		pageSize: d.PageSize,
		access:   access{read: adminOnly, create: anyRole, write: adminOnly},
		sink:     d.Sink,
		metrics:  d.Metrics,
	}
}

func userResource(d Deps) *resource[user.User] {
	return &resource[user.User]{
		name:     "users",
		kind:     user.Kind,
		service:  d.Users,
		columns:  user.Columns,
		pageSize: d.PageSize,
		access:   access{read: adminOnly, create: adminOnly, write: adminOnly},
		redact:   user.Redact,
		sink:     d.Sink,
		metrics:  d.Metrics,
	}
}
