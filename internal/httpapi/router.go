// Package httpapi exposes the storefront and management screens over
// REST.
package httpapi

import (
	"net/http"
	"time"

	"marketplace-be/internal/auth"
	"marketplace-be/internal/cart"
	"marketplace-be/internal/dashboard"
	"marketplace-be/internal/export"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"
	"marketplace-be/internal/middleware"
	"marketplace-be/internal/order"
	"marketplace-be/internal/prefs"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/session"
	"marketplace-be/internal/user"

	"github.com/gorilla/mux"
)

// Deps are the services the API is built on. Sink, Hub, Payments and
// MetricsHandler are optional.
type Deps struct {
	Products  *product.Service
	Orders    *order.Service
	Sellers   *seller.Service
	Reports   *report.Service
	Users     *user.Service
	Cart      *cart.Service
	Dashboard *dashboard.Builder

	Sessions session.Store
	Tokens   *auth.Tokens
	Limiter  *middleware.Limiter
	Sink     export.Sink
	Metrics  *metrics.Collector

	Hub            http.Handler
	Payments       http.Handler
	MetricsHandler http.Handler

	PageSize       int
	CORSOrigin     string
	SessionTTL     time.Duration
	InternalSecret string
}

type api struct {
	deps Deps
}

// NewRouter wires every endpoint and the middleware chain around them.
func NewRouter(d Deps) http.Handler {
	if d.Limiter == nil {
		d.Limiter = middleware.NewLimiter()
	}
	a := &api{deps: d}

	r := mux.NewRouter()
	r.Use(
		middleware.InternalService(d.InternalSecret),
		session.Middleware(d.SessionTTL),
		prefs.Middleware(d.Sessions),
		middleware.AuthMiddleware(d.Tokens),
		d.Limiter.Middleware,
	)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler).Methods(http.MethodGet)
	}
	if d.Payments != nil {
		r.Handle("/webhook/payment", d.Payments).Methods(http.MethodPost)
	}

	r.HandleFunc("/api/auth/token", a.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/token", a.logout).Methods(http.MethodDelete)
	r.HandleFunc("/api/auth/register", a.register).Methods(http.MethodPost)
	r.Handle("/api/auth/me", guarded(anyRole, a.me)).Methods(http.MethodGet)

	r.HandleFunc("/api/preferences", a.getPreferences).Methods(http.MethodGet)
	r.HandleFunc("/api/preferences", a.putPreferences).Methods(http.MethodPut)
	r.HandleFunc("/api/preferences", a.resetPreferences).Methods(http.MethodDelete)

	r.HandleFunc("/api/cart", a.getCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", a.clearCart).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/items", a.addCartItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}", a.setCartQuantity).Methods(http.MethodPatch)
	r.HandleFunc("/api/cart/items/{id}", a.removeCartItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/checkout", a.checkout).Methods(http.MethodPost)

	r.Handle("/api/orders/{id}/status", guarded(sellerOrAdmin, a.orderStatus)).Methods(http.MethodPost)
	r.Handle("/api/sellers/{id}/approve", guarded(adminOnly, a.approveSeller)).Methods(http.MethodPost)
	r.Handle("/api/sellers/{id}/suspend", guarded(adminOnly, a.suspendSeller)).Methods(http.MethodPost)
	r.Handle("/api/reports/{id}/review", guarded(adminOnly, a.reviewReport)).Methods(http.MethodPost)
	r.Handle("/api/reports/{id}/resolve", guarded(adminOnly, a.resolveReport)).Methods(http.MethodPost)
	r.Handle("/api/reports/{id}/dismiss", guarded(adminOnly, a.dismissReport)).Methods(http.MethodPost)
	r.Handle("/api/users/{id}/ban", guarded(adminOnly, a.banUser)).Methods(http.MethodPost)
	r.Handle("/api/users/{id}/unban", guarded(adminOnly, a.unbanUser)).Methods(http.MethodPost)

	r.Handle("/api/admin/dashboard", guarded(adminOnly, a.dashboard)).Methods(http.MethodGet)
	if d.Hub != nil {
		r.Handle("/ws/stats", middleware.RequireRole(adminOnly...)(d.Hub)).Methods(http.MethodGet)
	}

	productResource(d).register(r)
	orderResource(d).register(r)
	sellerResource(d).register(r)
	reportResource(d).register(r)
	userResource(d).register(r)

	var h http.Handler = r
	h = middleware.CORS(d.CORSOrigin)(h)
	h = middleware.LoggingMiddleware(d.Metrics)(h)
	h = logger.RequestIDMiddleware(h)
	return h
}
