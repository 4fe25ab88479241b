package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"marketplace-be/internal/auth"
	"marketplace-be/internal/cart"
	"marketplace-be/internal/config"
	"marketplace-be/internal/crud"
	"marketplace-be/internal/dashboard"
	"marketplace-be/internal/db"
	"marketplace-be/internal/events"
	"marketplace-be/internal/export"
	"marketplace-be/internal/httpapi"
	"marketplace-be/internal/livestats"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"
	"marketplace-be/internal/middleware"
	"marketplace-be/internal/order"
	"marketplace-be/internal/payment"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seed"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/session"
	"marketplace-be/internal/store"
	"marketplace-be/internal/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}
	defer a.close()

	if err := a.start(ctx); err != nil {
		log.Fatal("failed to start background tasks", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// app holds the wired handler and the pieces that run beside it.
type app struct {
	handler http.Handler
	hub     *livestats.Hub
	stats   *livestats.Task
	limiter *middleware.Limiter
	closers []func() error
}

func (a *app) start(ctx context.Context) error {
	go a.hub.Run(ctx)
	go a.limiter.RunCleanup(ctx)
	return a.stats.Start(ctx)
}

func (a *app) close() {
	if a.stats != nil {
		a.stats.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.L().Warn("close failed", zap.Error(err))
		}
	}
}

// repos opens one repository per collection. The memory driver starts from
// the embedded seed; postgres is seeded only when a collection is empty.
type repos struct {
	products crud.Repository[product.Product]
	orders   crud.Repository[order.Order]
	sellers  crud.Repository[seller.Seller]
	reports  crud.Repository[report.Report]
	users    crud.Repository[user.User]
}

func openRepos(ctx context.Context, cfg *config.Config, data seed.Dataset) (repos, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		opt := store.WithDelay(cfg.MockDelay)
		return repos{
			products: store.NewMemory(product.Identity, data.Products, opt),
			orders:   store.NewMemory(order.Identity, data.Orders, opt),
			sellers:  store.NewMemory(seller.Identity, data.Sellers, opt),
			reports:  store.NewMemory(report.Identity, data.Reports, opt),
			users:    store.NewMemory(user.Identity, data.Users, opt),
		}, nil, nil
	}

	database, err := db.NewDatabase(cfg)
	if err != nil {
		return repos{}, nil, err
	}
	r := repos{
		products: store.NewPostgres(database, product.Kind, product.Identity),
		orders:   store.NewPostgres(database, order.Kind, order.Identity),
		sellers:  store.NewPostgres(database, seller.Kind, seller.Identity),
		reports:  store.NewPostgres(database, report.Kind, report.Identity),
		users:    store.NewPostgres(database, user.Kind, user.Identity),
	}

	seeds := []func() error{
		func() error { _, err := seed.Into(ctx, product.Kind, r.products, data.Products); return err },
		func() error { _, err := seed.Into(ctx, order.Kind, r.orders, data.Orders); return err },
		func() error { _, err := seed.Into(ctx, seller.Kind, r.sellers, data.Sellers); return err },
		func() error { _, err := seed.Into(ctx, report.Kind, r.reports, data.Reports); return err },
		func() error { _, err := seed.Into(ctx, user.Kind, r.users, data.Users); return err },
	}
	for _, s := range seeds {
		if err := s(); err != nil {
			database.Close()
			return repos{}, nil, err
		}
	}
	return r, database, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.L()
	a := &app{}

	data, err := seed.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}

	r, database, err := openRepos(ctx, cfg, data)
	if err != nil {
		return nil, err
	}
	if database != nil {
		a.closers = append(a.closers, database.Close)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	var pub events.Publisher = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		pub = np
		log.Info("publishing events to nats", zap.String("url", cfg.NATSURL))
	}
	a.closers = append(a.closers, pub.Close)

	var sessions session.Store = session.NewCacheStore(cfg.SessionTTL)
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		sessions = rs
		a.closers = append(a.closers, rs.Close)
	}

	var sink export.Sink
	if cfg.S3Bucket != "" {
		s3, err := export.NewS3Sink(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("configure s3 exports: %w", err)
		}
		sink = s3
	}

	tokens := auth.NewTokens(cfg.JWTSecret, 0)

	products := product.NewService(crud.Config[product.Product]{Repo: r.products, Publisher: pub, Metrics: m})
	orders := order.NewService(crud.Config[order.Order]{Repo: r.orders, Publisher: pub, Metrics: m}, products)
	sellers := seller.NewService(crud.Config[seller.Seller]{Repo: r.sellers, Publisher: pub, Metrics: m})
	reports := report.NewService(crud.Config[report.Report]{Repo: r.reports, Publisher: pub, Metrics: m})
	users := user.NewService(crud.Config[user.User]{Repo: r.users, Publisher: pub, Metrics: m}, tokens)

	board := dashboard.NewBuilder(products, orders, sellers, reports, users)
	a.hub = livestats.NewHub(m, cfg.CORSOrigin)
	a.stats = livestats.NewTask(cfg.StatsInterval, board, a.hub, m)
	a.limiter = middleware.NewLimiter()

	a.handler = httpapi.NewRouter(httpapi.Deps{
		Products:       products,
		Orders:         orders,
		Sellers:        sellers,
		Reports:        reports,
		Users:          users,
		Cart:           cart.NewService(sessions, products, orders, pub, m),
		Dashboard:      board,
		Sessions:       sessions,
		Tokens:         tokens,
		Limiter:        a.limiter,
		Sink:           sink,
		Metrics:        m,
		Hub:            a.hub,
		Payments:       payment.NewWebhookHandler(orders, cfg.PaymentCallbackToken),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		PageSize:       cfg.PageSize,
		CORSOrigin:     cfg.CORSOrigin,
		SessionTTL:     cfg.SessionTTL,
		InternalSecret: cfg.InternalSecretKey,
	})
	return a, nil
}
