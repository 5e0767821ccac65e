package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amatak/storefront-backend/api/controllers"
	"github.com/amatak/storefront-backend/api/routes"
	"github.com/amatak/storefront-backend/internal/cart"
	"github.com/amatak/storefront-backend/internal/catalog"
	checkoutsvc "github.com/amatak/storefront-backend/internal/checkout"
	"github.com/amatak/storefront-backend/internal/orders"
	"github.com/amatak/storefront-backend/internal/profile"
	"github.com/amatak/storefront-backend/internal/session"
	"github.com/amatak/storefront-backend/internal/wishlist"
	"github.com/amatak/storefront-backend/pkg/config"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, watcher, pinger, closer, err := buildStorage(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				logg.Error(context.Background(), "error closing storage", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	sessionSvc, err := session.NewService(session.ServiceParams{
		Store:      store,
		AdminEmail: cfg.Admin.Email,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Store:    store,
		Watcher:  watcher,
		Sessions: sessionSvc,
		Logger:   logg,
		Metrics:  storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Store:   store,
		Watcher: watcher,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Store:      store,
		Watcher:    watcher,
		Cart:       cartSvc,
		Stock:      catalogSvc,
		Authorizer: checkoutsvc.NewSimulatedGateway(cfg.Checkout.AuthorizeDelay),
		Config:     cfg.Checkout,
		Logger:     logg,
		Metrics:    storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Store:   store,
		Watcher: watcher,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		Store:   store,
		Watcher: watcher,
		Catalog: catalogSvc,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	profileSvc, err := profile.NewService(profile.ServiceParams{
		Store:   store,
		Watcher: watcher,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, pinger, registry, routes.Services{
			Session:  sessionSvc,
			Cart:     cartSvc,
			Catalog:  catalogSvc,
			Checkout: checkoutSvc,
			Orders:   ordersSvc,
			Wishlist: wishlistSvc,
			Profile:  profileSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildStorage selects the configured backend. The memory backend keeps
// everything in process and has nothing to ping or close; the redis backend
// doubles as the watcher so change events cross process boundaries.
func buildStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kv.Store, kv.Watcher, controllers.Pinger, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return kv.NewMemoryStore(), kv.NewBus(), nil, nil, nil
	case config.StorageBackendRedis:
		store, err := kv.NewRedisStore(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return store, store, store, store, nil
	default:
		store, err := kv.NewGormStore(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return store, kv.NewBus(), store, store, nil
	}
}
