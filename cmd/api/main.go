package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/catalog-service/internal/api/http"
	"github.com/spec-kit/catalog-service/internal/api/http/handlers"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/observability"
	"github.com/spec-kit/catalog-service/internal/persistence"
	"github.com/spec-kit/catalog-service/internal/repository"
	"github.com/spec-kit/catalog-service/internal/service"
	"github.com/spec-kit/catalog-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	fileStore, err := storage.NewFileStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
	if err != nil {
		logger.Fatal("failed to init upload store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	cache := service.NewCatalogCache(redis.Client, time.Minute)
	dispatcher.Subscribe(events.EventProductChanged, func(ctx context.Context, _ events.Event) error {
		return cache.Invalidate(ctx)
	})

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		CategoryRepo: categoryRepo,
		ProductRepo:  productRepo,
		Cache:        cache,
		Dispatcher:   dispatcher,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
	})

	policies := auth.DefaultPolicies(cfg.App.APIPrefix, cfg.Upload.PublicPrefix)
	extra, err := auth.ParsePolicyEntries(cfg.Auth.ExtraPolicies)
	if err != nil {
		logger.Fatal("invalid route policy configuration", zap.Error(err))
	}
	policyTable := auth.NewPolicyTable(append(policies, extra...))
	gate := auth.NewGate(authService.TokenManager(), policyTable, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		APIPrefix:  cfg.App.APIPrefix,
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:      handlers.NewUsersHandler(authService, userService),
		Categories: handlers.NewCategoriesHandler(catalogService),
		Products:   handlers.NewProductsHandler(catalogService, fileStore, cfg.Upload.MaxGalleryFiles),
		Orders:     handlers.NewOrdersHandler(orderService),
		Gate:       gate,
	})

	app.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
