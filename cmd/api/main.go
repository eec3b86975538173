package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Brunux-hub/Cafe-eria.hub/internal/api/http"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/http/handlers"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/auth"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/config"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/observability"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/persistence"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/realtime"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/service"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/session"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	promotionRepo := repository.NewPromotionRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)

	registry := session.NewRegistry(session.NewRedisStore(redis.Client), cfg.Session)
	dispatcher := events.NewDispatcher()
	broadcaster := realtime.NewBroadcaster(logger, metrics)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Registry:   registry,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	productService := service.NewProductService(productRepo, dispatcher)
	catalogService := service.NewCatalogService(categoryRepo, promotionRepo)
	saleService := service.NewSaleService(saleRepo, userRepo, dispatcher)

	notifier := service.NewRealtimeNotifier(dispatcher, broadcaster, logger)
	worker.StartRealtimeWorker(notifier)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), registry, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userRepo),
		Products:       handlers.NewProductsHandler(productService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Sales:          handlers.NewSalesHandler(saleService),
		Presence:       handlers.NewPresenceHandler(registry),
		AuthMiddleware: authMiddleware,
	})

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
