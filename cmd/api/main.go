package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/openshelf/storefront/internal/api/http"
	"github.com/openshelf/storefront/internal/api/http/handlers"
	"github.com/openshelf/storefront/internal/auth"
	"github.com/openshelf/storefront/internal/config"
	"github.com/openshelf/storefront/internal/events"
	"github.com/openshelf/storefront/internal/identity"
	"github.com/openshelf/storefront/internal/observability"
	"github.com/openshelf/storefront/internal/persistence"
	"github.com/openshelf/storefront/internal/qr"
	"github.com/openshelf/storefront/internal/repository"
	"github.com/openshelf/storefront/internal/service"
	"github.com/openshelf/storefront/internal/session"
	"github.com/openshelf/storefront/internal/worker"
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

	metrics := observability.NewMetrics()
	deps := map[string]handlers.Pinger{}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var users repository.UserRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		users = repository.NewUserRepository(pg.Pool)
		deps["postgres"] = pg
	}

	var store session.Store
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		store = session.NewMemoryStore(cfg.Session.IdleTTL())
	default:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		store = session.NewRedisStore(redis.Client, cfg.Session.IdleTTL())
		deps["redis"] = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Users:      users,
		Sessions:   store,
		Provider:   identity.New(cfg.Identity.SignOutURL),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	strategy, err := qr.ParseStrategy(cfg.QR.Strategy)
	if err != nil {
		logger.Fatal("invalid QR strategy", zap.Error(err))
	}
	renderer, err := qr.New(strategy, cfg.QR.HostedBaseURL)
	if err != nil {
		logger.Fatal("failed to build QR renderer", zap.Error(err))
	}
	checkoutService := service.NewCheckoutService(service.CheckoutDependencies{
		Renderer:      renderer,
		HostedBaseURL: cfg.QR.HostedBaseURL,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:      handlers.NewAuthHandler(authService, cfg.App.LoginPath, session.CookieOptions{Secure: cfg.Session.CookieSecure}),
		Dashboard: handlers.NewDashboardHandler(httptransport.LogoutPath),
		Checkout:  handlers.NewCheckoutHandler(checkoutService),
		Sessions:  auth.NewSessionMiddleware(authService.TokenManager(), store, logger),
		Metrics:   metrics.Handler(),
		LoginPath: cfg.App.LoginPath,
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
