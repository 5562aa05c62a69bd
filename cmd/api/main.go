package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/credit-case-service/internal/api/http"
	"github.com/spec-kit/credit-case-service/internal/api/http/handlers"
	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/config"
	"github.com/spec-kit/credit-case-service/internal/events"
	"github.com/spec-kit/credit-case-service/internal/lifecycle"
	"github.com/spec-kit/credit-case-service/internal/observability"
	"github.com/spec-kit/credit-case-service/internal/persistence"
	"github.com/spec-kit/credit-case-service/internal/repository"
	"github.com/spec-kit/credit-case-service/internal/service"
	"github.com/spec-kit/credit-case-service/internal/storage"
	"github.com/spec-kit/credit-case-service/internal/worker"
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

	pool := pg.PoolHandle()
	caseRepo := repository.NewCaseRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)

	documentStore, err := storage.NewLocalStore(cfg.Storage.UploadDir, documentRepo)
	if err != nil {
		logger.Fatal("failed to init document store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	engine := lifecycle.NewEngine(caseRepo, lifecycle.AnyTransition, dispatcher)

	authService := service.NewAuthService(*cfg, accountRepo)
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		CaseRepo:    caseRepo,
		AccountRepo: accountRepo,
		Store:       documentStore,
		Dispatcher:  dispatcher,
		Logger:      logger,
	}, cfg.Auth.BcryptCost, cfg.Auth.OneTimePasswordLength)
	caseService := service.NewCaseService(caseRepo, documentStore, engine)
	notificationService := service.NewNotificationService(dispatcher, redis, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Clients:        handlers.NewClientsHandler(intakeService, caseService),
		Admin:          handlers.NewAdminHandler(caseService, authService),
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
