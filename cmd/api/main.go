package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/project-hub/internal/api/http"
	"github.com/spec-kit/project-hub/internal/api/http/handlers"
	"github.com/spec-kit/project-hub/internal/auth"
	"github.com/spec-kit/project-hub/internal/config"
	"github.com/spec-kit/project-hub/internal/events"
	"github.com/spec-kit/project-hub/internal/mail"
	"github.com/spec-kit/project-hub/internal/observability"
	"github.com/spec-kit/project-hub/internal/persistence"
	"github.com/spec-kit/project-hub/internal/repository"
	"github.com/spec-kit/project-hub/internal/service"
	"github.com/spec-kit/project-hub/internal/token"
	"github.com/spec-kit/project-hub/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	memberRepo := repository.NewProjectMemberRepository(pool)

	var tokenStore token.Store
	switch {
	case pool != nil:
		tokenStore = token.NewPostgresStore(pool)
	case redis.Ping(ctx) == nil:
		tokenStore = token.NewRedisStore(redis.Client)
		logger.Info("using redis ephemeral token store")
	default:
		tokenStore = token.NewMemoryStore()
		logger.Warn("no postgres or redis available; ephemeral tokens are in-memory only")
	}

	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewLogDispatcher(logger, cfg.Mail.From)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Hasher:     hasher,
		Issuer:     issuer,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	invitationService := service.NewInvitationService(
		tokenStore, mailer, memberRepo, dispatcher, logger,
		cfg.Auth.InviteTTL(), cfg.App.BaseURL)
	resetService := service.NewPasswordResetService(
		userRepo, tokenStore, hasher, mailer, dispatcher, logger,
		cfg.Auth.ResetTTL(), cfg.App.BaseURL)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.Mail)

	worker.StartNotificationWorker(notificationService)
	worker.StartTokenReaper(ctx, tokenStore, cfg.Auth.ReaperInterval(), logger)

	gate := auth.NewGate(issuer, auth.DefaultRouteRules)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(metrics),
		Auth:     handlers.NewAuthHandler(authService),
		Projects: handlers.NewProjectsHandler(invitationService),
		Reset:    handlers.NewResetHandler(resetService),
		Gate:     gate,
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
