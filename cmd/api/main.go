package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/insured-person-service/internal/api/http"
	"github.com/spec-kit/insured-person-service/internal/api/http/handlers"
	"github.com/spec-kit/insured-person-service/internal/auth"
	"github.com/spec-kit/insured-person-service/internal/config"
	"github.com/spec-kit/insured-person-service/internal/events"
	"github.com/spec-kit/insured-person-service/internal/observability"
	"github.com/spec-kit/insured-person-service/internal/persistence"
	"github.com/spec-kit/insured-person-service/internal/repository"
	"github.com/spec-kit/insured-person-service/internal/service"
	"github.com/spec-kit/insured-person-service/internal/worker"
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
	personRepo := repository.NewInsuredPersonRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	pictureCache := repository.NewPictureCache(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := service.NewMailer(cfg.Mail, logger)
	passcodes := auth.NewPasscodeStore(cfg.Auth.ResetCodeTTLMinutes)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		PersonRepo:    personRepo,
		PasscodeStore: passcodes,
		Mailer:        mailer,
		Dispatcher:    dispatcher,
	})
	personService := service.NewInsuredPersonService(*cfg, service.PersonDependencies{
		PersonRepo:   personRepo,
		DocumentRepo: documentRepo,
		PictureCache: pictureCache,
		Mailer:       mailer,
		Dispatcher:   dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	gateway := auth.NewGateway(authService.TokenManager(), httptransport.PublicPaths)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:    handlers.NewAuthHandler(authService),
		Persons: handlers.NewInsuredPersonsHandler(personService),
		Gateway: gateway,
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
