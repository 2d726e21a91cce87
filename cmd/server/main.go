package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dkoval/fincast/internal/adapter/http"
	"github.com/dkoval/fincast/internal/adapter/http/handler"
	"github.com/dkoval/fincast/internal/adapter/http/middleware"
	postgresRepo "github.com/dkoval/fincast/internal/adapter/repository/postgres"
	redisRepo "github.com/dkoval/fincast/internal/adapter/repository/redis"
	"github.com/dkoval/fincast/internal/infrastructure/config"
	"github.com/dkoval/fincast/internal/infrastructure/logger"
	"github.com/dkoval/fincast/internal/infrastructure/logging"
	"github.com/dkoval/fincast/internal/infrastructure/postgres"
	"github.com/dkoval/fincast/internal/infrastructure/redis"
	"github.com/dkoval/fincast/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	// Retrier and migrator log through slog; keep them on the same level
	// and format as the main logger.
	slog.SetDefault(logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).Logger)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	openingRepo := postgresRepo.NewOpeningBalanceRepository(pool)
	settingsRepo := postgresRepo.NewSettingsRepository(pool)
	includeRepo := postgresRepo.NewAssetIncludeRepository(pool)
	scheduleRepo := postgresRepo.NewScheduleRepository(pool)
	dailyRepo := postgresRepo.NewDailyBalanceRepository(pool)
	eventRepo := postgresRepo.NewRecurringEventRepository(pool)
	scenarioRepo := postgresRepo.NewScenarioRepository(pool)
	reportCache := redisRepo.NewReportCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	balances := usecase.NewBalanceService(accountRepo, categoryRepo, journalRepo, openingRepo, settingsRepo)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, categoryRepo, openingRepo, settingsRepo, includeRepo, idGen, reportCache)
	postingUC := usecase.NewPostingUseCase(txManager, journalRepo, accountRepo, idGen, retrier, reportCache)
	trialUC := usecase.NewTrialBalanceUseCase(balances, categoryRepo, settingsRepo, reportCache)
	forecastUC := usecase.NewForecastUseCase(txManager, scheduleRepo, dailyRepo, includeRepo, settingsRepo, journalRepo, balances, idGen, retrier, cfg.BaseCurrency)
	recurringUC := usecase.NewRecurringUseCase(eventRepo, scheduleRepo, forecastUC, idGen)
	scenarioUC := usecase.NewScenarioUseCase(txManager, scenarioRepo, scheduleRepo, idGen)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:      handler.NewAccountHandler(accountUC),
		PostingHandler:      handler.NewPostingHandler(postingUC),
		TrialBalanceHandler: handler.NewTrialBalanceHandler(trialUC),
		ForecastHandler:     handler.NewForecastHandler(forecastUC),
		RecurringHandler:    handler.NewRecurringHandler(recurringUC),
		ScenarioHandler:     handler.NewScenarioHandler(scenarioUC),
		HealthHandler:       handler.NewHealthHandler(pool, redisClient),
		LoggingMiddleware:   middleware.NewLoggingMiddleware(appLogger),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
