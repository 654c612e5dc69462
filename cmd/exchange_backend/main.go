package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/account_exchange/internal/adapters/cache/rediscache"
	"github.com/SscSPs/account_exchange/internal/adapters/nbp"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
	"github.com/SscSPs/account_exchange/internal/core/services"
	"github.com/SscSPs/account_exchange/internal/handlers"
	"github.com/SscSPs/account_exchange/internal/middleware"
	"github.com/SscSPs/account_exchange/internal/platform/config"
	"github.com/SscSPs/account_exchange/internal/ratesource"
	"github.com/SscSPs/account_exchange/internal/repositories/database/memory"
	"github.com/SscSPs/account_exchange/internal/repositories/database/pgsql"
	"github.com/SscSPs/account_exchange/internal/scheduler"
	"github.com/SscSPs/account_exchange/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

// @title Account Exchange API
// @version 1.0
// @description Looks up bank accounts and reports their balances in any currency quoted by the NBP.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, dbPool, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize account store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	store, closeStore, err := setupRateStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize rate cache", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	nbpClient := nbp.NewClient(cfg.NBPBaseURL, cfg.NBPTimeout, logger)
	rates := ratesource.New(nbpClient.FetchRate, store, ratesource.Config{
		Name:    nbpClient.BaseURL(),
		Retry:   cfg.RetryPolicy(),
		Breaker: cfg.BreakerSettings(),
	}, logger)

	serviceContainer := services.NewServiceContainer(cfg.BaseCurrency, repos, rates)

	jobs := scheduler.New(ctx, cfg.Location(), logger)
	if err := jobs.AddJob(cfg.RateEvictionSchedule, scheduler.NewEvictExchangeRatesJob(serviceContainer.Housekeeping)); err != nil {
		logger.Error("Failed to schedule exchange rate eviction", slog.String("schedule", cfg.RateEvictionSchedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimiter, err := middleware.NewInMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig(cfg)))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, middleware.RateLimit(rateLimiter))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("base_currency", cfg.BaseCurrency.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
}

// setupRepositories connects to PostgreSQL when a database URL is configured and
// falls back to the in-memory demo accounts otherwise. The pool is nil in the latter case.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, *pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, serving in-memory demo accounts")
		repos, err := memory.NewRepositoryProvider(memory.DemoAccounts()...)
		return repos, nil, err
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), dbPool, nil
}

// setupRateStore returns the configured rate cache backend and a function releasing it.
func setupRateStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ratesource.RateStore, func(), error) {
	if cfg.RateCacheBackend != config.CacheBackendRedis {
		return ratesource.NewMemoryStore(), func() {}, nil
	}

	client := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	store := rediscache.NewRateStore(client, cfg.RateCacheKey)
	if err := store.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("Using redis rate cache", slog.String("addr", cfg.RedisAddr), slog.String("key", cfg.RateCacheKey))
	return store, func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}
