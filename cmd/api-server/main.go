package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/database"
	"bookhub/internal/config"
	"bookhub/internal/logging"
	"bookhub/internal/metrics"
	"bookhub/internal/microservices/http-api/handler"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/ratelimit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "api-server:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger = logger.With("service", "api-server", "env", cfg.GoEnv)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	// 2. Connect to the database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// 3. Redis is optional; without it progress reads go straight to PostgreSQL
	var progressCache *repository.ProgressCache
	if rdb, err := database.ConnectRedis(cfg); err != nil {
		logger.Warn("redis_unavailable", "error", err)
	} else {
		defer rdb.Close()
		progressCache = repository.NewProgressCache(rdb, cfg.CacheExpiry())
	}

	var m *metrics.Metrics
	if cfg.PrometheusEnabled {
		m = metrics.New()
	}

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	defer limiter.Stop()

	// 4. Repositories and services
	users := repository.NewUserRepository(db)
	refreshTokens := repository.NewRefreshTokenRepository(db)
	memberships := repository.NewMembershipRepository(db)
	books := repository.NewBookRepository(db)
	categories := repository.NewCategoryRepository(db)
	shelves := repository.NewShelfRepository(db)
	reviews := repository.NewReviewRepository(db)
	progress := repository.NewProgressRepository(db)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:            service.NewAuthService(users, refreshTokens, cfg),
		Catalog:         service.NewCatalogService(books, categories, memberships, progressCache, logger),
		Shelves:         service.NewShelfService(shelves, memberships, m, logger),
		Reviews:         service.NewReviewService(reviews, books, memberships, m, logger),
		Recommendations: service.NewRecommendationService(shelves, reviews, books),
		Progress:        service.NewProgressService(progress, books, progressCache, m, logger),
		Profiles:        service.NewProfileService(users, memberships, shelves, progress, reviews),
		Metrics:         m,
		Limiter:         limiter,
		DB:              sqlDB,
		Log:             logger,
		RequestTimeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
		WriteTimeout:      2 * cfg.RequestTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneRefreshTokens(ctx, refreshTokens, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http_server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
