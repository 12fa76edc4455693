package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kaamsetu/internal/catalog"
	"kaamsetu/internal/config"
	"kaamsetu/internal/handler"
	"kaamsetu/internal/metrics"
	"kaamsetu/internal/middleware"
	"kaamsetu/internal/repository"
	"kaamsetu/internal/service"
	"kaamsetu/internal/session"
	"kaamsetu/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("starting kaamsetu", slog.Any("config", cfg))

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		fatal(logger, "failed to register validators", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer dbPool.Close()

	if err := config.RunMigrations(dbPool); err != nil {
		fatal(logger, "failed to migrate database", err)
	}

	// --- Session revocation ---
	var revoker session.Revoker = session.NopRevoker{}
	if cfg.Redis.Addr != "" {
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			fatal(logger, "failed to connect to redis", err)
		}
		defer rdb.Close()
		revoker = session.NewRedisRevoker(rdb)
		logger.Info("session revocation enabled", slog.String("redis", cfg.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR not set, logged out tokens stay valid until they expire")
	}

	// --- Catalog ---
	items := catalog.NewStatic()
	if cfg.CatalogPath != "" {
		items, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			fatal(logger, "failed to load catalog", err)
		}
	}
	logger.Info("catalog loaded", slog.Int("services", len(items.Services())))

	// --- Repositories and Services ---
	accountRepo := repository.NewAccountRepository(dbPool)
	bookingRepo := repository.NewBookingRepository(dbPool)

	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := service.NewAuthService(accountRepo, jwtUtil, revoker)
	bookingService := service.NewBookingService(bookingRepo, items)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).WithIdleTTL(cfg.RateLimit.IdleTTL)

	// --- Router ---
	router, err := handler.NewRouter(handler.RouterDeps{
		Auth:     authService,
		Bookings: bookingService,
		Catalog:  items,
		Metrics:  metrics.New(),
		Log:      logger,
		DB:       dbPool,
		Limiter:  limiter,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			TTL:    jwtUtil.TTL(),
		},
		CORSOrigins:    cfg.HTTPServer.CORSOrigins,
		TrustedProxies: cfg.HTTPServer.TrustedProxies,
	})
	if err != nil {
		fatal(logger, "failed to build router", err)
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err := <-serverErr:
		logger.Error("server stopped unexpectedly", utils.Err(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", utils.Err(err))
	}

	logger.Info("server exited", slog.Duration("uptime", time.Since(startedAt)))
}

var startedAt = time.Now()

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, utils.Err(err))
	os.Exit(1)
}
