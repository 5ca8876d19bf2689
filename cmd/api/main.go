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

	httpAdapter "github.com/lorrc/coordination-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/coordination-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/coordination-backend/internal/adapters/primary/websocket"
	"github.com/lorrc/coordination-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/coordination-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/coordination-backend/internal/adapters/secondary/seed"
	"github.com/lorrc/coordination-backend/internal/auth"
	"github.com/lorrc/coordination-backend/internal/config"
	"github.com/lorrc/coordination-backend/internal/core/ports"
	"github.com/lorrc/coordination-backend/internal/core/services"
	"github.com/lorrc/coordination-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"snapshot_source", cfg.Snapshot.Source,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Select the snapshot source
	checks := map[string]httpAdapter.HealthChecker{}
	var source ports.SnapshotSource
	switch cfg.Snapshot.Source {
	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connection established")

		source = postgres.NewSnapshotRepository(pool)
		checks["database"] = pool
	default:
		source = seed.NewSource(cfg.Snapshot.SeedPath)
	}

	// 4. Load and validate the snapshot once; it is immutable afterwards
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Snapshot.LoadTimeout)
	snapshot, err := services.LoadSnapshot(loadCtx, source)
	cancelLoad()
	if err != nil {
		logger.Error("failed to load snapshot", "source", source.Name(), "error", err)
		os.Exit(1)
	}
	logger.Info("snapshot loaded",
		"source", source.Name(),
		"teams", len(snapshot.Teams()),
		"features", len(snapshot.Features()),
		"dependencies", len(snapshot.Dependencies()),
		"sprints", len(snapshot.Sprints()),
	)
	checks["snapshot"] = httpAdapter.CheckFunc(func(context.Context) error { return nil })

	// 5. Initialize Security & Real-time Components
	var tokenValidator mw.TokenValidator
	if cfg.Auth.Enabled {
		tokenValidator = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	}

	hub := websocket.NewHub(logger)
	hub.SetKeepalive(cfg.WebSocket.PingInterval, cfg.WebSocket.PongWait)
	go hub.Run(ctx)

	errorHandler := httpAdapter.NewErrorHandler(logger)

	// 6. Initialize Rate Limiters
	var generalRateLimiter, writeRateLimiter *mw.RateLimiter
	var writeLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		generalCfg := mw.DefaultRateLimiterConfig()
		generalCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		generalCfg.BurstSize = cfg.RateLimit.BurstSize
		generalCfg.Respond = errorHandler.Handle
		generalRateLimiter = mw.NewRateLimiter(generalCfg)
		defer generalRateLimiter.Stop()

		writeCfg := mw.DefaultRateLimiterConfig()
		writeCfg.RequestsPerSecond = cfg.RateLimit.WriteRPS
		writeCfg.BurstSize = cfg.RateLimit.WriteBurst
		writeCfg.TTL = 5 * time.Minute
		writeCfg.Respond = errorHandler.Handle
		writeRateLimiter = mw.NewSessionRateLimiter(writeCfg)
		defer writeRateLimiter.Stop()
		writeLimit = writeRateLimiter.Middleware
	}

	// 7. Dependency Injection (Wiring the Hexagon)
	dismissals := memory.NewDismissalStore()
	coordinationService := services.NewCoordinationService(snapshot, dismissals, hub)

	coordinationHandler := httpAdapter.NewCoordinationHandler(coordinationService, errorHandler, writeLimit, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenValidator, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(cfg.App.Version, checks)

	// 8. Setup Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Tokens:         tokenValidator,
		Limiter:        generalRateLimiter,
		Errors:         errorHandler,
	}, coordinationHandler, healthHandler, wsHandler)

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "auth_enabled", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	stop()

	logger.Info("server shutdown complete", "sessions", dismissals.Sessions())
}
