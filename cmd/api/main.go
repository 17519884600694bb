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

	httpAdapter "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/http"
	mw "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/http/middleware"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/websocket"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/auth"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/bootstrap"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/services"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger (also feeds the /logs page)
	ring := logging.NewRingBuffer(cfg.Logging.RingSize)
	logger := bootstrap.NewLogger(cfg, os.Stdout, ring)
	slog.SetDefault(logger)

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// 3. Load Classification Rules
	rules, err := config.LoadRules(cfg.Rules.File)
	if err != nil {
		logger.Error("failed to load rules", "file", cfg.Rules.File, "error", err)
		os.Exit(1)
	}

	// 4. Open the Warehouse
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	warehouse, err := bootstrap.OpenWarehouse(ctx, cfg)
	if err != nil {
		logger.Error("failed to open warehouse", "driver", cfg.Warehouse.Driver, "error", err)
		os.Exit(1)
	}
	defer warehouse.Close()
	logger.Info("warehouse connection established", "driver", cfg.Warehouse.Driver)

	// 5. Initialize Security & Real-time Components
	var tokenManager *auth.TokenManager
	if cfg.JWT.Enabled() {
		tokenManager = auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	} else {
		logger.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	hub := websocket.NewHub(ring, logger)
	go hub.Run(ctx)

	// 6. Initialize Rate Limiters
	var generalRateLimiter, exportRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		exportRateLimiter = mw.NewRateLimiter(mw.ExportRateLimiterConfig(cfg.RateLimit.ExportRPS, cfg.RateLimit.ExportBurst))
		defer exportRateLimiter.Stop()
	}

	// 7. Dependency Injection (Wiring the Hexagon)
	clock := services.Clock(time.Now)
	dashboardService := services.NewDashboardService(warehouse.Epics(), warehouse.SubTasks(), warehouse.Tickets(), rules, clock)
	ganttService := services.NewGanttService(warehouse.Epics(), rules, clock)
	reportService := services.NewReportService(warehouse.Epics(), warehouse.SubTasks(), warehouse.Tickets(), rules, clock)

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Config:           cfg,
		Logger:           logger,
		Ring:             ring,
		Hub:              hub,
		Warehouse:        warehouse,
		DashboardService: dashboardService,
		GanttService:     ganttService,
		ReportService:    reportService,
		TokenManager:     tokenManager,
		GeneralLimiter:   generalRateLimiter,
		ExportLimiter:    exportRateLimiter,
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
