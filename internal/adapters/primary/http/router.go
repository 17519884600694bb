package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	mw "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/websocket"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/auth"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

// RouterDeps are the collaborators the HTTP layer is built from.
type RouterDeps struct {
	Config           *config.Config
	Logger           *slog.Logger
	Ring             *logging.RingBuffer
	Hub              *wsAdapter.Hub
	Warehouse        WarehouseProbe
	DashboardService ports.DashboardService
	GanttService     ports.GanttService
	ReportService    ports.ReportService

	// TokenManager enables bearer auth on /api/v1 and the log endpoints.
	TokenManager *auth.TokenManager

	// Rate limiters are optional.
	GeneralLimiter *mw.RateLimiter
	ExportLimiter  *mw.RateLimiter
}

// NewRouter wires handlers and middleware into a chi router.
func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	errorHandler := NewErrorHandler(logger)

	var exportLimit func(http.Handler) http.Handler
	if d.ExportLimiter != nil {
		exportLimit = d.ExportLimiter.Middleware
	}

	dashboardHandler := NewDashboardHandler(d.DashboardService, errorHandler, logger)
	ganttHandler := NewGanttHandler(d.GanttService, errorHandler, logger)
	reportHandler := NewReportHandler(d.ReportService, errorHandler, logger, exportLimit)
	healthHandler := NewHealthHandler(d.Warehouse, d.Config.Warehouse.Driver, d.Config.App.Version)
	requireToken := mw.JWTMiddleware(d.TokenManager)

	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           d.Config.CORS.MaxAge,
	}))

	if d.GeneralLimiter != nil {
		r.Use(d.GeneralLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	if d.Ring != nil && d.Hub != nil {
		NewLogHandler(d.Ring, d.Hub, d.TokenManager, d.Config, logger).RegisterRoutes(r, requireToken)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireToken)
		dashboardHandler.RegisterRoutes(r)
		ganttHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)
	})

	return r
}
