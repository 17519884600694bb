package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/validation"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

// DashboardHandler serves the KPI dashboard, its filter options and the
// alert drill-downs.
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

func NewDashboardHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes mounts /dashboard and /alerts.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.HandleGetDashboard)
	r.Get("/dashboard/filters", h.HandleGetFilterOptions)
	r.Get("/alerts/{kind}", h.HandleGetAlertDetails)
}

func dashboardQuery(p validation.FilterParams) ports.DashboardQuery {
	return ports.DashboardQuery{
		Team:    p.Team,
		Product: p.Product,
		Status:  p.Status,
		Period:  p.Period,
		Start:   p.Start,
		End:     p.End,
	}
}

// HandleGetDashboard returns the dashboard. On failure the body still
// carries zero-valued stats next to the error so the page can render.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := validation.ParseFilterParams(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	q := dashboardQuery(params)
	dashboard, err := h.dashboardService.GetDashboard(r.Context(), q)
	if err != nil {
		status, resp := h.errorHandler.Resolve(r, err)
		WriteJSON(w, status, DashboardDTO{
			Stats: ToStatsDTO(domain.EmptyStats()),
			Filters: AppliedFiltersDTO{
				Team:    q.Team,
				Product: q.Product,
				Status:  q.Status,
				Period:  string(q.Period),
				Start:   dateString(q.Start),
				End:     dateString(q.End),
			},
			Error: &resp,
		})
		return
	}

	h.logger.DebugContext(r.Context(), "dashboard computed",
		"period", dashboard.Period.Key,
		"total", dashboard.Stats.Total,
	)
	WriteJSON(w, http.StatusOK, ToDashboardDTO(dashboard))
}

func (h *DashboardHandler) HandleGetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dashboardService.GetFilterOptions(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, ToFilterOptionsDTO(opts))
}

func (h *DashboardHandler) HandleGetAlertDetails(w http.ResponseWriter, r *http.Request) {
	params, err := validation.ParseFilterParams(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	kind := domain.AlertKind(chi.URLParam(r, "kind"))
	details, err := h.dashboardService.GetAlertDetails(r.Context(), kind, dashboardQuery(params))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, mapSlice(details, ToAlertDetailDTO))
}
