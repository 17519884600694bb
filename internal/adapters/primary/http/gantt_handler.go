package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/validation"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

type GanttHandler struct {
	ganttService ports.GanttService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewGanttHandler(ganttService ports.GanttService, errorHandler *ErrorHandler, logger *slog.Logger) *GanttHandler {
	return &GanttHandler{
		ganttService: ganttService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "gantt"),
	}
}

func (h *GanttHandler) RegisterRoutes(r chi.Router) {
	r.Get("/gantt", h.HandleGetGantt)
}

func (h *GanttHandler) HandleGetGantt(w http.ResponseWriter, r *http.Request) {
	params, err := validation.ParseFilterParams(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	view, err := h.ganttService.GetGantt(r.Context(), ports.GanttQuery{
		Team:       params.Team,
		Status:     params.Status,
		RecordType: params.RecordType,
		Period:     params.Period,
		Start:      params.Start,
		End:        params.End,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.DebugContext(r.Context(), "gantt projected",
		"bars", len(view.Chart.Bars),
		"epics", view.Chart.TotalEpics,
	)
	WriteJSON(w, http.StatusOK, ToGanttDTO(view))
}
