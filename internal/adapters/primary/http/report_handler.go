package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mw "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/http/middleware"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/validation"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/export"
)

// ReportHandler serves the tabular reports as JSON and CSV downloads.
type ReportHandler struct {
	reportService ports.ReportService
	exporter      *export.Exporter
	errorHandler  *ErrorHandler
	logger        *slog.Logger
	now           func() time.Time

	// exportLimit wraps the download route when set.
	exportLimit func(http.Handler) http.Handler
}

func NewReportHandler(
	reportService ports.ReportService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
	exportLimit func(http.Handler) http.Handler,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exporter:      export.NewExporter(reportService),
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "report"),
		now:           time.Now,
		exportLimit:   exportLimit,
	}
}

func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/reports/{kind}", func(r chi.Router) {
		r.Get("/", h.HandleListReport)
		r.Group(func(r chi.Router) {
			if h.exportLimit != nil {
				r.Use(h.exportLimit)
			}
			r.Get("/export", h.HandleExportReport)
		})
	})
}

// reportRequest resolves the report kind, the token scope and the filters.
// A period key without explicit dates is resolved to bounds.
func (h *ReportHandler) reportRequest(r *http.Request) (export.Report, export.Query, error) {
	name := chi.URLParam(r, "kind")
	report, ok := export.ParseReport(name)
	if !ok {
		return "", export.Query{}, export.UnknownReportError(name)
	}

	if claims, ok := mw.ClaimsFromContext(r.Context()); ok && !claims.Allows(string(report)) {
		return "", export.Query{}, apperrors.NewForbiddenError(fmt.Sprintf("Token does not grant access to the %s report", report))
	}

	params, err := validation.ParseFilterParams(r)
	if err != nil {
		return "", export.Query{}, err
	}

	bounds := params.Bounds()
	if bounds.IsZero() && params.Period != "" {
		bounds = domain.BoundsOf(domain.ResolvePeriod(params.Period, nil, nil, h.now()))
	}

	return report, export.Query{
		Team:    params.Team,
		Product: params.Product,
		Status:  params.Status,
		Type:    params.Type,
		Stage:   params.Stage,
		Search:  params.Search,
		Bounds:  bounds,
	}, nil
}

func (h *ReportHandler) HandleListReport(w http.ResponseWriter, r *http.Request) {
	report, q, err := h.reportRequest(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	ctx := r.Context()
	switch report {
	case export.ReportEpics:
		rows, err := h.reportService.ListEpics(ctx, q.EpicFilter())
		if HandleError(w, r, err, h.errorHandler) {
			return
		}
		WriteList(w, mapSlice(rows, ToEpicDTO))
	case export.ReportSubTasks:
		rows, err := h.reportService.ListSubTasks(ctx, q.SubTaskFilter())
		if HandleError(w, r, err, h.errorHandler) {
			return
		}
		WriteList(w, mapSlice(rows, ToSubTaskDTO))
	case export.ReportTickets:
		rows, err := h.reportService.ListTickets(ctx, q.TicketFilter())
		if HandleError(w, r, err, h.errorHandler) {
			return
		}
		WriteList(w, mapSlice(rows, ToTicketDTO))
	}
}

// HandleExportReport renders the CSV in memory so a warehouse failure can
// still be reported with a proper status code.
func (h *ReportHandler) HandleExportReport(w http.ResponseWriter, r *http.Request) {
	report, q, err := h.reportRequest(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	var buf bytes.Buffer
	rows, err := h.exporter.Export(r.Context(), &buf, report, q)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	filename := h.exporter.Filename(report, q, h.now())
	h.logger.InfoContext(r.Context(), "report exported",
		"report", report,
		"rows", rows,
		"bytes", buf.Len(),
		"filename", filename,
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
