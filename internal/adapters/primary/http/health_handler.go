package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

// WarehouseProbe is the part of the warehouse the health endpoints read.
type WarehouseProbe interface {
	Ping(ctx context.Context) error
	Epics() ports.EpicRepository
	SubTasks() ports.SubTaskRepository
	Tickets() ports.TicketRepository
}

// Warehouse states reported by the probes.
const (
	warehouseHealthy     = "healthy"
	warehouseEmpty       = "empty"
	warehouseUnreachable = "unreachable"
	warehouseFailing     = "failing"
)

// HealthHandler reports whether the reporting store behind the dashboard is
// reachable and holds data.
type HealthHandler struct {
	warehouse WarehouseProbe
	driver    string
	version   string
	started   time.Time
	timeout   time.Duration
}

func NewHealthHandler(warehouse WarehouseProbe, driver, version string) *HealthHandler {
	return &HealthHandler{
		warehouse: warehouse,
		driver:    driver,
		version:   version,
		started:   time.Now(),
		timeout:   5 * time.Second,
	}
}

type healthResponse struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Warehouse *warehouseStatus `json:"warehouse,omitempty"`
}

type warehouseStatus struct {
	Driver  string         `json:"driver"`
	Status  string         `json:"status"`
	Error   string         `json:"error,omitempty"`
	Latency string         `json:"latency,omitempty"`
	Rows    *warehouseRows `json:"rows,omitempty"`
}

// warehouseRows counts what the dashboard and the exports read.
type warehouseRows struct {
	EpicRows    int `json:"epic_rows"`
	SubTasks    int `json:"subtasks"`
	OpenTickets int `json:"open_tickets"`
}

// HandleLiveness answers as long as the process serves HTTP.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// HandleReadiness pings the warehouse. Traffic is refused while it is
// unreachable; an empty warehouse is still ready.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ws := h.ping(ctx)
	h.write(w, ws)
}

// HandleHealth pings the warehouse and counts the rows the reports are built
// from.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ws := h.ping(ctx)
	if ws.Status == warehouseHealthy {
		h.count(ctx, ws)
	}
	h.write(w, ws)
}

func (h *HealthHandler) ping(ctx context.Context) *warehouseStatus {
	ws := &warehouseStatus{Driver: h.driver, Status: warehouseHealthy}
	if h.warehouse == nil {
		ws.Status = warehouseUnreachable
		ws.Error = "warehouse not configured"
		return ws
	}

	start := time.Now()
	err := h.warehouse.Ping(ctx)
	ws.Latency = time.Since(start).String()
	if err != nil {
		ws.Status = warehouseUnreachable
		ws.Error = err.Error()
	}
	return ws
}

func (h *HealthHandler) count(ctx context.Context, ws *warehouseStatus) {
	var rows warehouseRows
	var err error

	if rows.EpicRows, err = h.warehouse.Epics().CountEpics(ctx, domain.EpicFilter{}); err != nil {
		ws.Status, ws.Error = warehouseFailing, err.Error()
		return
	}
	if rows.SubTasks, err = h.warehouse.SubTasks().CountSubTasks(ctx); err != nil {
		ws.Status, ws.Error = warehouseFailing, err.Error()
		return
	}
	if rows.OpenTickets, err = h.warehouse.Tickets().CountTickets(ctx, domain.TicketFilter{OpenOnly: true}); err != nil {
		ws.Status, ws.Error = warehouseFailing, err.Error()
		return
	}

	ws.Rows = &rows
	if rows.EpicRows == 0 {
		ws.Status = warehouseEmpty
	}
}

func (h *HealthHandler) write(w http.ResponseWriter, ws *warehouseStatus) {
	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Warehouse: ws,
	}

	code := http.StatusOK
	switch ws.Status {
	case warehouseEmpty:
		resp.Status = "degraded"
	case warehouseUnreachable, warehouseFailing:
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, resp)
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}
