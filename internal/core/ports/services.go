package ports

import (
	"context"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

// DashboardQuery carries the dashboard filter bar.
type DashboardQuery struct {
	Team    string
	Product string
	Status  string
	Period  domain.PeriodKey
	Start   *time.Time
	End     *time.Time
}

// PeriodInfo describes the resolved reporting window.
type PeriodInfo struct {
	Key         domain.PeriodKey
	Description string
	Range       domain.DateRange
}

// Dashboard is the full dashboard payload.
type Dashboard struct {
	Stats         domain.DashboardStats
	Period        PeriodInfo
	Query         DashboardQuery
	TotalSubTasks int
	Backlog       int
	GeneratedAt   time.Time
}

// GanttQuery carries the Gantt filter bar.
type GanttQuery struct {
	Team       string
	Status     string
	RecordType domain.RecordType
	Period     domain.PeriodKey
	Start      *time.Time
	End        *time.Time
}

// GanttView is the projected chart with the period it was built for.
type GanttView struct {
	Chart  domain.GanttChart
	Period PeriodInfo
	Query  GanttQuery
}

type DashboardService interface {
	GetDashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error)
	GetAlertDetails(ctx context.Context, kind domain.AlertKind, q DashboardQuery) ([]domain.AlertDetail, error)
	GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

type GanttService interface {
	GetGantt(ctx context.Context, q GanttQuery) (*GanttView, error)
}

type ReportService interface {
	ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error)
	ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error)
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error)
}
