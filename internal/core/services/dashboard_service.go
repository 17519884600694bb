package services

import (
	"context"
	"errors"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// DefaultPeriod is used when a request names no period.
const DefaultPeriod = domain.PeriodCurrentYear

type DashboardService struct {
	epicRepo    ports.EpicRepository
	subTaskRepo ports.SubTaskRepository
	ticketRepo  ports.TicketRepository
	rules       domain.Rules
	clock       Clock
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(
	epicRepo ports.EpicRepository,
	subTaskRepo ports.SubTaskRepository,
	ticketRepo ports.TicketRepository,
	rules domain.Rules,
	clock Clock,
) ports.DashboardService {
	return &DashboardService{
		epicRepo:    epicRepo,
		subTaskRepo: subTaskRepo,
		ticketRepo:  ticketRepo,
		rules:       rules.WithDefaults(),
		clock:       clock,
	}
}

// GetDashboard resolves the period, loads the matching epics and aggregates
// them. Any warehouse failure fails the whole dashboard.
func (s *DashboardService) GetDashboard(ctx context.Context, q ports.DashboardQuery) (*ports.Dashboard, error) {
	if err := validateBounds(q.Start, q.End); err != nil {
		return nil, err
	}

	now := s.clock.now()
	period := resolvePeriod(q.Period, q.Start, q.End, now)

	filter := domain.EpicFilter{
		Team:                q.Team,
		Product:             q.Product,
		Status:              q.Status,
		RequirePlannedStart: true,
	}.WithRange(period.Range)

	epics, err := s.epicRepo.ListEpics(ctx, filter)
	if err != nil {
		return nil, warehouseError(err)
	}

	stats := s.rules.Aggregate(s.rules.Annotate(epics, now), now)

	if prev := domain.PreviousWindow(period.Range); prev.Bounded() {
		previous, err := s.epicRepo.CountEpics(ctx, filter.WithRange(prev))
		if err != nil {
			return nil, warehouseError(err)
		}
		stats.TrendPercent = domain.Trend(stats.Total, previous)
	}

	subtasks, err := s.subTaskRepo.CountSubTasks(ctx)
	if err != nil {
		return nil, warehouseError(err)
	}

	backlog, err := s.ticketRepo.CountTickets(ctx, domain.TicketFilter{
		Team:     q.Team,
		Product:  q.Product,
		OpenOnly: true,
	})
	if err != nil {
		return nil, warehouseError(err)
	}

	q.Period = period.Key
	return &ports.Dashboard{
		Stats:         stats,
		Period:        period,
		Query:         q,
		TotalSubTasks: subtasks,
		Backlog:       backlog,
		GeneratedAt:   now,
	}, nil
}

// GetAlertDetails lists the epics raising one alert. The period is not
// applied: alerts are about today, not about the reporting window.
func (s *DashboardService) GetAlertDetails(ctx context.Context, kind domain.AlertKind, q ports.DashboardQuery) ([]domain.AlertDetail, error) {
	parsed, ok := domain.ParseAlertKind(string(kind))
	if !ok {
		return nil, apperrors.NewBadRequestError(apperrors.ErrUnknownAlertKind, "Unknown alert type: "+string(kind))
	}

	epics, err := s.epicRepo.ListEpics(ctx, domain.EpicFilter{
		Team:                q.Team,
		Product:             q.Product,
		Status:              q.Status,
		RequirePlannedStart: true,
	})
	if err != nil {
		return nil, warehouseError(err)
	}

	return s.rules.AlertDetails(parsed, epics, s.clock.now()), nil
}

func (s *DashboardService) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts, err := s.epicRepo.FilterOptions(ctx)
	if err != nil {
		return nil, warehouseError(err)
	}
	return opts, nil
}

func resolvePeriod(key domain.PeriodKey, start, end *time.Time, now time.Time) ports.PeriodInfo {
	if key == "" {
		key = DefaultPeriod
	}
	if start != nil && end != nil {
		key = domain.PeriodCustom
	}
	return ports.PeriodInfo{
		Key:         key,
		Description: domain.DescribePeriod(key, now),
		Range:       domain.ResolvePeriod(key, start, end, now),
	}
}

func validateBounds(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return apperrors.NewValidationError(apperrors.ErrInvalidDateRange, "Start date must not be after end date",
			map[string]interface{}{"start": start.Format(domain.DateLayout), "end": end.Format(domain.DateLayout)})
	}
	return nil
}

// warehouseError converts storage failures into a ConnectionFailure.
func warehouseError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewConnectionError(err)
}
