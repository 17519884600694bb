package services

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

type GanttService struct {
	epicRepo ports.EpicRepository
	rules    domain.Rules
	clock    Clock
}

var _ ports.GanttService = (*GanttService)(nil)

func NewGanttService(epicRepo ports.EpicRepository, rules domain.Rules, clock Clock) ports.GanttService {
	return &GanttService{
		epicRepo: epicRepo,
		rules:    rules.WithDefaults(),
		clock:    clock,
	}
}

// GetGantt builds the chart for the requested window. An unbounded period
// is narrowed to the current year so the chart stays readable.
func (s *GanttService) GetGantt(ctx context.Context, q ports.GanttQuery) (*ports.GanttView, error) {
	if err := validateBounds(q.Start, q.End); err != nil {
		return nil, err
	}

	now := s.clock.now()
	period := resolvePeriod(q.Period, q.Start, q.End, now)
	if !period.Range.Bounded() {
		period.Range = domain.CurrentYear(now)
	}

	rows, err := s.epicRepo.ListEpics(ctx, domain.EpicFilter{
		Team:            q.Team,
		Status:          q.Status,
		RequireSchedule: true,
	}.WithRange(period.Range))
	if err != nil {
		return nil, warehouseError(err)
	}
	if q.RecordType != domain.RecordTypeUnknown {
		rows = onlyRecordType(rows, q.RecordType)
	}

	chart := s.rules.Project(s.rules.Annotate(rows, now), period.Range, now)

	q.Period = period.Key
	return &ports.GanttView{
		Chart:  chart,
		Period: period,
		Query:  q,
	}, nil
}

func onlyRecordType(rows []domain.Epic, t domain.RecordType) []domain.Epic {
	out := make([]domain.Epic, 0, len(rows))
	for _, row := range rows {
		if row.RecordType == t {
			out = append(out, row)
		}
	}
	return out
}
