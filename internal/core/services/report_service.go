package services

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

type ReportService struct {
	epicRepo    ports.EpicRepository
	subTaskRepo ports.SubTaskRepository
	ticketRepo  ports.TicketRepository
	rules       domain.Rules
	clock       Clock
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(
	epicRepo ports.EpicRepository,
	subTaskRepo ports.SubTaskRepository,
	ticketRepo ports.TicketRepository,
	rules domain.Rules,
	clock Clock,
) ports.ReportService {
	return &ReportService{
		epicRepo:    epicRepo,
		subTaskRepo: subTaskRepo,
		ticketRepo:  ticketRepo,
		rules:       rules.WithDefaults(),
		clock:       clock,
	}
}

// ListEpics returns the filtered epic rows annotated with their indicator.
func (s *ReportService) ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error) {
	if err := validateBounds(filter.Bounds.Start, filter.Bounds.End); err != nil {
		return nil, err
	}

	epics, err := s.epicRepo.ListEpics(ctx, filter)
	if err != nil {
		return nil, warehouseError(err)
	}
	return s.rules.Annotate(epics, s.clock.now()), nil
}

func (s *ReportService) ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error) {
	if err := validateBounds(filter.Bounds.Start, filter.Bounds.End); err != nil {
		return nil, err
	}

	tasks, err := s.subTaskRepo.ListSubTasks(ctx, filter)
	if err != nil {
		return nil, warehouseError(err)
	}
	return tasks, nil
}

func (s *ReportService) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error) {
	if err := validateBounds(filter.Created.Start, filter.Created.End); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListTickets(ctx, filter)
	if err != nil {
		return nil, warehouseError(err)
	}
	return tickets, nil
}
