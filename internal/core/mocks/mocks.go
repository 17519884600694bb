package mocks

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockEpicRepository is a mock implementation of ports.EpicRepository
type MockEpicRepository struct {
	mock.Mock
}

var _ ports.EpicRepository = (*MockEpicRepository)(nil)

func NewMockEpicRepository() *MockEpicRepository {
	return &MockEpicRepository{}
}

func (m *MockEpicRepository) ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Epic), args.Error(1)
}

func (m *MockEpicRepository) CountEpics(ctx context.Context, filter domain.EpicFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockEpicRepository) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterOptions), args.Error(1)
}

// MockSubTaskRepository is a mock implementation of ports.SubTaskRepository
type MockSubTaskRepository struct {
	mock.Mock
}

var _ ports.SubTaskRepository = (*MockSubTaskRepository)(nil)

func NewMockSubTaskRepository() *MockSubTaskRepository {
	return &MockSubTaskRepository{}
}

func (m *MockSubTaskRepository) ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) CountSubTasks(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

var _ ports.TicketRepository = (*MockTicketRepository)(nil)

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MaintenanceTicket), args.Error(1)
}

func (m *MockTicketRepository) CountTickets(ctx context.Context, filter domain.TicketFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

var _ ports.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) GetDashboard(ctx context.Context, q ports.DashboardQuery) (*ports.Dashboard, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Dashboard), args.Error(1)
}

func (m *MockDashboardService) GetAlertDetails(ctx context.Context, kind domain.AlertKind, q ports.DashboardQuery) ([]domain.AlertDetail, error) {
	args := m.Called(ctx, kind, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AlertDetail), args.Error(1)
}

func (m *MockDashboardService) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterOptions), args.Error(1)
}

// MockGanttService is a mock implementation of ports.GanttService
type MockGanttService struct {
	mock.Mock
}

var _ ports.GanttService = (*MockGanttService)(nil)

func NewMockGanttService() *MockGanttService {
	return &MockGanttService{}
}

func (m *MockGanttService) GetGantt(ctx context.Context, q ports.GanttQuery) (*ports.GanttView, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GanttView), args.Error(1)
}

// MockReportService is a mock implementation of ports.ReportService
type MockReportService struct {
	mock.Mock
}

var _ ports.ReportService = (*MockReportService)(nil)

func NewMockReportService() *MockReportService {
	return &MockReportService{}
}

func (m *MockReportService) ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Epic), args.Error(1)
}

func (m *MockReportService) ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubTask), args.Error(1)
}

func (m *MockReportService) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MaintenanceTicket), args.Error(1)
}
