package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/mocks"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGanttService_GetGantt(t *testing.T) {
	ctx := context.Background()

	t.Run("all periods narrow to the current year", func(t *testing.T) {
		repo := mocks.NewMockEpicRepository()
		svc := services.NewGanttService(repo, domain.DefaultRules(), fixedClock)

		repo.On("ListEpics", ctx, mock.MatchedBy(func(f domain.EpicFilter) bool {
			r := f.Bounds.Range()
			return f.RequireSchedule && f.Team == "Platform" &&
				r.Start.Format(domain.DateLayout) == "2025-01-01" &&
				r.End.Format(domain.DateLayout) == "2025-12-31"
		})).Return([]domain.Epic{}, nil)

		view, err := svc.GetGantt(ctx, ports.GanttQuery{Team: "Platform", Period: domain.PeriodAll})

		require.NoError(t, err)
		assert.Empty(t, view.Chart.Bars)
		assert.Equal(t, domain.CurrentYear(fixedNow), view.Chart.VisibleRange)
		assert.Equal(t, domain.PeriodAll, view.Period.Key)
		repo.AssertExpectations(t)
	})

	t.Run("projects rows into bars", func(t *testing.T) {
		repo := mocks.NewMockEpicRepository()
		svc := services.NewGanttService(repo, domain.DefaultRules(), fixedClock)

		repo.On("ListEpics", ctx, mock.Anything).Return([]domain.Epic{
			{
				Number: "PLT-1", Summary: "Billing", Team: "Platform", Status: "Done",
				PlannedStart: dayPtr("2025-04-01"), PlannedDue: dayPtr("2025-05-01"),
				TaskStartActual: dayPtr("2025-04-03"), TaskFinishActual: dayPtr("2025-04-28"),
				RecordType: domain.RecordTypeActualByTeam,
			},
		}, nil)

		view, err := svc.GetGantt(ctx, ports.GanttQuery{Period: domain.PeriodQ2})

		require.NoError(t, err)
		require.Len(t, view.Chart.Bars, 1)
		assert.Equal(t, domain.ColorActualDone, view.Chart.Bars[0].Style.Color)
		assert.Equal(t, 1, view.Chart.TotalEpics)
	})

	t.Run("record type narrows the rows", func(t *testing.T) {
		repo := mocks.NewMockEpicRepository()
		svc := services.NewGanttService(repo, domain.DefaultRules(), fixedClock)

		row := func(rt domain.RecordType) domain.Epic {
			return domain.Epic{
				Number: "PLT-1", Summary: "Billing", Team: "Platform", Status: "In Progress",
				PlannedStart: dayPtr("2025-04-01"), PlannedDue: dayPtr("2025-09-01"),
				TaskStartActual: dayPtr("2025-04-03"), TaskFinishActual: dayPtr("2025-08-28"),
				RecordType: rt,
			}
		}
		repo.On("ListEpics", ctx, mock.Anything).Return([]domain.Epic{
			row(domain.RecordTypePlannedByOwner), row(domain.RecordTypePlannedByTeam), row(domain.RecordTypeActualByTeam),
		}, nil)

		view, err := svc.GetGantt(ctx, ports.GanttQuery{Period: domain.PeriodQ2, RecordType: domain.RecordTypePlannedByTeam})

		require.NoError(t, err)
		require.Len(t, view.Chart.Bars, 1)
		assert.Equal(t, domain.RecordTypePlannedByTeam, view.Chart.Bars[0].RecordType)
		assert.Equal(t, domain.RecordTypePlannedByTeam, view.Query.RecordType)
	})

	t.Run("warehouse failure", func(t *testing.T) {
		repo := mocks.NewMockEpicRepository()
		svc := services.NewGanttService(repo, domain.DefaultRules(), fixedClock)

		repo.On("ListEpics", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		view, err := svc.GetGantt(ctx, ports.GanttQuery{})

		assert.Nil(t, view)
		assert.ErrorIs(t, err, apperrors.ErrConnectionFailure)
	})
}

func TestReportService(t *testing.T) {
	ctx := context.Background()

	t.Run("epics are annotated", func(t *testing.T) {
		epics := mocks.NewMockEpicRepository()
		svc := services.NewReportService(epics, mocks.NewMockSubTaskRepository(), mocks.NewMockTicketRepository(),
			domain.DefaultRules(), fixedClock)

		filter := domain.EpicFilter{Search: "billing"}
		epics.On("ListEpics", ctx, filter).Return([]domain.Epic{
			{Number: "PLT-1", Status: "In Progress", PlannedDue: daysFromNow(-1)},
		}, nil)

		got, err := svc.ListEpics(ctx, filter)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.IndicatorLate, got[0].Indicator)
	})

	t.Run("subtasks pass through", func(t *testing.T) {
		subtasks := mocks.NewMockSubTaskRepository()
		svc := services.NewReportService(mocks.NewMockEpicRepository(), subtasks, mocks.NewMockTicketRepository(),
			domain.DefaultRules(), fixedClock)

		filter := domain.SubTaskFilter{Type: "Bug"}
		subtasks.On("ListSubTasks", ctx, filter).Return([]domain.SubTask{{Number: "PLT-9"}}, nil)

		got, err := svc.ListSubTasks(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, []domain.SubTask{{Number: "PLT-9"}}, got)
	})

	t.Run("ticket failure", func(t *testing.T) {
		tickets := mocks.NewMockTicketRepository()
		svc := services.NewReportService(mocks.NewMockEpicRepository(), mocks.NewMockSubTaskRepository(), tickets,
			domain.DefaultRules(), fixedClock)

		tickets.On("ListTickets", ctx, mock.Anything).Return(nil, errors.New("boom"))

		got, err := svc.ListTickets(ctx, domain.TicketFilter{})

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrConnectionFailure)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		svc := services.NewReportService(mocks.NewMockEpicRepository(), mocks.NewMockSubTaskRepository(),
			mocks.NewMockTicketRepository(), domain.DefaultRules(), fixedClock)

		_, err := svc.ListSubTasks(ctx, domain.SubTaskFilter{
			Bounds: domain.Bounds{Start: dayPtr("2025-02-01"), End: dayPtr("2025-01-01")},
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})
}
