package domain_test

import (
	"testing"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// platformFixture is ten Platform epics: three done, two late, five on
// track, one of which has been stuck at 15% for twenty days.
func platformFixture() []domain.Epic {
	return []domain.Epic{
		{Number: "PLT-1", Team: "Platform", Status: "Done", PlannedStart: dayPtr("2025-01-06"), PlannedDue: dayPtr("2025-02-28"), CompletionPercentage: ptr(100.0)},
		{Number: "PLT-2", Team: "Platform", Status: "Done", PlannedStart: dayPtr("2025-02-03"), PlannedDue: dayPtr("2025-03-31"), CompletionPercentage: ptr(100.0)},
		{Number: "PLT-3", Team: "Platform", Status: "Done", PlannedStart: dayPtr("2025-03-03"), PlannedDue: dayPtr("2025-05-30"), CompletionPercentage: ptr(100.0)},
		{Number: "PLT-4", Team: "Platform", Status: "In Progress", PlannedStart: dayPtr("2025-03-10"), PlannedDue: daysFromNow(-5), CompletionPercentage: ptr(70.0)},
		{Number: "PLT-5", Team: "Platform", Status: "In Review", PlannedStart: dayPtr("2025-04-01"), PlannedDue: daysFromNow(-1), CompletionPercentage: ptr(90.0)},
		{Number: "PLT-6", Team: "Platform", Status: "Development", PlannedStart: daysFromNow(-20), PlannedDue: daysFromNow(60), CompletionPercentage: ptr(15.0)},
		{Number: "PLT-7", Team: "Platform", Status: "In Progress", PlannedStart: dayPtr("2025-05-05"), PlannedDue: daysFromNow(45), CompletionPercentage: ptr(55.0)},
		{Number: "PLT-8", Team: "Platform", Status: "To Do", PlannedStart: daysFromNow(5), PlannedDue: daysFromNow(90)},
		{Number: "PLT-9", Team: "Platform", Status: "To Do", PlannedStart: daysFromNow(30), PlannedDue: daysFromNow(120)},
		{Number: "PLT-10", Team: "Platform", Status: "In Progress", PlannedStart: dayPtr("2025-05-20"), PlannedDue: daysFromNow(30), CompletionPercentage: ptr(40.0)},
	}
}

func TestAggregate_PlatformCurrentYear(t *testing.T) {
	rules := domain.DefaultRules()
	noise := []domain.Epic{
		{Number: "MOB-1", Team: "Mobile", Status: "In Progress", PlannedStart: dayPtr("2025-02-01"), PlannedDue: daysFromNow(-3)},
		{Number: "PLT-OLD", Team: "Platform", Status: "Done", PlannedStart: dayPtr("2023-01-01"), PlannedDue: dayPtr("2023-06-30")},
	}
	all := append(platformFixture(), noise...)

	period := domain.ResolvePeriod(domain.PeriodCurrentYear, nil, nil, fixedNow)
	filter := domain.EpicFilter{Team: "Platform"}.WithRange(period)

	stats := rules.Aggregate(domain.FilterEpics(all, filter), fixedNow)

	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 3, stats.StatusCounts.Done)
	assert.Equal(t, 2, stats.Late)
	assert.Equal(t, 1, stats.LowProgress)
	assert.Equal(t, 3, stats.Deliveries)
	require.Len(t, stats.Teams, 1)
	assert.Equal(t, domain.TeamRollup{Team: "Platform", Count: 10, AverageCompletion: 57, Done: 3, Late: 2}, stats.Teams[0])
}

func TestAggregate_Empty(t *testing.T) {
	stats := domain.DefaultRules().Aggregate(nil, fixedNow)

	assert.Equal(t, 0, stats.Total)
	assert.NotNil(t, stats.Teams)
	assert.Empty(t, stats.Teams)
	assert.NotNil(t, stats.StatusDistribution)
	assert.Empty(t, stats.StatusDistribution)
	assert.Nil(t, stats.TrendPercent)
	assert.Nil(t, stats.AverageCompletion)
	assert.Empty(t, stats.Timeline.Months)
}

func TestAggregate_CountsNeverExceedTotal(t *testing.T) {
	stats := domain.DefaultRules().Aggregate(platformFixture(), fixedNow)

	c := stats.StatusCounts
	assert.Equal(t, stats.Total, c.Done+c.InProgress+c.Other)
	assert.LessOrEqual(t, c.Done+stats.Late, stats.Total)
	assert.LessOrEqual(t, stats.NearDeadline, stats.Total)
	assert.LessOrEqual(t, stats.LowProgress, stats.Total)
}

func TestAggregate_ClosedCountsAsDone(t *testing.T) {
	epics := []domain.Epic{
		{Number: "OPS-1", Team: "Ops", Status: "Closed", PlannedStart: dayPtr("2025-01-06"), PlannedDue: daysFromNow(-30)},
		{Number: "OPS-2", Team: "Ops", Status: "Done", PlannedStart: dayPtr("2025-02-03"), PlannedDue: daysFromNow(-10)},
	}

	stats := domain.DefaultRules().Aggregate(epics, fixedNow)

	assert.Equal(t, 2, stats.StatusCounts.Done)
	assert.Zero(t, stats.Late)
	require.Len(t, stats.Teams, 1)
	assert.Equal(t, 2, stats.Teams[0].Done)
}

func TestAggregate_Groupings(t *testing.T) {
	epics := []domain.Epic{
		{Team: "Core", Status: "Done", PlannedStart: dayPtr("2025-01-15"), CompletionPercentage: ptr(100.0)},
		{Team: "Core", Status: "In Progress", PlannedStart: dayPtr("2025-01-20"), CompletionPercentage: ptr(50.0)},
		{Team: "", Status: "", PlannedStart: dayPtr("2025-03-01")},
		{Team: "Apps", Status: "Concluído", PlannedStart: dayPtr("2025-03-02")},
		{Team: "Apps", Status: "In Progress"},
	}

	stats := domain.DefaultRules().Aggregate(epics, fixedNow)

	require.Len(t, stats.Teams, 3)
	assert.Equal(t, "Apps", stats.Teams[0].Team, "ties break by name")
	assert.Equal(t, "Core", stats.Teams[1].Team)
	assert.Equal(t, domain.NoTeamLabel, stats.Teams[2].Team)
	assert.Equal(t, 75.0, stats.Teams[1].AverageCompletion)

	assert.Equal(t, domain.StatusShare{Status: "In Progress", Count: 2}, stats.StatusDistribution[0])
	assert.Contains(t, stats.StatusDistribution, domain.StatusShare{Status: domain.UndefinedStatusLabel, Count: 1})

	assert.Equal(t, []string{"2025-01", "2025-03"}, stats.Timeline.Months)
	assert.Equal(t, []int{2, 2}, stats.Timeline.Planned)
	assert.Equal(t, []int{1, 1}, stats.Timeline.ActualDone)

	require.NotNil(t, stats.AverageCompletion)
	assert.Equal(t, 30.0, *stats.AverageCompletion)
}

func TestTrend(t *testing.T) {
	got := domain.Trend(120, 100)
	require.NotNil(t, got)
	assert.Equal(t, 20.0, *got)

	got = domain.Trend(2, 3)
	require.NotNil(t, got)
	assert.Equal(t, -33.3, *got)

	assert.Nil(t, domain.Trend(5, 0))
}
