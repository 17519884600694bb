package domain

import (
	"math"
	"sort"
	"time"
)

// MonthLayout keys timeline buckets.
const MonthLayout = "2006-01"

// StatusCounts splits epics into done, in-progress and everything else.
type StatusCounts struct {
	Done       int
	InProgress int
	Other      int
}

// TeamRollup aggregates the epics of a single team.
type TeamRollup struct {
	Team              string
	Count             int
	AverageCompletion float64
	Done              int
	Late              int
}

// StatusShare is one slice of the status distribution.
type StatusShare struct {
	Status string
	Count  int
}

// Timeline is the monthly planned versus actually-done series.
type Timeline struct {
	Months     []string
	Planned    []int
	ActualDone []int
}

// DashboardStats are the KPIs shown on the dashboard.
type DashboardStats struct {
	Total        int
	StatusCounts StatusCounts
	Late         int
	NearDeadline int
	LowProgress  int
	// AverageCompletion is nil when there are no epics.
	AverageCompletion *float64
	Deliveries        int
	// TrendPercent is nil when the previous window is empty or unknown.
	TrendPercent       *float64
	Teams              []TeamRollup
	StatusDistribution []StatusShare
	Timeline           Timeline
}

// EmptyStats is the zero-valued, fully allocated result.
func EmptyStats() DashboardStats {
	return DashboardStats{
		Teams:              []TeamRollup{},
		StatusDistribution: []StatusShare{},
		Timeline: Timeline{
			Months:     []string{},
			Planned:    []int{},
			ActualDone: []int{},
		},
	}
}

// Aggregate computes dashboard KPIs over already-filtered epics. Every count
// is derived from the same slice, so counts never exceed Total.
func (r Rules) Aggregate(epics []Epic, now time.Time) DashboardStats {
	stats := EmptyStats()
	stats.Total = len(epics)
	if len(epics) == 0 {
		return stats
	}

	type teamAcc struct {
		count, done, late int
		completion        float64
	}
	teams := make(map[string]*teamAcc)
	statuses := make(map[string]int)
	planned := make(map[string]int)
	actualDone := make(map[string]int)

	var completionSum float64
	for _, e := range epics {
		ind := r.Classify(e, now)
		done := ind == IndicatorDone
		late := ind == IndicatorLate

		switch {
		case done:
			stats.StatusCounts.Done++
		case IsInProgressStatus(e.Status):
			stats.StatusCounts.InProgress++
		default:
			stats.StatusCounts.Other++
		}
		if late {
			stats.Late++
		}
		if ind == IndicatorNearDeadline {
			stats.NearDeadline++
		}
		if r.IsLowProgress(e, now) {
			stats.LowProgress++
		}
		completionSum += e.Completion()

		acc, ok := teams[e.TeamOrDefault()]
		if !ok {
			acc = &teamAcc{}
			teams[e.TeamOrDefault()] = acc
		}
		acc.count++
		acc.completion += e.Completion()
		if done {
			acc.done++
		}
		if late {
			acc.late++
		}

		statuses[DisplayStatus(e.Status)]++

		if e.PlannedStart != nil {
			month := e.PlannedStart.Format(MonthLayout)
			planned[month]++
			if IsCompletedStatus(e.Status) {
				actualDone[month]++
			}
		}
	}

	avg := roundTo(completionSum/float64(len(epics)), 1)
	stats.AverageCompletion = &avg
	stats.Deliveries = stats.StatusCounts.Done

	for name, acc := range teams {
		stats.Teams = append(stats.Teams, TeamRollup{
			Team:              name,
			Count:             acc.count,
			AverageCompletion: roundTo(acc.completion/float64(acc.count), 1),
			Done:              acc.done,
			Late:              acc.late,
		})
	}
	sort.Slice(stats.Teams, func(i, j int) bool {
		if stats.Teams[i].Count != stats.Teams[j].Count {
			return stats.Teams[i].Count > stats.Teams[j].Count
		}
		return stats.Teams[i].Team < stats.Teams[j].Team
	})

	for status, n := range statuses {
		stats.StatusDistribution = append(stats.StatusDistribution, StatusShare{Status: status, Count: n})
	}
	sort.Slice(stats.StatusDistribution, func(i, j int) bool {
		a, b := stats.StatusDistribution[i], stats.StatusDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Status < b.Status
	})

	months := make([]string, 0, len(planned))
	for m := range planned {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		stats.Timeline.Months = append(stats.Timeline.Months, m)
		stats.Timeline.Planned = append(stats.Timeline.Planned, planned[m])
		stats.Timeline.ActualDone = append(stats.Timeline.ActualDone, actualDone[m])
	}

	return stats
}

// Trend is the percentage change from previous to current, rounded to one
// decimal. It is nil when previous is zero.
func Trend(current, previous int) *float64 {
	if previous == 0 {
		return nil
	}
	v := math.Round(float64(current-previous)/float64(previous)*100*10) / 10
	return &v
}
