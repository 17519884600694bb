package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Indicator is the schedule health of an epic.
type Indicator int

const (
	IndicatorOnTrack Indicator = iota
	IndicatorNearDeadline
	IndicatorLate
	IndicatorDone
)

func (i Indicator) String() string {
	switch i {
	case IndicatorOnTrack:
		return "on_track"
	case IndicatorNearDeadline:
		return "near_deadline"
	case IndicatorLate:
		return "late"
	case IndicatorDone:
		return "done"
	default:
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
}

// Tone maps the indicator to a display tone.
func (i Indicator) Tone() string {
	switch i {
	case IndicatorDone, IndicatorOnTrack:
		return "success"
	case IndicatorNearDeadline:
		return "warning"
	case IndicatorLate:
		return "danger"
	default:
		return "secondary"
	}
}

// AlertFlags are the independent alert dimensions of an epic. An epic can
// raise several at once.
type AlertFlags struct {
	Overdue      bool
	NearDeadline bool
	LowProgress  bool
}

// Classify returns the indicator for e at now. Precedence is Done, Late,
// NearDeadline, OnTrack.
func (r Rules) Classify(e Epic, now time.Time) Indicator {
	if IsTerminalStatus(e.Status) {
		return IndicatorDone
	}
	if e.PlannedDue == nil {
		return IndicatorOnTrack
	}
	due := *e.PlannedDue
	if due.Before(now) {
		return IndicatorLate
	}
	if !due.After(now.Add(r.NearDeadlineWindow)) {
		return IndicatorNearDeadline
	}
	return IndicatorOnTrack
}

// IsLowProgress reports an epic that started more than the grace period
// ago and is still below the completion threshold.
func (r Rules) IsLowProgress(e Epic, now time.Time) bool {
	if IsTerminalStatus(e.Status) || e.PlannedStart == nil {
		return false
	}
	return e.Completion() < r.LowProgressPercent && e.PlannedStart.Before(now.Add(-r.LowProgressGrace))
}

// Alerts computes every alert dimension for e.
func (r Rules) Alerts(e Epic, now time.Time) AlertFlags {
	ind := r.Classify(e, now)
	return AlertFlags{
		Overdue:      ind == IndicatorLate,
		NearDeadline: ind == IndicatorNearDeadline,
		LowProgress:  r.IsLowProgress(e, now),
	}
}

// Annotate returns a copy of epics with Indicator and Alerts filled in.
func (r Rules) Annotate(epics []Epic, now time.Time) []Epic {
	out := make([]Epic, len(epics))
	for i, e := range epics {
		e.Indicator = r.Classify(e, now)
		e.Alerts = r.Alerts(e, now)
		out[i] = e
	}
	return out
}

// AlertKind selects one of the alert drill-down lists.
type AlertKind string

const (
	AlertOverdue      AlertKind = "overdue"
	AlertNearDeadline AlertKind = "near_deadline"
	AlertLowProgress  AlertKind = "low_progress"
)

// ParseAlertKind accepts canonical names and the legacy dashboard names.
func ParseAlertKind(s string) (AlertKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overdue", "late", "atrasados":
		return AlertOverdue, true
	case "near_deadline", "proximo_prazo", "proximos_vencimento":
		return AlertNearDeadline, true
	case "low_progress", "baixo_progresso":
		return AlertLowProgress, true
	}
	return "", false
}

// AlertDetail is one row of an alert drill-down list.
type AlertDetail struct {
	Number     string
	Summary    string
	Team       string
	Status     string
	Start      *time.Time
	Due        *time.Time
	Completion float64
	// Days is days late, days remaining or days elapsed depending on the kind.
	Days int
}

// AlertDetails lists the epics raising the given alert, with the day count
// relevant to that alert.
func (r Rules) AlertDetails(kind AlertKind, epics []Epic, now time.Time) []AlertDetail {
	today := Day(now)
	out := make([]AlertDetail, 0)
	for _, e := range epics {
		flags := r.Alerts(e, now)
		d := AlertDetail{
			Number:     e.Number,
			Summary:    e.Summary,
			Team:       e.TeamOrDefault(),
			Status:     e.Status,
			Start:      e.PlannedStart,
			Due:        e.PlannedDue,
			Completion: roundTo(e.Completion(), 2),
		}
		switch kind {
		case AlertOverdue:
			if !flags.Overdue {
				continue
			}
			d.Days = daysBetween(Day(*e.PlannedDue), today)
		case AlertNearDeadline:
			if !flags.NearDeadline {
				continue
			}
			d.Days = daysBetween(today, Day(*e.PlannedDue))
		case AlertLowProgress:
			if !flags.LowProgress {
				continue
			}
			d.Days = daysBetween(Day(*e.PlannedStart), today)
		default:
			return out
		}
		out = append(out, d)
	}

	switch kind {
	case AlertOverdue, AlertNearDeadline:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(*out[j].Due) })
	case AlertLowProgress:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Completion != out[j].Completion {
				return out[i].Completion < out[j].Completion
			}
			return out[i].Start.Before(*out[j].Start)
		})
	}
	return out
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
