package domain

import "time"

// Rules holds the business thresholds used by classification, aggregation
// and the Gantt projection.
type Rules struct {
	// NearDeadlineWindow is how far ahead a due date counts as near.
	NearDeadlineWindow time.Duration
	// LowProgressPercent is the completion below which an epic is behind.
	LowProgressPercent float64
	// LowProgressGrace is how long after the planned start low progress is tolerated.
	LowProgressGrace time.Duration
	// GanttMargin pads the visible range of the chart on both sides.
	GanttMargin time.Duration
	// SummaryMaxRunes is the label length before truncation.
	SummaryMaxRunes int
}

// DefaultRules returns the thresholds used by the dashboard out of the box.
func DefaultRules() Rules {
	return Rules{
		NearDeadlineWindow: 7 * 24 * time.Hour,
		LowProgressPercent: 30,
		LowProgressGrace:   15 * 24 * time.Hour,
		GanttMargin:        15 * 24 * time.Hour,
		SummaryMaxRunes:    60,
	}
}

// WithDefaults fills zero fields from DefaultRules.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if r.NearDeadlineWindow <= 0 {
		r.NearDeadlineWindow = d.NearDeadlineWindow
	}
	if r.LowProgressPercent <= 0 {
		r.LowProgressPercent = d.LowProgressPercent
	}
	if r.LowProgressGrace <= 0 {
		r.LowProgressGrace = d.LowProgressGrace
	}
	if r.GanttMargin <= 0 {
		r.GanttMargin = d.GanttMargin
	}
	if r.SummaryMaxRunes <= 0 {
		r.SummaryMaxRunes = d.SummaryMaxRunes
	}
	return r
}
