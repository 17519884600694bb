package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Bar colors.
const (
	ColorPlannedByOwner = "#6c757d"
	ColorPlannedByTeam  = "#17a2b8"
	ColorActualDone     = "#28a745"
	ColorActualLate     = "#dc3545"
	ColorActualOther    = "#ffc107"
)

// BarStyle holds the deterministic display attributes of a bar.
type BarStyle struct {
	Color   string
	Opacity float64
	Width   int
}

// StyleFor returns the style of a bar given its record type and indicator.
func StyleFor(t RecordType, ind Indicator) BarStyle {
	switch t {
	case RecordTypePlannedByOwner:
		return BarStyle{Color: ColorPlannedByOwner, Opacity: 0.6, Width: 15}
	case RecordTypePlannedByTeam:
		return BarStyle{Color: ColorPlannedByTeam, Opacity: 0.8, Width: 20}
	case RecordTypeActualByTeam:
		switch ind {
		case IndicatorDone:
			return BarStyle{Color: ColorActualDone, Opacity: 1.0, Width: 25}
		case IndicatorLate:
			return BarStyle{Color: ColorActualLate, Opacity: 1.0, Width: 25}
		default:
			return BarStyle{Color: ColorActualOther, Opacity: 1.0, Width: 25}
		}
	default:
		return BarStyle{Color: ColorPlannedByOwner, Opacity: 0.6, Width: 15}
	}
}

// GanttBar is one drawable (epic, record type) interval.
type GanttBar struct {
	Label       string
	EpicNumber  string
	Summary     string
	Team        string
	Status      string
	RecordType  RecordType
	Indicator   Indicator
	Start       time.Time
	Finish      time.Time
	Completion  float64
	Style       BarStyle
	LegendGroup string
	LegendName  string
	ShowLegend  bool
	HoverText   string
	Overdue     bool
}

// GanttChart is the projected chart plus the metadata its filter bar needs.
type GanttChart struct {
	Bars         []GanttBar
	VisibleRange DateRange
	Today        time.Time
	Teams        []string
	Statuses     []string
	TotalEpics   int
}

type epicKey struct {
	number, summary, team, status string
}

// Project groups rows per epic and turns each drawable row into a bar.
// Rows with an unknown record type or a missing actual date are skipped.
// fallback is the visible range used when no bar survives. Teams, Statuses
// and TotalEpics describe every row, drawn or not, so the filter bar still
// offers epics that have no bar yet.
func (r Rules) Project(rows []Epic, fallback DateRange, now time.Time) GanttChart {
	groups := make(map[epicKey][]Epic)
	keys := make([]epicKey, 0)
	teams := make(map[string]struct{})
	statuses := make(map[string]struct{})
	epics := make(map[string]struct{})
	for _, row := range rows {
		k := epicKey{row.Number, row.Summary, row.TeamOrDefault(), DisplayStatus(row.Status)}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], row)
		teams[k.team] = struct{}{}
		statuses[k.status] = struct{}{}
		epics[k.number] = struct{}{}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.number != b.number {
			return a.number < b.number
		}
		if a.summary != b.summary {
			return a.summary < b.summary
		}
		if a.team != b.team {
			return a.team < b.team
		}
		return a.status < b.status
	})

	chart := GanttChart{
		Bars:       []GanttBar{},
		Today:      Day(now),
		Teams:      sortedKeys(teams),
		Statuses:   sortedKeys(statuses),
		TotalEpics: len(epics),
	}
	legendShown := make(map[RecordType]bool)
	today := Day(now)

	for _, k := range keys {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool { return group[i].RecordType < group[j].RecordType })

		first := group[0]
		overdue := first.PlannedDue != nil && today.After(Day(*first.PlannedDue)) && !IsTerminalStatus(first.Status)
		summary := r.truncate(k.summary)

		for _, row := range group {
			if row.RecordType == RecordTypeUnknown || row.TaskStartActual == nil || row.TaskFinishActual == nil {
				continue
			}

			ind := r.barIndicator(row, overdue, now)
			bar := GanttBar{
				Label:       Sanitize(k.number + " - " + summary),
				EpicNumber:  k.number,
				Summary:     summary,
				Team:        k.team,
				Status:      k.status,
				RecordType:  row.RecordType,
				Indicator:   ind,
				Start:       Day(*row.TaskStartActual),
				Finish:      Day(*row.TaskFinishActual),
				Completion:  roundTo(row.Completion(), 1),
				Style:       StyleFor(row.RecordType, ind),
				LegendGroup: row.RecordType.String(),
				LegendName:  row.RecordType.Label(),
				Overdue:     overdue,
			}
			if !legendShown[row.RecordType] {
				bar.ShowLegend = true
				legendShown[row.RecordType] = true
			}
			bar.HoverText = hoverText(bar, k.summary)

			chart.Bars = append(chart.Bars, bar)
		}
	}

	chart.VisibleRange = r.visibleRange(chart.Bars, fallback)
	return chart
}

func (r Rules) barIndicator(row Epic, overdue bool, now time.Time) Indicator {
	if row.RecordType != RecordTypeActualByTeam {
		return r.Classify(row, now)
	}
	if IsCompletedStatus(row.Status) {
		return IndicatorDone
	}
	if overdue {
		return IndicatorLate
	}
	if ind := r.Classify(row, now); ind == IndicatorNearDeadline {
		return ind
	}
	return IndicatorOnTrack
}

func (r Rules) visibleRange(bars []GanttBar, fallback DateRange) DateRange {
	if len(bars) == 0 {
		return fallback
	}
	lo, hi := bars[0].Start, bars[0].Finish
	for _, b := range bars {
		if b.Start.Before(lo) {
			lo = b.Start
		}
		if b.Finish.After(hi) {
			hi = b.Finish
		}
	}
	return DateRange{Start: lo.Add(-r.GanttMargin), End: hi.Add(r.GanttMargin)}
}

// truncate cuts s to SummaryMaxRunes runes plus an ellipsis.
func (r Rules) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= r.SummaryMaxRunes {
		return s
	}
	return string(runes[:r.SummaryMaxRunes]) + "..."
}

var hoverSanitizer = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ")

// Sanitize makes free text safe to embed in hover labels.
func Sanitize(s string) string {
	return hoverSanitizer.Replace(s)
}

func hoverText(b GanttBar, fullSummary string) string {
	return fmt.Sprintf(
		"<b>%s</b><br>%s - %s<br>Team: %s<br>Start: %s<br>Finish: %s<br>Progress: %.1f%%<br>Status: %s",
		strings.ToUpper(b.LegendName),
		Sanitize(b.EpicNumber),
		Sanitize(fullSummary),
		Sanitize(b.Team),
		b.Start.Format("02/01/2006"),
		b.Finish.Format("02/01/2006"),
		b.Completion,
		Sanitize(b.Status),
	)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
