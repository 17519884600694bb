package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// PeriodKey names a predefined reporting window.
type PeriodKey string

const (
	PeriodCurrentYear  PeriodKey = "current_year"
	PeriodQ1           PeriodKey = "q1"
	PeriodQ2           PeriodKey = "q2"
	PeriodQ3           PeriodKey = "q3"
	PeriodQ4           PeriodKey = "q4"
	PeriodLast6Months  PeriodKey = "last_6_months"
	PeriodLast3Months  PeriodKey = "last_3_months"
	PeriodCurrentMonth PeriodKey = "current_month"
	PeriodAll          PeriodKey = "all"
	PeriodCustom       PeriodKey = "custom"
)

var periodAliases = map[string]PeriodKey{
	"ano_atual":     PeriodCurrentYear,
	"6_meses":       PeriodLast6Months,
	"3_meses":       PeriodLast3Months,
	"mes_atual":     PeriodCurrentMonth,
	"todos":         PeriodAll,
	"personalizado": PeriodCustom,
}

// ParsePeriodKey normalises a period key, accepting the legacy dashboard
// keys as aliases. Unknown keys are returned unchanged and resolve to an
// unbounded range.
func ParsePeriodKey(s string) PeriodKey {
	s = strings.ToLower(strings.TrimSpace(s))
	if key, ok := periodAliases[s]; ok {
		return key
	}
	return PeriodKey(s)
}

// DateRange is a closed calendar interval. The zero value means "no date filter".
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Bounded reports whether both ends are set.
func (r DateRange) Bounded() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

func (r DateRange) String() string {
	if !r.Bounded() {
		return "unbounded"
	}
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// ResolvePeriod maps a period key plus optional explicit bounds to a date
// range. Explicit bounds win whenever both are present, regardless of key.
func ResolvePeriod(key PeriodKey, explicitStart, explicitEnd *time.Time, now time.Time) DateRange {
	if explicitStart != nil && explicitEnd != nil {
		return DateRange{Start: Day(*explicitStart), End: Day(*explicitEnd)}
	}

	today := Day(now)
	year := today.Year()
	loc := today.Location()

	switch key {
	case PeriodCurrentYear:
		return DateRange{Start: date(year, time.January, 1, loc), End: date(year, time.December, 31, loc)}
	case PeriodQ1:
		return DateRange{Start: date(year, time.January, 1, loc), End: date(year, time.March, 31, loc)}
	case PeriodQ2:
		return DateRange{Start: date(year, time.April, 1, loc), End: date(year, time.June, 30, loc)}
	case PeriodQ3:
		return DateRange{Start: date(year, time.July, 1, loc), End: date(year, time.September, 30, loc)}
	case PeriodQ4:
		return DateRange{Start: date(year, time.October, 1, loc), End: date(year, time.December, 31, loc)}
	case PeriodLast6Months:
		return DateRange{Start: today.AddDate(0, 0, -180), End: today}
	case PeriodLast3Months:
		return DateRange{Start: today.AddDate(0, 0, -90), End: today}
	case PeriodCurrentMonth:
		return DateRange{Start: date(year, today.Month(), 1, loc), End: today}
	default:
		// all, custom without both bounds, and unknown keys.
		return DateRange{}
	}
}

// DescribePeriod returns the human label shown next to the period selector.
func DescribePeriod(key PeriodKey, now time.Time) string {
	year := now.Year()
	switch key {
	case PeriodCurrentYear:
		return fmt.Sprintf("Year %d", year)
	case PeriodQ1:
		return fmt.Sprintf("Q1 %d (January–March)", year)
	case PeriodQ2:
		return fmt.Sprintf("Q2 %d (April–June)", year)
	case PeriodQ3:
		return fmt.Sprintf("Q3 %d (July–September)", year)
	case PeriodQ4:
		return fmt.Sprintf("Q4 %d (October–December)", year)
	case PeriodLast6Months:
		return "Last 6 months"
	case PeriodLast3Months:
		return "Last 3 months"
	case PeriodCurrentMonth:
		return now.Format("January 2006")
	case PeriodAll:
		return "All periods"
	default:
		return "Custom period"
	}
}

// PreviousWindow returns the window ending the day before r starts and
// reaching back End-Start days from r.Start, so it holds one day fewer than
// the inclusive r: Q2 (91 days) compares against Jan 1..Mar 31 (90 days).
// Unbounded input yields an unbounded window.
func PreviousWindow(r DateRange) DateRange {
	if !r.Bounded() {
		return DateRange{}
	}
	length := r.End.Sub(r.Start)
	return DateRange{
		Start: r.Start.Add(-length),
		End:   r.Start.AddDate(0, 0, -1),
	}
}

// CurrentYear is the range used when a view needs a bounded default.
func CurrentYear(now time.Time) DateRange {
	return ResolvePeriod(PeriodCurrentYear, nil, nil, now)
}
