package domain

import (
	"strings"
	"time"
)

// Warehouse column names shared by every storage adapter.
const (
	ColEpicNumber       = "epic_number"
	ColEpicSummary      = "epic_summary"
	ColEpicTeam         = "epic_team"
	ColEpicProduct      = "epic_product"
	ColEpicStatus       = "epic_status"
	ColEpicPlannedStart = "planned_start"
	ColEpicPlannedDue   = "planned_due"
	ColEpicActualStart  = "task_start_actual"
	ColEpicActualFinish = "task_finish_actual"
	ColEpicRecordType   = "record_type"

	ColTaskNumber        = "task_number"
	ColTaskSummary       = "task_summary"
	ColTaskTeam          = "task_team"
	ColTaskStatus        = "task_status"
	ColTaskType          = "task_type"
	ColTaskStage         = "task_stage"
	ColTaskPlannedStart  = "planned_start"
	ColTaskPlannedFinish = "planned_finish"

	ColTicketNumber     = "ticket_number"
	ColTicketSummary    = "summary"
	ColTicketTeam       = "team"
	ColTicketStatus     = "status"
	ColTicketProduct    = "product"
	ColTicketCreatedAt  = "created_at"
	ColTicketResolvedAt = "resolution_date"
)

// Bounds carries optional start/end dates from a request. When both are
// set they select the overlap window; a single bound is open-ended.
type Bounds struct {
	Start *time.Time
	End   *time.Time
}

// Range returns the closed window when both bounds are set.
func (b Bounds) Range() DateRange {
	if b.Start == nil || b.End == nil {
		return DateRange{}
	}
	return DateRange{Start: Day(*b.Start), End: Day(*b.End)}
}

// IsZero reports whether neither bound is set.
func (b Bounds) IsZero() bool {
	return b.Start == nil && b.End == nil
}

// BoundsOf converts a resolved range back into bounds.
func BoundsOf(r DateRange) Bounds {
	if !r.Bounded() {
		return Bounds{}
	}
	start, end := r.Start, r.End
	return Bounds{Start: &start, End: &end}
}

func (b Bounds) apply(p *Predicate, startField, endField string) {
	if r := b.Range(); r.Bounded() {
		p.Overlap(BuildOverlap(r, startField, endField))
		return
	}
	p.OnOrAfter(startField, b.Start)
	p.OnOrBefore(endField, b.End)
}

func (b Bounds) matches(start, end *time.Time) bool {
	if r := b.Range(); r.Bounded() {
		return BuildOverlap(r, "", "").Matches(start, end)
	}
	if b.Start != nil && (start == nil || Day(*start).Before(Day(*b.Start))) {
		return false
	}
	if b.End != nil && (end == nil || Day(*end).After(Day(*b.End))) {
		return false
	}
	return true
}

// equalsOrBlank filters on a grouping column where the placeholder label
// for a missing value selects the blank rows.
func equalsOrBlank(p *Predicate, field, value, blankLabel string) {
	if value == blankLabel {
		p.Add("COALESCE(" + field + ", '') = ''")
		return
	}
	p.Equals(field, value)
}

func matchesOrBlank(actual, want, blankLabel string) bool {
	if want == "" {
		return true
	}
	if want == blankLabel {
		return actual == ""
	}
	return actual == want
}

func searchClause(p *Predicate, term string, fields ...string) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return
	}
	ors := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		ors[i] = "LOWER(COALESCE(" + f + ", '')) LIKE ?"
		args[i] = "%" + term + "%"
	}
	p.Add("("+strings.Join(ors, " OR ")+")", args...)
}

func containsFold(term string, values ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// EpicFilter selects epic rows for the dashboard, Gantt and reports.
type EpicFilter struct {
	Team    string
	Product string
	Status  string
	Bounds  Bounds
	Search  string

	// RequirePlannedStart keeps only rows with a planned start.
	RequirePlannedStart bool
	// RequireSchedule keeps only rows drawable on the Gantt chart.
	RequireSchedule bool
}

// Predicate renders the filter for storage push-down.
func (f EpicFilter) Predicate() *Predicate {
	p := NewPredicate()
	if f.RequirePlannedStart || f.RequireSchedule {
		p.NotNull(ColEpicPlannedStart)
	}
	if f.RequireSchedule {
		p.NotNull(ColEpicPlannedDue)
		p.NotNull(ColEpicRecordType)
	}
	equalsOrBlank(p, ColEpicTeam, f.Team, NoTeamLabel)
	p.Equals(ColEpicProduct, f.Product)
	equalsOrBlank(p, ColEpicStatus, f.Status, UndefinedStatusLabel)
	f.Bounds.apply(p, ColEpicPlannedStart, ColEpicPlannedDue)
	searchClause(p, f.Search, ColEpicNumber, ColEpicSummary)
	return p
}

// Matches applies the same filter to a loaded row.
func (f EpicFilter) Matches(e Epic) bool {
	if (f.RequirePlannedStart || f.RequireSchedule) && e.PlannedStart == nil {
		return false
	}
	if f.RequireSchedule && (e.PlannedDue == nil || e.RecordType == RecordTypeUnknown) {
		return false
	}
	if !matchesOrBlank(e.Team, f.Team, NoTeamLabel) ||
		(f.Product != "" && e.Product != f.Product) ||
		!matchesOrBlank(e.Status, f.Status, UndefinedStatusLabel) {
		return false
	}
	if !f.Bounds.matches(e.PlannedStart, e.PlannedDue) {
		return false
	}
	return containsFold(f.Search, e.Number, e.Summary)
}

// WithRange returns a copy filtered on r.
func (f EpicFilter) WithRange(r DateRange) EpicFilter {
	f.Bounds = BoundsOf(r)
	return f
}

// FilterEpics returns the rows matching f, preserving order.
func FilterEpics(epics []Epic, f EpicFilter) []Epic {
	out := make([]Epic, 0, len(epics))
	for _, e := range epics {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// SubTaskFilter selects subtask rows for the subtask report.
type SubTaskFilter struct {
	Team   string
	Status string
	Type   string
	Stage  string
	Bounds Bounds
	Search string
}

// Predicate renders the filter for storage push-down.
func (f SubTaskFilter) Predicate() *Predicate {
	p := NewPredicate()
	p.Equals(ColTaskTeam, f.Team)
	p.Equals(ColTaskStatus, f.Status)
	p.Equals(ColTaskType, f.Type)
	p.Equals(ColTaskStage, f.Stage)
	f.Bounds.apply(p, ColTaskPlannedStart, ColTaskPlannedFinish)
	searchClause(p, f.Search, ColTaskNumber, ColTaskSummary)
	return p
}

// Matches applies the same filter to a loaded row.
func (f SubTaskFilter) Matches(t SubTask) bool {
	if (f.Team != "" && t.Team != f.Team) ||
		(f.Status != "" && t.Status != f.Status) ||
		(f.Type != "" && t.Type != f.Type) ||
		(f.Stage != "" && t.Stage != f.Stage) {
		return false
	}
	if !f.Bounds.matches(t.PlannedStart, t.PlannedFinish) {
		return false
	}
	return containsFold(f.Search, t.Number, t.Summary)
}

// TicketFilter selects maintenance tickets.
type TicketFilter struct {
	Team    string
	Status  string
	Product string
	// Created bounds the creation date, inclusive on both ends.
	Created Bounds
	Search  string
	// OpenOnly keeps unresolved tickets.
	OpenOnly bool
}

// Predicate renders the filter for storage push-down.
func (f TicketFilter) Predicate() *Predicate {
	p := NewPredicate()
	equalsOrBlank(p, ColTicketTeam, f.Team, NoTeamLabel)
	p.Equals(ColTicketStatus, f.Status)
	p.Equals(ColTicketProduct, f.Product)
	p.OnOrAfter(ColTicketCreatedAt, f.Created.Start)
	if f.Created.End != nil {
		// created_at is a timestamp; include the whole end day.
		next := Day(*f.Created.End).AddDate(0, 0, 1)
		p.Add(ColTicketCreatedAt+" < ?", next.Format(DateLayout))
	}
	if f.OpenOnly {
		p.Add(ColTicketResolvedAt + " IS NULL")
	}
	searchClause(p, f.Search, ColTicketNumber, ColTicketSummary)
	return p
}

// Matches applies the same filter to a loaded ticket.
func (f TicketFilter) Matches(t MaintenanceTicket) bool {
	if !matchesOrBlank(t.Team, f.Team, NoTeamLabel) ||
		(f.Status != "" && t.Status != f.Status) ||
		(f.Product != "" && t.Product != f.Product) {
		return false
	}
	if f.Created.Start != nil && (t.CreatedAt == nil || Day(*t.CreatedAt).Before(Day(*f.Created.Start))) {
		return false
	}
	if f.Created.End != nil && (t.CreatedAt == nil || Day(*t.CreatedAt).After(Day(*f.Created.End))) {
		return false
	}
	if f.OpenOnly && !t.IsOpen() {
		return false
	}
	return containsFold(f.Search, t.Number, t.Summary)
}
