package domain

import (
	"strings"
	"time"
)

// Overlap is the "entity interval intersects window" predicate. The same
// three clauses are rendered as SQL and evaluated in memory, so a filter
// pushed down to storage and one applied to loaded rows agree.
type Overlap struct {
	Range      DateRange
	StartField string
	EndField   string
}

// BuildOverlap returns the overlap predicate for r over the named columns.
func BuildOverlap(r DateRange, startField, endField string) Overlap {
	return Overlap{Range: r, StartField: startField, EndField: endField}
}

// SQL renders the predicate with positional '?' placeholders. The argument
// list is [start, end, start, end, start, end] as YYYY-MM-DD strings. An
// unbounded range renders as an empty fragment with no arguments.
func (o Overlap) SQL() (string, []any) {
	if !o.Range.Bounded() {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("((")
	b.WriteString(o.EndField + " >= ? AND " + o.EndField + " <= ?")
	b.WriteString(") OR (")
	b.WriteString(o.StartField + " >= ? AND " + o.StartField + " <= ?")
	b.WriteString(") OR (")
	b.WriteString(o.StartField + " < ? AND " + o.EndField + " > ?")
	b.WriteString("))")

	s := o.Range.Start.Format(DateLayout)
	e := o.Range.End.Format(DateLayout)
	return b.String(), []any{s, e, s, e, s, e}
}

// Matches evaluates the clauses against an entity interval. A nil date
// behaves like SQL NULL and makes the clauses that reference it false.
func (o Overlap) Matches(start, end *time.Time) bool {
	if !o.Range.Bounded() {
		return true
	}

	rs, re := Day(o.Range.Start), Day(o.Range.End)

	if end != nil {
		d := Day(*end)
		if !d.Before(rs) && !d.After(re) {
			return true
		}
	}
	if start != nil {
		d := Day(*start)
		if !d.Before(rs) && !d.After(re) {
			return true
		}
	}
	if start != nil && end != nil {
		if Day(*start).Before(rs) && Day(*end).After(re) {
			return true
		}
	}
	return false
}
