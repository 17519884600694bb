package domain

import (
	"strings"
	"time"
)

// Predicate accumulates AND-ed SQL clauses with '?' placeholders and their
// positional arguments. Storage adapters rebind placeholders as needed.
type Predicate struct {
	clauses []string
	args    []any
}

// NewPredicate returns an empty predicate.
func NewPredicate() *Predicate {
	return &Predicate{}
}

// Add appends a raw clause and its arguments.
func (p *Predicate) Add(clause string, args ...any) *Predicate {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
	return p
}

// Equals adds COALESCE(field, '') = ? when value is non-empty.
func (p *Predicate) Equals(field, value string) *Predicate {
	if value == "" {
		return p
	}
	return p.Add("COALESCE("+field+", '') = ?", value)
}

// NotNull requires field to be present.
func (p *Predicate) NotNull(field string) *Predicate {
	return p.Add(field + " IS NOT NULL")
}

// Overlap adds the three-clause window predicate when the range is bounded.
func (p *Predicate) Overlap(o Overlap) *Predicate {
	clause, args := o.SQL()
	if clause == "" {
		return p
	}
	return p.Add(clause, args...)
}

// OnOrAfter adds field >= ? for a non-nil bound.
func (p *Predicate) OnOrAfter(field string, bound *time.Time) *Predicate {
	if bound == nil {
		return p
	}
	return p.Add(field+" >= ?", bound.Format(DateLayout))
}

// OnOrBefore adds field <= ? for a non-nil bound.
func (p *Predicate) OnOrBefore(field string, bound *time.Time) *Predicate {
	if bound == nil {
		return p
	}
	return p.Add(field+" <= ?", bound.Format(DateLayout))
}

// Empty reports whether no clause has been added.
func (p *Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// SQL joins the clauses with AND. Empty predicates render as "".
func (p *Predicate) SQL() string {
	return strings.Join(p.clauses, " AND ")
}

// Where renders " WHERE ..." or "" for an empty predicate.
func (p *Predicate) Where() string {
	if p.Empty() {
		return ""
	}
	return " WHERE " + p.SQL()
}

// Args returns the positional arguments in clause order.
func (p *Predicate) Args() []any {
	out := make([]any, len(p.args))
	copy(out, p.args)
	return out
}
