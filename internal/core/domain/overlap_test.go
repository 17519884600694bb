package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var q1 = domain.DateRange{Start: day("2025-01-01"), End: day("2025-03-31")}

func TestOverlap_SQL(t *testing.T) {
	o := domain.BuildOverlap(q1, "planned_start", "planned_due")

	clause, args := o.SQL()

	assert.Equal(t,
		"((planned_due >= ? AND planned_due <= ?) OR (planned_start >= ? AND planned_start <= ?) OR (planned_start < ? AND planned_due > ?))",
		clause)
	assert.Equal(t, []any{
		"2025-01-01", "2025-03-31",
		"2025-01-01", "2025-03-31",
		"2025-01-01", "2025-03-31",
	}, args)
}

func TestOverlap_SQLUnbounded(t *testing.T) {
	clause, args := domain.BuildOverlap(domain.DateRange{}, "a", "b").SQL()
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestOverlap_Matches(t *testing.T) {
	o := domain.BuildOverlap(q1, "", "")

	tests := []struct {
		name       string
		start, end *time.Time
		want       bool
	}{
		{"ends inside window", dayPtr("2024-12-01"), dayPtr("2025-01-15"), true},
		{"starts inside window", dayPtr("2025-03-01"), dayPtr("2025-05-01"), true},
		{"spans window", dayPtr("2024-01-01"), dayPtr("2025-12-31"), true},
		{"entirely after", dayPtr("2025-04-01"), dayPtr("2025-05-01"), false},
		{"entirely before", dayPtr("2024-10-01"), dayPtr("2024-12-31"), false},
		{"touches start boundary", dayPtr("2024-12-01"), dayPtr("2025-01-01"), true},
		{"touches end boundary", dayPtr("2025-03-31"), dayPtr("2025-04-30"), true},
		{"missing due, start inside", dayPtr("2025-02-01"), nil, true},
		{"missing due, start before", dayPtr("2024-02-01"), nil, false},
		{"no dates", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Matches(tt.start, tt.end))
		})
	}
}

func TestOverlap_MatchesUnboundedAlwaysTrue(t *testing.T) {
	o := domain.BuildOverlap(domain.DateRange{}, "", "")
	assert.True(t, o.Matches(nil, nil))
	assert.True(t, o.Matches(dayPtr("1999-01-01"), dayPtr("1999-01-02")))
}

// Randomised check that the three clauses are exactly closed-interval intersection.
func TestOverlap_EquivalentToIntervalIntersection(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := day("2025-01-01")
	at := func(n int) time.Time { return base.AddDate(0, 0, n) }

	for i := 0; i < 2000; i++ {
		rs := rng.Intn(60)
		re := rs + rng.Intn(60)
		es := rng.Intn(120) - 30
		ee := es + rng.Intn(90)

		o := domain.BuildOverlap(domain.DateRange{Start: at(rs), End: at(re)}, "", "")
		s, e := at(es), at(ee)

		want := es <= re && ee >= rs
		require.Equal(t, want, o.Matches(&s, &e), "range [%d,%d] entity [%d,%d]", rs, re, es, ee)
	}
}

func TestPredicate_Compose(t *testing.T) {
	p := domain.NewPredicate().
		NotNull("planned_start").
		Equals("epic_team", "Platform").
		Equals("epic_product", "").
		Overlap(domain.BuildOverlap(q1, "planned_start", "planned_due"))

	assert.Equal(t,
		" WHERE planned_start IS NOT NULL AND COALESCE(epic_team, '') = ? AND "+
			"((planned_due >= ? AND planned_due <= ?) OR (planned_start >= ? AND planned_start <= ?) OR (planned_start < ? AND planned_due > ?))",
		p.Where())
	assert.Len(t, p.Args(), 7)
	assert.Equal(t, "Platform", p.Args()[0])

	assert.Equal(t, "", domain.NewPredicate().Where())
}
