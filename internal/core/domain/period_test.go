package domain_test

import (
	"testing"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		key       domain.PeriodKey
		wantStart string
		wantEnd   string
	}{
		{"current year", domain.PeriodCurrentYear, "2025-01-01", "2025-12-31"},
		{"q1", domain.PeriodQ1, "2025-01-01", "2025-03-31"},
		{"q2", domain.PeriodQ2, "2025-04-01", "2025-06-30"},
		{"q3", domain.PeriodQ3, "2025-07-01", "2025-09-30"},
		{"q4", domain.PeriodQ4, "2025-10-01", "2025-12-31"},
		{"last 6 months", domain.PeriodLast6Months, "2024-12-17", "2025-06-15"},
		{"last 3 months", domain.PeriodLast3Months, "2025-03-17", "2025-06-15"},
		{"current month", domain.PeriodCurrentMonth, "2025-06-01", "2025-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.ResolvePeriod(tt.key, nil, nil, fixedNow)
			assert.True(t, r.Bounded())
			assert.Equal(t, tt.wantStart, r.Start.Format(domain.DateLayout))
			assert.Equal(t, tt.wantEnd, r.End.Format(domain.DateLayout))
		})
	}
}

func TestResolvePeriod_Unbounded(t *testing.T) {
	for _, key := range []domain.PeriodKey{domain.PeriodAll, domain.PeriodCustom, "next_decade", ""} {
		t.Run(string(key), func(t *testing.T) {
			r := domain.ResolvePeriod(key, nil, nil, fixedNow)
			assert.False(t, r.Bounded())
			assert.Equal(t, domain.DateRange{}, r)
		})
	}
}

func TestResolvePeriod_ExplicitBoundsWin(t *testing.T) {
	start, end := dayPtr("2023-02-01"), dayPtr("2023-02-28")

	for _, key := range []domain.PeriodKey{domain.PeriodQ3, domain.PeriodAll, domain.PeriodCustom} {
		r := domain.ResolvePeriod(key, start, end, fixedNow)
		assert.Equal(t, day("2023-02-01"), r.Start)
		assert.Equal(t, day("2023-02-28"), r.End)
	}

	t.Run("single bound falls back to the key", func(t *testing.T) {
		r := domain.ResolvePeriod(domain.PeriodQ1, start, nil, fixedNow)
		assert.Equal(t, day("2025-01-01"), r.Start)
	})
}

func TestResolvePeriod_Totality(t *testing.T) {
	keys := []domain.PeriodKey{
		domain.PeriodCurrentYear, domain.PeriodQ1, domain.PeriodQ2, domain.PeriodQ3, domain.PeriodQ4,
		domain.PeriodLast6Months, domain.PeriodLast3Months, domain.PeriodCurrentMonth,
		domain.PeriodAll, domain.PeriodCustom,
	}
	clocks := []string{"2024-01-01", "2024-02-29", "2025-12-31", "2026-07-04"}

	for _, c := range clocks {
		for _, key := range keys {
			r := domain.ResolvePeriod(key, nil, nil, day(c))
			if r.Bounded() {
				assert.False(t, r.End.Before(r.Start), "%s at %s: %s", key, c, r)
			} else {
				assert.True(t, r.Start.IsZero() && r.End.IsZero(), "%s at %s", key, c)
			}
		}
	}
}

func TestParsePeriodKey(t *testing.T) {
	assert.Equal(t, domain.PeriodCurrentYear, domain.ParsePeriodKey("ano_atual"))
	assert.Equal(t, domain.PeriodLast6Months, domain.ParsePeriodKey("6_meses"))
	assert.Equal(t, domain.PeriodLast3Months, domain.ParsePeriodKey("3_meses"))
	assert.Equal(t, domain.PeriodCurrentMonth, domain.ParsePeriodKey(" MES_ATUAL "))
	assert.Equal(t, domain.PeriodAll, domain.ParsePeriodKey("todos"))
	assert.Equal(t, domain.PeriodQ2, domain.ParsePeriodKey("Q2"))
	assert.Equal(t, domain.PeriodKey("whatever"), domain.ParsePeriodKey("whatever"))
}

func TestDescribePeriod(t *testing.T) {
	assert.Equal(t, "Q1 2025 (January–March)", domain.DescribePeriod(domain.PeriodQ1, fixedNow))
	assert.Equal(t, "Year 2025", domain.DescribePeriod(domain.PeriodCurrentYear, fixedNow))
	assert.Equal(t, "June 2025", domain.DescribePeriod(domain.PeriodCurrentMonth, fixedNow))
	assert.Equal(t, "All periods", domain.DescribePeriod(domain.PeriodAll, fixedNow))
	assert.Equal(t, "Custom period", domain.DescribePeriod("bogus", fixedNow))
}

func TestPreviousWindow(t *testing.T) {
	r := domain.DateRange{Start: day("2025-04-01"), End: day("2025-06-30")}
	prev := domain.PreviousWindow(r)

	assert.Equal(t, day("2025-01-01"), prev.Start)
	assert.Equal(t, day("2025-03-31"), prev.End)

	// One day shorter than the current window.
	m := domain.DateRange{Start: day("2025-06-01"), End: day("2025-06-30")}
	prev = domain.PreviousWindow(m)
	assert.Equal(t, day("2025-05-03"), prev.Start)
	assert.Equal(t, day("2025-05-31"), prev.End)

	assert.False(t, domain.PreviousWindow(domain.DateRange{}).Bounded())
}
