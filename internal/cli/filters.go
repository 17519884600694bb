package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/export"
)

// filterFlags are the report filters shared by several commands.
type filterFlags struct {
	team    string
	product string
	status  string
	kind    string
	stage   string
	search  string
	period  string
	start   string
	end     string
}

func (f *filterFlags) register(fs *pflag.FlagSet, withReportFields bool) {
	fs.StringVar(&f.team, "team", "", "Only rows of this team")
	fs.StringVar(&f.product, "product", "", "Only rows of this product")
	fs.StringVar(&f.status, "status", "", "Only rows with this status")
	fs.StringVar(&f.period, "period", "", "Predefined period (current_year, q1..q4, last_6_months, last_3_months, current_month, all)")
	fs.StringVar(&f.start, "start", "", "Start date, YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "End date, YYYY-MM-DD")
	if withReportFields {
		fs.StringVar(&f.kind, "type", "", "Only subtasks of this type")
		fs.StringVar(&f.stage, "stage", "", "Only subtasks in this stage")
		fs.StringVar(&f.search, "search", "", "Case-insensitive match on number or summary")
	}
}

func parseDate(flag, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("--%s %q: %w", flag, value, apperrors.ErrMalformedFilter)
	}
	return &d, nil
}

func (f *filterFlags) dates() (start, end *time.Time, err error) {
	if start, err = parseDate("start", f.start); err != nil {
		return nil, nil, err
	}
	if end, err = parseDate("end", f.end); err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, apperrors.ErrInvalidDateRange
	}
	return start, end, nil
}

func (f *filterFlags) dashboardQuery() (ports.DashboardQuery, error) {
	start, end, err := f.dates()
	if err != nil {
		return ports.DashboardQuery{}, err
	}
	q := ports.DashboardQuery{
		Team:    strings.TrimSpace(f.team),
		Product: strings.TrimSpace(f.product),
		Status:  strings.TrimSpace(f.status),
		Start:   start,
		End:     end,
	}
	if f.period != "" {
		q.Period = domain.ParsePeriodKey(f.period)
	}
	return q, nil
}

// exportQuery resolves the flags to report bounds. Explicit dates win; a
// period without dates is resolved against now.
func (f *filterFlags) exportQuery(now time.Time) (export.Query, error) {
	start, end, err := f.dates()
	if err != nil {
		return export.Query{}, err
	}

	bounds := domain.Bounds{Start: start, End: end}
	if start == nil && end == nil && f.period != "" {
		bounds = domain.BoundsOf(domain.ResolvePeriod(domain.ParsePeriodKey(f.period), nil, nil, now))
	}

	return export.Query{
		Team:    strings.TrimSpace(f.team),
		Product: strings.TrimSpace(f.product),
		Status:  strings.TrimSpace(f.status),
		Type:    strings.TrimSpace(f.kind),
		Stage:   strings.TrimSpace(f.stage),
		Search:  strings.TrimSpace(f.search),
		Bounds:  bounds,
	}, nil
}
