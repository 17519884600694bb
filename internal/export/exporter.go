package export

import (
	"context"
	"io"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

// Query is the filter set accepted by every report. Fields a report does
// not support are ignored.
type Query struct {
	Team    string
	Product string
	Status  string
	Type    string
	Stage   string
	Search  string
	Bounds  domain.Bounds
}

// FilenameParams returns the parts of q reflected in a download name.
func (q Query) FilenameParams() FilenameParams {
	return FilenameParams{
		Team:   q.Team,
		Status: q.Status,
		Type:   q.Type,
		Start:  q.Bounds.Start,
		End:    q.Bounds.End,
	}
}

func (q Query) EpicFilter() domain.EpicFilter {
	return domain.EpicFilter{
		Team:    q.Team,
		Product: q.Product,
		Status:  q.Status,
		Bounds:  q.Bounds,
		Search:  q.Search,
	}
}

func (q Query) SubTaskFilter() domain.SubTaskFilter {
	return domain.SubTaskFilter{
		Team:   q.Team,
		Status: q.Status,
		Type:   q.Type,
		Stage:  q.Stage,
		Bounds: q.Bounds,
		Search: q.Search,
	}
}

func (q Query) TicketFilter() domain.TicketFilter {
	return domain.TicketFilter{
		Team:    q.Team,
		Status:  q.Status,
		Product: q.Product,
		Created: q.Bounds,
		Search:  q.Search,
	}
}

// Exporter loads report rows and writes them as CSV.
type Exporter struct {
	reports ports.ReportService
}

func NewExporter(reports ports.ReportService) *Exporter {
	return &Exporter{reports: reports}
}

// Export writes report r filtered by q to w and returns the number of data
// rows. Nothing is written when loading fails.
func (e *Exporter) Export(ctx context.Context, w io.Writer, r Report, q Query) (int, error) {
	switch r {
	case ReportEpics:
		rows, err := e.reports.ListEpics(ctx, q.EpicFilter())
		if err != nil {
			return 0, err
		}
		return len(rows), WriteEpics(w, rows)
	case ReportSubTasks:
		rows, err := e.reports.ListSubTasks(ctx, q.SubTaskFilter())
		if err != nil {
			return 0, err
		}
		return len(rows), WriteSubTasks(w, rows)
	case ReportTickets:
		rows, err := e.reports.ListTickets(ctx, q.TicketFilter())
		if err != nil {
			return 0, err
		}
		return len(rows), WriteTickets(w, rows)
	default:
		return 0, UnknownReportError(string(r))
	}
}

// Filename names the download for r and q at now.
func (e *Exporter) Filename(r Report, q Query, now time.Time) string {
	return Filename(r, q.FilenameParams(), now)
}
