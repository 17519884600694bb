// Package export renders report rows as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
)

// Report names an exportable report.
type Report string

const (
	ReportEpics    Report = "epics"
	ReportSubTasks Report = "subtasks"
	ReportTickets  Report = "tickets"
)

// ParseReport accepts the report names used in URLs and CLI arguments.
func ParseReport(s string) (Report, bool) {
	switch Report(strings.ToLower(strings.TrimSpace(s))) {
	case ReportEpics, "epicos":
		return ReportEpics, true
	case ReportSubTasks, "subtask":
		return ReportSubTasks, true
	case ReportTickets, "maintenance", "manutencao":
		return ReportTickets, true
	default:
		return "", false
	}
}

// UnknownReportError reports a report name ParseReport does not accept.
func UnknownReportError(name string) error {
	return apperrors.NewNotFoundError(apperrors.ErrUnknownReport, fmt.Sprintf("Unknown report: %q", name))
}

// Separator is the field delimiter of the report's CSV. Maintenance tickets
// use ';' so spreadsheets in comma-decimal locales open them directly.
func (r Report) Separator() rune {
	if r == ReportTickets {
		return ';'
	}
	return ','
}

// utf8BOM lets spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var epicHeader = []string{
	"Epic", "Summary", "Team", "Product", "Status",
	"Planned Start", "Planned Due", "Actual Start", "Actual Finish",
	"Completion %", "Record Type", "Indicator",
}

var subTaskHeader = []string{
	"Task", "Summary", "Epic", "Team", "Status", "Type", "Stage",
	"Planned Start", "Planned Finish", "Actual Start", "Actual Finish",
	"Completion %", "Created", "Updated",
}

var ticketHeader = []string{
	"Ticket", "Summary", "Team", "Status", "Product", "Created", "Updated", "Resolved",
}

func WriteEpics(w io.Writer, epics []domain.Epic) error {
	rows := make([][]string, 0, len(epics))
	for _, e := range epics {
		rows = append(rows, []string{
			e.Number, e.Summary, e.Team, e.Product, e.Status,
			formatDate(e.PlannedStart), formatDate(e.PlannedDue),
			formatDate(e.TaskStartActual), formatDate(e.TaskFinishActual),
			formatFloat(e.CompletionPercentage), recordTypeLabel(e.RecordType), e.Indicator.String(),
		})
	}
	return write(w, ReportEpics.Separator(), epicHeader, rows)
}

func WriteSubTasks(w io.Writer, tasks []domain.SubTask) error {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.Number, t.Summary, t.EpicNumber, t.Team, t.Status, t.Type, t.Stage,
			formatDate(t.PlannedStart), formatDate(t.PlannedFinish),
			formatDate(t.ActualStart), formatDate(t.ActualFinish),
			formatFloat(t.CompletionPercentage), formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt),
		})
	}
	return write(w, ReportSubTasks.Separator(), subTaskHeader, rows)
}

func WriteTickets(w io.Writer, tickets []domain.MaintenanceTicket) error {
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{
			t.Number, t.Summary, t.Team, t.Status, t.Product,
			formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt), formatTimestamp(t.ResolutionDate),
		})
	}
	return write(w, ReportTickets.Separator(), ticketHeader, rows)
}

func write(w io.Writer, sep rune, header []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func recordTypeLabel(t domain.RecordType) string {
	if t == domain.RecordTypeUnknown {
		return ""
	}
	return t.Label()
}
