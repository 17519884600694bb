package warehouse

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

// Scanner is satisfied by pgx.Rows, pgx.Row, *sql.Rows and *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// Layouts accepted when a driver hands dates back as text.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	domain.DateLayout,
}

// NullDate scans a nullable date or timestamp from any driver.
type NullDate struct {
	Time  time.Time
	Valid bool
}

func (d *NullDate) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Time, d.Valid = time.Time{}, false
		return nil
	case time.Time:
		d.Time, d.Valid = v, true
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("warehouse: cannot scan %T into a date", value)
	}
}

func (d *NullDate) parse(s string) error {
	if s == "" {
		d.Time, d.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time, d.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("warehouse: unrecognised date %q", s)
}

// Ptr returns nil for NULL.
func (d NullDate) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// ScanEpic reads one row selected by ListEpics.
func ScanEpic(s Scanner) (domain.Epic, error) {
	var (
		number, summary, team, product, status sql.NullString
		indicator, recordType                  sql.NullString
		start, due, actualStart, actualFinish  NullDate
		completion                             sql.NullFloat64
	)
	if err := s.Scan(&number, &summary, &team, &product, &status,
		&start, &due, &actualStart, &actualFinish,
		&completion, &indicator, &recordType); err != nil {
		return domain.Epic{}, err
	}

	return domain.Epic{
		Number:               number.String,
		Summary:              summary.String,
		Team:                 team.String,
		Product:              product.String,
		Status:               status.String,
		PlannedStart:         start.Ptr(),
		PlannedDue:           due.Ptr(),
		TaskStartActual:      actualStart.Ptr(),
		TaskFinishActual:     actualFinish.Ptr(),
		CompletionPercentage: floatPtr(completion),
		RecordType:           domain.ParseRecordType(recordType.String),
		UpstreamIndicator:    indicator.String,
	}, nil
}

// ScanSubTask reads one row selected by ListSubTasks.
func ScanSubTask(s Scanner) (domain.SubTask, error) {
	var (
		number, summary, epic, team, status, kind, stage sql.NullString
		start, finish, actualStart, actualFinish         NullDate
		created, updated                                 NullDate
		completion                                       sql.NullFloat64
	)
	if err := s.Scan(&number, &summary, &epic, &team, &status,
		&kind, &stage, &start, &finish, &actualStart, &actualFinish,
		&completion, &created, &updated); err != nil {
		return domain.SubTask{}, err
	}

	return domain.SubTask{
		Number:               number.String,
		Summary:              summary.String,
		EpicNumber:           epic.String,
		Team:                 team.String,
		Status:               status.String,
		Type:                 kind.String,
		Stage:                stage.String,
		PlannedStart:         start.Ptr(),
		PlannedFinish:        finish.Ptr(),
		ActualStart:          actualStart.Ptr(),
		ActualFinish:         actualFinish.Ptr(),
		CompletionPercentage: floatPtr(completion),
		CreatedAt:            created.Ptr(),
		UpdatedAt:            updated.Ptr(),
	}, nil
}

// ScanTicket reads one row selected by ListTickets.
func ScanTicket(s Scanner) (domain.MaintenanceTicket, error) {
	var (
		number, summary, team, status, product sql.NullString
		created, updated, resolved             NullDate
	)
	if err := s.Scan(&number, &summary, &team, &status, &product,
		&created, &updated, &resolved); err != nil {
		return domain.MaintenanceTicket{}, err
	}

	return domain.MaintenanceTicket{
		Number:         number.String,
		Summary:        summary.String,
		Team:           team.String,
		Status:         status.String,
		Product:        product.String,
		CreatedAt:      created.Ptr(),
		UpdatedAt:      updated.Ptr(),
		ResolutionDate: resolved.Ptr(),
	}, nil
}
