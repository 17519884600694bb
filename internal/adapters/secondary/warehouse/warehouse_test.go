package warehouse

import (
	"errors"
	"testing"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestListEpics_RendersOverlapWindow(t *testing.T) {
	r := domain.DateRange{Start: day("2025-01-01"), End: day("2025-03-31")}
	q := ListEpics(domain.EpicFilter{Team: "Platform", RequirePlannedStart: true}.WithRange(r))

	assert.Contains(t, q.SQL, "FROM epic_schedule WHERE planned_start IS NOT NULL AND COALESCE(epic_team, '') = ?")
	assert.Contains(t, q.SQL, "((planned_due >= ? AND planned_due <= ?) OR (planned_start >= ? AND planned_start <= ?) OR (planned_start < ? AND planned_due > ?))")
	assert.Equal(t, []any{"Platform",
		"2025-01-01", "2025-03-31",
		"2025-01-01", "2025-03-31",
		"2025-01-01", "2025-03-31",
	}, q.Args)
}

func TestListEpics_NoFilterHasNoWhere(t *testing.T) {
	q := ListEpics(domain.EpicFilter{})

	assert.NotContains(t, q.SQL, "WHERE")
	assert.Empty(t, q.Args)
}

func TestCountEpics_CountsRows(t *testing.T) {
	q := CountEpics(domain.EpicFilter{Status: "Done"})

	assert.Equal(t, "SELECT COUNT(*) FROM epic_schedule WHERE COALESCE(epic_status, '') = ?", q.SQL)
	assert.Equal(t, []any{"Done"}, q.Args)
}

func TestCountTickets_OpenOnly(t *testing.T) {
	q := CountTickets(domain.TicketFilter{Product: "Shop", OpenOnly: true})

	assert.Equal(t, "SELECT COUNT(*) FROM maintenance_tickets WHERE COALESCE(product, '') = ? AND resolution_date IS NULL", q.SQL)
	assert.Equal(t, []any{"Shop"}, q.Args)
}

func TestNullDate_Scan(t *testing.T) {
	want := day("2025-04-01")

	tests := []struct {
		name  string
		in    any
		valid bool
	}{
		{"nil", nil, false},
		{"time", want, true},
		{"date string", "2025-04-01", true},
		{"bytes", []byte("2025-04-01"), true},
		{"sqlite timestamp", "2025-04-01 00:00:00", true},
		{"rfc3339", "2025-04-01T00:00:00Z", true},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d NullDate
			require.NoError(t, d.Scan(tt.in))
			assert.Equal(t, tt.valid, d.Valid)
			if tt.valid {
				assert.True(t, want.Equal(d.Time))
				require.NotNil(t, d.Ptr())
			} else {
				assert.Nil(t, d.Ptr())
			}
		})
	}

	var d NullDate
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return errors.New("column count mismatch")
	}
	for i, v := range r {
		switch d := dest[i].(type) {
		case interface{ Scan(any) error }:
			if err := d.Scan(v); err != nil {
				return err
			}
		default:
			return errors.New("unexpected destination")
		}
	}
	return nil
}

func TestScanEpic(t *testing.T) {
	row := fakeRow{"PLT-1", "Billing", nil, "Shop", "In Progress",
		"2025-04-01", day("2025-05-01"), nil, nil,
		42.5, "On Track", "Realizado Time"}

	e, err := ScanEpic(row)

	require.NoError(t, err)
	assert.Equal(t, "PLT-1", e.Number)
	assert.Equal(t, "", e.Team)
	assert.Equal(t, domain.NoTeamLabel, e.TeamOrDefault())
	assert.Equal(t, domain.RecordTypeActualByTeam, e.RecordType)
	require.NotNil(t, e.PlannedStart)
	assert.Equal(t, "2025-04-01", e.PlannedStart.Format(domain.DateLayout))
	assert.Nil(t, e.TaskStartActual)
	assert.Equal(t, 42.5, e.Completion())
}

func TestScanTicket_NullResolutionIsOpen(t *testing.T) {
	row := fakeRow{"MAN-1", "Crash", "Support", "Open", "Shop", "2025-03-02 09:15:00", nil, nil}

	tk, err := ScanTicket(row)

	require.NoError(t, err)
	assert.True(t, tk.IsOpen())
	require.NotNil(t, tk.CreatedAt)
	assert.Equal(t, 9, tk.CreatedAt.Hour())
}
