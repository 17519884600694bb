package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

// Snapshot is a full copy of the warehouse read models.
type Snapshot struct {
	Epics    []domain.Epic
	SubTasks []domain.SubTask
	Tickets  []domain.MaintenanceTicket
}

const timestampLayout = "2006-01-02 15:04:05"

// Replace swaps the stored rows for s in a single transaction.
func (w *Warehouse) Replace(ctx context.Context, s Snapshot) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting snapshot transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"epic_schedule", "subtask_schedule", "maintenance_tickets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertEpics(ctx, tx, s.Epics); err != nil {
		return err
	}
	if err := insertSubTasks(ctx, tx, s.SubTasks); err != nil {
		return err
	}
	if err := insertTickets(ctx, tx, s.Tickets); err != nil {
		return err
	}

	return tx.Commit()
}

func insertEpics(ctx context.Context, tx *sql.Tx, epics []domain.Epic) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO epic_schedule (
		epic_number, epic_summary, epic_team, epic_product, epic_status,
		planned_start, planned_due, task_start_actual, task_finish_actual,
		completion_pct, progress_indicator, record_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing epic insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range epics {
		var recordType any
		if e.RecordType != domain.RecordTypeUnknown {
			recordType = e.RecordType.String()
		}
		if _, err := stmt.ExecContext(ctx,
			e.Number, nullString(e.Summary), nullString(e.Team), nullString(e.Product), nullString(e.Status),
			dateValue(e.PlannedStart), dateValue(e.PlannedDue), dateValue(e.TaskStartActual), dateValue(e.TaskFinishActual),
			floatValue(e.CompletionPercentage), nullString(e.UpstreamIndicator), recordType,
		); err != nil {
			return fmt.Errorf("inserting epic %s: %w", e.Number, err)
		}
	}
	return nil
}

func insertSubTasks(ctx context.Context, tx *sql.Tx, tasks []domain.SubTask) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO subtask_schedule (
		task_number, task_summary, epic_number, task_team, task_status, task_type, task_stage,
		planned_start, planned_finish, actual_start, actual_finish, completion_pct, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing subtask insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.ExecContext(ctx,
			t.Number, nullString(t.Summary), nullString(t.EpicNumber), nullString(t.Team), nullString(t.Status),
			nullString(t.Type), nullString(t.Stage),
			dateValue(t.PlannedStart), dateValue(t.PlannedFinish), dateValue(t.ActualStart), dateValue(t.ActualFinish),
			floatValue(t.CompletionPercentage), timestampValue(t.CreatedAt), timestampValue(t.UpdatedAt),
		); err != nil {
			return fmt.Errorf("inserting subtask %s: %w", t.Number, err)
		}
	}
	return nil
}

func insertTickets(ctx context.Context, tx *sql.Tx, tickets []domain.MaintenanceTicket) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO maintenance_tickets (
		ticket_number, summary, team, status, product, created_at, updated_at, resolution_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing ticket insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tickets {
		if _, err := stmt.ExecContext(ctx,
			t.Number, nullString(t.Summary), nullString(t.Team), nullString(t.Status), nullString(t.Product),
			timestampValue(t.CreatedAt), timestampValue(t.UpdatedAt), timestampValue(t.ResolutionDate),
		); err != nil {
			return fmt.Errorf("inserting ticket %s: %w", t.Number, err)
		}
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatValue(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// Dates are stored as text so range predicates compare lexicographically.
func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func timestampValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}
