package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/warehouse"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

// Warehouse serves the read models from a snapshot database.
type Warehouse struct {
	db *sql.DB
}

var (
	_ ports.Warehouse         = (*Warehouse)(nil)
	_ ports.EpicRepository    = (*Warehouse)(nil)
	_ ports.SubTaskRepository = (*Warehouse)(nil)
	_ ports.TicketRepository  = (*Warehouse)(nil)
)

// Open opens (or creates) the snapshot at path.
func Open(path string) (*Warehouse, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, apperrors.NewConnectionError(err)
	}
	return &Warehouse{db: db}, nil
}

func New(db *sql.DB) *Warehouse {
	return &Warehouse{db: db}
}

func (w *Warehouse) Epics() ports.EpicRepository       { return w }
func (w *Warehouse) SubTasks() ports.SubTaskRepository { return w }
func (w *Warehouse) Tickets() ports.TicketRepository   { return w }

func (w *Warehouse) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

func (w *Warehouse) ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error) {
	return list(ctx, w.db, "list epics", warehouse.ListEpics(filter), warehouse.ScanEpic)
}

func (w *Warehouse) CountEpics(ctx context.Context, filter domain.EpicFilter) (int, error) {
	return count(ctx, w.db, "count epics", warehouse.CountEpics(filter))
}

func (w *Warehouse) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts := &domain.FilterOptions{}
	targets := []struct {
		column string
		dst    *[]string
	}{
		{domain.ColEpicTeam, &opts.Teams},
		{domain.ColEpicProduct, &opts.Products},
		{domain.ColEpicStatus, &opts.Statuses},
	}

	for _, tgt := range targets {
		values, err := list(ctx, w.db, "distinct "+tgt.column, warehouse.DistinctEpicValues(tgt.column),
			func(s warehouse.Scanner) (string, error) {
				var v string
				err := s.Scan(&v)
				return v, err
			})
		if err != nil {
			return nil, err
		}
		*tgt.dst = values
	}

	return opts, nil
}

func (w *Warehouse) ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error) {
	return list(ctx, w.db, "list subtasks", warehouse.ListSubTasks(filter), warehouse.ScanSubTask)
}

func (w *Warehouse) CountSubTasks(ctx context.Context) (int, error) {
	return count(ctx, w.db, "count subtasks", warehouse.CountSubTasks())
}

func (w *Warehouse) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error) {
	return list(ctx, w.db, "list tickets", warehouse.ListTickets(filter), warehouse.ScanTicket)
}

func (w *Warehouse) CountTickets(ctx context.Context, filter domain.TicketFilter) (int, error) {
	return count(ctx, w.db, "count tickets", warehouse.CountTickets(filter))
}

func list[T any](ctx context.Context, db *sql.DB, op string, q warehouse.Query, scan func(warehouse.Scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.WrapQuery(op, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, apperrors.WrapQuery(op, fmt.Errorf("scan: %w", err))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapQuery(op, err)
	}
	return out, nil
}

func count(ctx context.Context, db *sql.DB, op string, q warehouse.Query) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&n); err != nil {
		return 0, apperrors.WrapQuery(op, err)
	}
	return n, nil
}
