package postgres

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/warehouse"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

type SubTaskRepository struct {
	q querier
}

var _ ports.SubTaskRepository = (*SubTaskRepository)(nil)

func (r *SubTaskRepository) ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query := warehouse.ListSubTasks(filter)
	rows, err := GetDBTX(ctx, r.q.pool).Query(ctx, Rebind(query.SQL), query.Args...)
	if err != nil {
		return nil, apperrors.WrapQuery("list subtasks", err)
	}
	defer rows.Close()

	tasks := make([]domain.SubTask, 0)
	for rows.Next() {
		t, err := warehouse.ScanSubTask(rows)
		if err != nil {
			return nil, apperrors.WrapQuery("scan subtask", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapQuery("list subtasks", err)
	}

	return tasks, nil
}

func (r *SubTaskRepository) CountSubTasks(ctx context.Context) (int, error) {
	return r.q.count(ctx, "count subtasks", warehouse.CountSubTasks())
}
