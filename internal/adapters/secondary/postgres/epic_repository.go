package postgres

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/warehouse"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

type EpicRepository struct {
	q  querier
	tm *TransactionManager
}

var _ ports.EpicRepository = (*EpicRepository)(nil)

func (r *EpicRepository) ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query := warehouse.ListEpics(filter)
	rows, err := GetDBTX(ctx, r.q.pool).Query(ctx, Rebind(query.SQL), query.Args...)
	if err != nil {
		return nil, apperrors.WrapQuery("list epics", err)
	}
	defer rows.Close()

	epics := make([]domain.Epic, 0)
	for rows.Next() {
		e, err := warehouse.ScanEpic(rows)
		if err != nil {
			return nil, apperrors.WrapQuery("scan epic", err)
		}
		epics = append(epics, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapQuery("list epics", err)
	}

	return epics, nil
}

func (r *EpicRepository) CountEpics(ctx context.Context, filter domain.EpicFilter) (int, error) {
	return r.q.count(ctx, "count epics", warehouse.CountEpics(filter))
}

// FilterOptions reads the three distinct-value lists from one snapshot.
func (r *EpicRepository) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts := &domain.FilterOptions{}

	err := r.tm.WithReadOnlyTransaction(ctx, func(ctx context.Context) error {
		var err error
		if opts.Teams, err = r.distinct(ctx, domain.ColEpicTeam); err != nil {
			return err
		}
		if opts.Products, err = r.distinct(ctx, domain.ColEpicProduct); err != nil {
			return err
		}
		opts.Statuses, err = r.distinct(ctx, domain.ColEpicStatus)
		return err
	})
	if err != nil {
		return nil, err
	}

	return opts, nil
}

func (r *EpicRepository) distinct(ctx context.Context, column string) ([]string, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query := warehouse.DistinctEpicValues(column)
	rows, err := GetDBTX(ctx, r.q.pool).Query(ctx, query.SQL)
	if err != nil {
		return nil, apperrors.WrapQuery("distinct "+column, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.WrapQuery("distinct "+column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapQuery("distinct "+column, err)
	}
	return values, nil
}
