package postgres

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/warehouse"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

type TicketRepository struct {
	q querier
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func (r *TicketRepository) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query := warehouse.ListTickets(filter)
	rows, err := GetDBTX(ctx, r.q.pool).Query(ctx, Rebind(query.SQL), query.Args...)
	if err != nil {
		return nil, apperrors.WrapQuery("list tickets", err)
	}
	defer rows.Close()

	tickets := make([]domain.MaintenanceTicket, 0)
	for rows.Next() {
		t, err := warehouse.ScanTicket(rows)
		if err != nil {
			return nil, apperrors.WrapQuery("scan ticket", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapQuery("list tickets", err)
	}

	return tickets, nil
}

func (r *TicketRepository) CountTickets(ctx context.Context, filter domain.TicketFilter) (int, error) {
	return r.q.count(ctx, "count tickets", warehouse.CountTickets(filter))
}
