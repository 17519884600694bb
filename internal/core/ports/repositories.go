package ports

import (
	"context"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

// EpicRepository reads epic schedule rows from the warehouse.
type EpicRepository interface {
	ListEpics(ctx context.Context, filter domain.EpicFilter) ([]domain.Epic, error)
	CountEpics(ctx context.Context, filter domain.EpicFilter) (int, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

// SubTaskRepository reads subtask rows from the warehouse.
type SubTaskRepository interface {
	ListSubTasks(ctx context.Context, filter domain.SubTaskFilter) ([]domain.SubTask, error)
	CountSubTasks(ctx context.Context) (int, error)
}

// TicketRepository reads maintenance tickets from the warehouse.
type TicketRepository interface {
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.MaintenanceTicket, error)
	CountTickets(ctx context.Context, filter domain.TicketFilter) (int, error)
}

// Warehouse bundles the read models a storage adapter provides.
type Warehouse interface {
	Epics() EpicRepository
	SubTasks() SubTaskRepository
	Tickets() TicketRepository
	Ping(ctx context.Context) error
	Close() error
}
