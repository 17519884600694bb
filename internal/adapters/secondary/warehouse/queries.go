// Package warehouse holds the SQL and row scanning shared by the storage
// adapters. Queries use '?' placeholders; drivers that need another style
// rebind them before execution.
package warehouse

import (
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

// Warehouse tables.
const (
	EpicTable    = "epic_schedule"
	SubTaskTable = "subtask_schedule"
	TicketTable  = "maintenance_tickets"
)

// Query is a statement plus its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

const epicColumns = `epic_number, epic_summary, epic_team, epic_product, epic_status,
	planned_start, planned_due, task_start_actual, task_finish_actual,
	completion_pct, progress_indicator, record_type`

const subTaskColumns = `task_number, task_summary, epic_number, task_team, task_status,
	task_type, task_stage, planned_start, planned_finish, actual_start, actual_finish,
	completion_pct, created_at, updated_at`

const ticketColumns = `ticket_number, summary, team, status, product,
	created_at, updated_at, resolution_date`

func ListEpics(f domain.EpicFilter) Query {
	p := f.Predicate()
	return Query{
		SQL: "SELECT " + epicColumns + " FROM " + EpicTable + p.Where() +
			" ORDER BY planned_start, epic_number, record_type",
		Args: p.Args(),
	}
}

// CountEpics counts schedule rows, the same unit Aggregate reports as Total.
// An epic planned by its owner and tracked by its team counts twice.
func CountEpics(f domain.EpicFilter) Query {
	p := f.Predicate()
	return Query{
		SQL:  "SELECT COUNT(*) FROM " + EpicTable + p.Where(),
		Args: p.Args(),
	}
}

// DistinctEpicValues lists the non-blank values of one epic column.
func DistinctEpicValues(column string) Query {
	return Query{
		SQL: "SELECT DISTINCT " + column + " FROM " + EpicTable +
			" WHERE " + column + " IS NOT NULL AND " + column + " <> '' ORDER BY " + column,
	}
}

func ListSubTasks(f domain.SubTaskFilter) Query {
	p := f.Predicate()
	return Query{
		SQL:  "SELECT " + subTaskColumns + " FROM " + SubTaskTable + p.Where() + " ORDER BY epic_number, task_number",
		Args: p.Args(),
	}
}

func CountSubTasks() Query {
	return Query{SQL: "SELECT COUNT(*) FROM " + SubTaskTable}
}

func ListTickets(f domain.TicketFilter) Query {
	p := f.Predicate()
	return Query{
		SQL:  "SELECT " + ticketColumns + " FROM " + TicketTable + p.Where() + " ORDER BY created_at DESC, ticket_number",
		Args: p.Args(),
	}
}

func CountTickets(f domain.TicketFilter) Query {
	p := f.Predicate()
	return Query{
		SQL:  "SELECT COUNT(*) FROM " + TicketTable + p.Where(),
		Args: p.Args(),
	}
}
