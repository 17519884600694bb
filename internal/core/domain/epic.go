package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Labels substituted for empty grouping keys.
const (
	NoTeamLabel          = "No Team"
	UndefinedStatusLabel = "Undefined"
)

// Canonical tracker statuses.
const (
	StatusDone        = "Done"
	StatusClosed      = "Closed"
	StatusInProgress  = "In Progress"
	StatusDevelopment = "Development"
	StatusInReview    = "In Review"
)

// RecordType distinguishes the three schedule views carried by a warehouse row.
type RecordType int

const (
	RecordTypeUnknown RecordType = iota
	RecordTypePlannedByOwner
	RecordTypePlannedByTeam
	RecordTypeActualByTeam
)

// RecordTypes lists the known record types in display order.
var RecordTypes = []RecordType{
	RecordTypePlannedByOwner,
	RecordTypePlannedByTeam,
	RecordTypeActualByTeam,
}

func (t RecordType) String() string {
	switch t {
	case RecordTypePlannedByOwner:
		return "planned_by_owner"
	case RecordTypePlannedByTeam:
		return "planned_by_team"
	case RecordTypeActualByTeam:
		return "actual_by_team"
	default:
		return "unknown"
	}
}

// Label is the human name used in legends and hover text.
func (t RecordType) Label() string {
	switch t {
	case RecordTypePlannedByOwner:
		return "Planned (Product Owner)"
	case RecordTypePlannedByTeam:
		return "Planned (Team)"
	case RecordTypeActualByTeam:
		return "Actual (Team)"
	default:
		return "Unknown"
	}
}

// ParseRecordType accepts canonical names and the warehouse's legacy labels.
func ParseRecordType(s string) RecordType {
	switch strings.TrimSpace(s) {
	case "planned_by_owner", "PlannedByOwner", "Planejado P.O.":
		return RecordTypePlannedByOwner
	case "planned_by_team", "PlannedByTeam", "Planejado Time":
		return RecordTypePlannedByTeam
	case "actual_by_team", "ActualByTeam", "Realizado Time":
		return RecordTypeActualByTeam
	default:
		return RecordTypeUnknown
	}
}

// Epic is one warehouse row describing an epic under a given record type.
type Epic struct {
	Number               string
	Summary              string
	Team                 string
	Product              string
	Status               string
	PlannedStart         *time.Time
	PlannedDue           *time.Time
	TaskStartActual      *time.Time
	TaskFinishActual     *time.Time
	CompletionPercentage *float64
	RecordType           RecordType
	UpstreamIndicator    string

	// Derived by Rules.Annotate.
	Indicator Indicator
	Alerts    AlertFlags
}

// Completion returns the completion percentage, treating null as zero.
func (e Epic) Completion() float64 {
	if e.CompletionPercentage == nil {
		return 0
	}
	return *e.CompletionPercentage
}

// TeamOrDefault returns the team name or NoTeamLabel.
func (e Epic) TeamOrDefault() string {
	if strings.TrimSpace(e.Team) == "" {
		return NoTeamLabel
	}
	return e.Team
}

// SubTask is a unit of work belonging to an epic.
type SubTask struct {
	Number               string
	Summary              string
	EpicNumber           string
	Team                 string
	Status               string
	Type                 string
	Stage                string
	PlannedStart         *time.Time
	PlannedFinish        *time.Time
	ActualStart          *time.Time
	ActualFinish         *time.Time
	CompletionPercentage *float64
	CreatedAt            *time.Time
	UpdatedAt            *time.Time
}

// MaintenanceTicket is a corrective/support (MAN) ticket.
type MaintenanceTicket struct {
	Number         string
	Summary        string
	Team           string
	Status         string
	Product        string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
	ResolutionDate *time.Time
}

// IsOpen reports whether the ticket has not been resolved yet.
func (t MaintenanceTicket) IsOpen() bool {
	return t.ResolutionDate == nil
}

// FilterOptions are the distinct values offered by the dashboard filter bar.
type FilterOptions struct {
	Teams    []string
	Products []string
	Statuses []string
}

// IsTerminalStatus reports whether status is Done or Closed, compared exactly.
func IsTerminalStatus(status string) bool {
	return status == StatusDone || status == StatusClosed
}

// IsInProgressStatus reports membership in the in-progress status set.
func IsInProgressStatus(status string) bool {
	switch status {
	case StatusInProgress, StatusDevelopment, StatusInReview:
		return true
	}
	return false
}

var completedStatuses = foldAll("Done", "Closed", "Concluído", "Finalizado")

// foldStatus case-folds a status. A Caser is stateful, so one is built per call.
func foldStatus(status string) string {
	return cases.Fold().String(strings.TrimSpace(status))
}

func foldAll(statuses ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		set[foldStatus(s)] = struct{}{}
	}
	return set
}

// IsCompletedStatus is the case-insensitive completion check that also
// recognises the Portuguese variants exported by the tracker.
func IsCompletedStatus(status string) bool {
	_, ok := completedStatuses[foldStatus(status)]
	return ok
}

// DisplayStatus normalises a status for labels.
func DisplayStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return UndefinedStatusLabel
	}
	return status
}
