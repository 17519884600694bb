package http

import (
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

func timestampString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// --- Epics, subtasks and tickets ---

type AlertFlagsDTO struct {
	Overdue      bool `json:"overdue"`
	NearDeadline bool `json:"nearDeadline"`
	LowProgress  bool `json:"lowProgress"`
}

type EpicDTO struct {
	Number               string        `json:"number"`
	Summary              string        `json:"summary"`
	Team                 string        `json:"team"`
	Product              string        `json:"product,omitempty"`
	Status               string        `json:"status"`
	PlannedStart         *string       `json:"plannedStart"`
	PlannedDue           *string       `json:"plannedDue"`
	ActualStart          *string       `json:"actualStart"`
	ActualFinish         *string       `json:"actualFinish"`
	CompletionPercentage *float64      `json:"completionPercentage"`
	RecordType           string        `json:"recordType"`
	RecordTypeLabel      string        `json:"recordTypeLabel"`
	Indicator            string        `json:"indicator"`
	Tone                 string        `json:"tone"`
	Alerts               AlertFlagsDTO `json:"alerts"`
}

func ToEpicDTO(e domain.Epic) EpicDTO {
	return EpicDTO{
		Number:               e.Number,
		Summary:              e.Summary,
		Team:                 e.TeamOrDefault(),
		Product:              e.Product,
		Status:               domain.DisplayStatus(e.Status),
		PlannedStart:         dateString(e.PlannedStart),
		PlannedDue:           dateString(e.PlannedDue),
		ActualStart:          dateString(e.TaskStartActual),
		ActualFinish:         dateString(e.TaskFinishActual),
		CompletionPercentage: e.CompletionPercentage,
		RecordType:           e.RecordType.String(),
		RecordTypeLabel:      e.RecordType.Label(),
		Indicator:            e.Indicator.String(),
		Tone:                 e.Indicator.Tone(),
		Alerts: AlertFlagsDTO{
			Overdue:      e.Alerts.Overdue,
			NearDeadline: e.Alerts.NearDeadline,
			LowProgress:  e.Alerts.LowProgress,
		},
	}
}

type SubTaskDTO struct {
	Number               string   `json:"number"`
	Summary              string   `json:"summary"`
	EpicNumber           string   `json:"epicNumber"`
	Team                 string   `json:"team"`
	Status               string   `json:"status"`
	Type                 string   `json:"type"`
	Stage                string   `json:"stage"`
	PlannedStart         *string  `json:"plannedStart"`
	PlannedFinish        *string  `json:"plannedFinish"`
	ActualStart          *string  `json:"actualStart"`
	ActualFinish         *string  `json:"actualFinish"`
	CompletionPercentage *float64 `json:"completionPercentage"`
	CreatedAt            *string  `json:"createdAt"`
	UpdatedAt            *string  `json:"updatedAt"`
}

func ToSubTaskDTO(t domain.SubTask) SubTaskDTO {
	return SubTaskDTO{
		Number:               t.Number,
		Summary:              t.Summary,
		EpicNumber:           t.EpicNumber,
		Team:                 t.Team,
		Status:               t.Status,
		Type:                 t.Type,
		Stage:                t.Stage,
		PlannedStart:         dateString(t.PlannedStart),
		PlannedFinish:        dateString(t.PlannedFinish),
		ActualStart:          dateString(t.ActualStart),
		ActualFinish:         dateString(t.ActualFinish),
		CompletionPercentage: t.CompletionPercentage,
		CreatedAt:            timestampString(t.CreatedAt),
		UpdatedAt:            timestampString(t.UpdatedAt),
	}
}

type TicketDTO struct {
	Number         string  `json:"number"`
	Summary        string  `json:"summary"`
	Team           string  `json:"team"`
	Status         string  `json:"status"`
	Product        string  `json:"product,omitempty"`
	CreatedAt      *string `json:"createdAt"`
	UpdatedAt      *string `json:"updatedAt"`
	ResolutionDate *string `json:"resolutionDate"`
	Open           bool    `json:"open"`
}

func ToTicketDTO(t domain.MaintenanceTicket) TicketDTO {
	return TicketDTO{
		Number:         t.Number,
		Summary:        t.Summary,
		Team:           t.Team,
		Status:         t.Status,
		Product:        t.Product,
		CreatedAt:      timestampString(t.CreatedAt),
		UpdatedAt:      timestampString(t.UpdatedAt),
		ResolutionDate: timestampString(t.ResolutionDate),
		Open:           t.IsOpen(),
	}
}

// --- Dashboard ---

type TeamRollupDTO struct {
	Team              string  `json:"team"`
	Count             int     `json:"count"`
	AverageCompletion float64 `json:"averageCompletion"`
	Done              int     `json:"done"`
	Late              int     `json:"late"`
}

type StatusShareDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type TimelineDTO struct {
	Months     []string `json:"months"`
	Planned    []int    `json:"planned"`
	ActualDone []int    `json:"actualDone"`
}

type StatsDTO struct {
	Total              int              `json:"total"`
	Done               int              `json:"done"`
	InProgress         int              `json:"inProgress"`
	Other              int              `json:"other"`
	Late               int              `json:"late"`
	NearDeadline       int              `json:"nearDeadline"`
	LowProgress        int              `json:"lowProgress"`
	AverageCompletion  *float64         `json:"averageCompletion"`
	Deliveries         int              `json:"deliveries"`
	TrendPercent       *float64         `json:"trendPercent"`
	Teams              []TeamRollupDTO  `json:"teams"`
	StatusDistribution []StatusShareDTO `json:"statusDistribution"`
	Timeline           TimelineDTO      `json:"timeline"`
}

func ToStatsDTO(s domain.DashboardStats) StatsDTO {
	return StatsDTO{
		Total:             s.Total,
		Done:              s.StatusCounts.Done,
		InProgress:        s.StatusCounts.InProgress,
		Other:             s.StatusCounts.Other,
		Late:              s.Late,
		NearDeadline:      s.NearDeadline,
		LowProgress:       s.LowProgress,
		AverageCompletion: s.AverageCompletion,
		Deliveries:        s.Deliveries,
		TrendPercent:      s.TrendPercent,
		Teams: mapSlice(s.Teams, func(t domain.TeamRollup) TeamRollupDTO {
			return TeamRollupDTO(t)
		}),
		StatusDistribution: mapSlice(s.StatusDistribution, func(ss domain.StatusShare) StatusShareDTO {
			return StatusShareDTO(ss)
		}),
		Timeline: TimelineDTO{
			Months:     nonNil(s.Timeline.Months),
			Planned:    nonNil(s.Timeline.Planned),
			ActualDone: nonNil(s.Timeline.ActualDone),
		},
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type PeriodDTO struct {
	Key         string  `json:"key"`
	Description string  `json:"description"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
}

func ToPeriodDTO(p ports.PeriodInfo) PeriodDTO {
	dto := PeriodDTO{Key: string(p.Key), Description: p.Description}
	if p.Range.Bounded() {
		dto.Start = dateString(&p.Range.Start)
		dto.End = dateString(&p.Range.End)
	}
	return dto
}

// AppliedFiltersDTO echoes the filters the response was computed with.
type AppliedFiltersDTO struct {
	Team       string  `json:"team,omitempty"`
	Product    string  `json:"product,omitempty"`
	Status     string  `json:"status,omitempty"`
	RecordType string  `json:"recordType,omitempty"`
	Period     string  `json:"period"`
	Start      *string `json:"start,omitempty"`
	End        *string `json:"end,omitempty"`
}

type DashboardDTO struct {
	Stats         StatsDTO          `json:"stats"`
	Period        *PeriodDTO        `json:"period,omitempty"`
	Filters       AppliedFiltersDTO `json:"filters"`
	TotalSubTasks int               `json:"totalSubTasks"`
	Backlog       int               `json:"backlog"`
	GeneratedAt   string            `json:"generatedAt,omitempty"`
	Error         *ErrorResponse    `json:"error,omitempty"`
}

func ToDashboardDTO(d *ports.Dashboard) DashboardDTO {
	period := ToPeriodDTO(d.Period)
	return DashboardDTO{
		Stats:  ToStatsDTO(d.Stats),
		Period: &period,
		Filters: AppliedFiltersDTO{
			Team:    d.Query.Team,
			Product: d.Query.Product,
			Status:  d.Query.Status,
			Period:  string(d.Query.Period),
			Start:   dateString(d.Query.Start),
			End:     dateString(d.Query.End),
		},
		TotalSubTasks: d.TotalSubTasks,
		Backlog:       d.Backlog,
		GeneratedAt:   d.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

type FilterOptionsDTO struct {
	Teams    []string `json:"teams"`
	Products []string `json:"products"`
	Statuses []string `json:"statuses"`
}

func ToFilterOptionsDTO(o *domain.FilterOptions) FilterOptionsDTO {
	return FilterOptionsDTO{
		Teams:    nonNil(o.Teams),
		Products: nonNil(o.Products),
		Statuses: nonNil(o.Statuses),
	}
}

type AlertDetailDTO struct {
	Number     string  `json:"number"`
	Summary    string  `json:"summary"`
	Team       string  `json:"team"`
	Status     string  `json:"status"`
	Start      *string `json:"start"`
	Due        *string `json:"due"`
	Completion float64 `json:"completion"`
	Days       int     `json:"days"`
}

func ToAlertDetailDTO(a domain.AlertDetail) AlertDetailDTO {
	return AlertDetailDTO{
		Number:     a.Number,
		Summary:    a.Summary,
		Team:       a.Team,
		Status:     a.Status,
		Start:      dateString(a.Start),
		Due:        dateString(a.Due),
		Completion: a.Completion,
		Days:       a.Days,
	}
}

// --- Gantt ---

type GanttBarDTO struct {
	Label       string  `json:"label"`
	EpicNumber  string  `json:"epicNumber"`
	Summary     string  `json:"summary"`
	Team        string  `json:"team"`
	Status      string  `json:"status"`
	RecordType  string  `json:"recordType"`
	Indicator   string  `json:"indicator"`
	Start       string  `json:"start"`
	Finish      string  `json:"finish"`
	Completion  float64 `json:"completion"`
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	Width       int     `json:"width"`
	LegendGroup string  `json:"legendGroup"`
	LegendName  string  `json:"legendName"`
	ShowLegend  bool    `json:"showLegend"`
	HoverText   string  `json:"hoverText"`
	Overdue     bool    `json:"overdue"`
}

func ToGanttBarDTO(b domain.GanttBar) GanttBarDTO {
	return GanttBarDTO{
		Label:       b.Label,
		EpicNumber:  b.EpicNumber,
		Summary:     b.Summary,
		Team:        b.Team,
		Status:      b.Status,
		RecordType:  b.RecordType.String(),
		Indicator:   b.Indicator.String(),
		Start:       b.Start.Format(domain.DateLayout),
		Finish:      b.Finish.Format(domain.DateLayout),
		Completion:  b.Completion,
		Color:       b.Style.Color,
		Opacity:     b.Style.Opacity,
		Width:       b.Style.Width,
		LegendGroup: b.LegendGroup,
		LegendName:  b.LegendName,
		ShowLegend:  b.ShowLegend,
		HoverText:   b.HoverText,
		Overdue:     b.Overdue,
	}
}

type GanttDTO struct {
	Bars         []GanttBarDTO     `json:"bars"`
	VisibleStart *string           `json:"visibleStart"`
	VisibleEnd   *string           `json:"visibleEnd"`
	Today        string            `json:"today"`
	Teams        []string          `json:"teams"`
	Statuses     []string          `json:"statuses"`
	TotalEpics   int               `json:"totalEpics"`
	Period       PeriodDTO         `json:"period"`
	Filters      AppliedFiltersDTO `json:"filters"`
}

func ToGanttDTO(v *ports.GanttView) GanttDTO {
	dto := GanttDTO{
		Bars:       mapSlice(v.Chart.Bars, ToGanttBarDTO),
		Today:      v.Chart.Today.Format(domain.DateLayout),
		Teams:      nonNil(v.Chart.Teams),
		Statuses:   nonNil(v.Chart.Statuses),
		TotalEpics: v.Chart.TotalEpics,
		Period:     ToPeriodDTO(v.Period),
		Filters: AppliedFiltersDTO{
			Team:   v.Query.Team,
			Status: v.Query.Status,
			Period: string(v.Query.Period),
			Start:  dateString(v.Query.Start),
			End:    dateString(v.Query.End),
		},
	}
	if v.Query.RecordType != domain.RecordTypeUnknown {
		dto.Filters.RecordType = v.Query.RecordType.String()
	}
	if r := v.Chart.VisibleRange; r.Bounded() {
		dto.VisibleStart = dateString(&r.Start)
		dto.VisibleEnd = dateString(&r.End)
	}
	return dto
}
