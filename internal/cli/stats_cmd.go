package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

func newStatsCmd(app *App) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard indicators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := filters.dashboardQuery()
			if err != nil {
				return err
			}

			return app.withServices(cmd.Context(), func(s serviceSet) error {
				d, err := s.dashboard.GetDashboard(cmd.Context(), q)
				if err != nil {
					return err
				}
				return writeDashboard(app.Out, d)
			})
		},
	}

	filters.register(cmd.Flags(), false)
	return cmd
}

func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func writeDashboard(w io.Writer, d *ports.Dashboard) error {
	s := d.Stats

	period := d.Period.Description
	if d.Period.Range.Bounded() {
		period += " (" + d.Period.Range.String() + ")"
	}

	trend := "n/a"
	if s.TrendPercent != nil {
		trend = fmt.Sprintf("%+.1f%%", *s.TrendPercent)
	}

	fmt.Fprintf(w, "Period:      %s\n", period)
	fmt.Fprintf(w, "Epics:       %s (done %d, in progress %d, other %d)\n",
		humanize.Comma(int64(s.Total)), s.StatusCounts.Done, s.StatusCounts.InProgress, s.StatusCounts.Other)
	fmt.Fprintf(w, "Alerts:      %d late, %d near deadline, %d low progress\n", s.Late, s.NearDeadline, s.LowProgress)
	fmt.Fprintf(w, "Completion:  %s average\n", percent(s.AverageCompletion))
	fmt.Fprintf(w, "Deliveries:  %d (trend %s)\n", s.Deliveries, trend)
	fmt.Fprintf(w, "Subtasks:    %s\n", humanize.Comma(int64(d.TotalSubTasks)))
	fmt.Fprintf(w, "Backlog:     %s open tickets\n", humanize.Comma(int64(d.Backlog)))

	if len(s.Teams) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tEPICS\tAVG\tDONE\tLATE")
	for _, t := range s.Teams {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%d\t%d\n", t.Team, t.Count, t.AverageCompletion, t.Done, t.Late)
	}
	return tw.Flush()
}

func newAlertsCmd(app *App) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "alerts <overdue|near_deadline|low_progress>",
		Short: "List the epics raising an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseAlertKind(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], apperrors.ErrUnknownAlertKind)
			}
			q, err := filters.dashboardQuery()
			if err != nil {
				return err
			}

			return app.withServices(cmd.Context(), func(s serviceSet) error {
				details, err := s.dashboard.GetAlertDetails(cmd.Context(), kind, q)
				if err != nil {
					return err
				}
				return writeAlerts(app.Out, kind, details)
			})
		},
	}

	filters.register(cmd.Flags(), false)
	return cmd
}

func writeAlerts(w io.Writer, kind domain.AlertKind, details []domain.AlertDetail) error {
	if len(details) == 0 {
		_, err := fmt.Fprintf(w, "No %s epics.\n", kind)
		return err
	}

	days := map[domain.AlertKind]string{
		domain.AlertOverdue:      "DAYS LATE",
		domain.AlertNearDeadline: "DAYS LEFT",
		domain.AlertLowProgress:  "DAYS RUNNING",
	}[kind]

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "EPIC\tTEAM\tSTATUS\tDUE\tDONE\t%s\n", days)
	for _, d := range details {
		due := "-"
		if d.Due != nil {
			due = d.Due.Format(domain.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f%%\t%d\n", d.Number, d.Team, d.Status, due, d.Completion, d.Days)
	}
	return tw.Flush()
}
