package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/sqlite"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

func newSnapshotCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy the warehouse read models into a local SQLite file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if to == "" {
				to = app.Config.Warehouse.SQLitePath
			}

			src, err := app.OpenSource(ctx)
			if err != nil {
				return fmt.Errorf("opening source warehouse: %w", err)
			}
			defer src.Close()

			var snap sqlite.Snapshot
			if snap.Epics, err = src.Epics().ListEpics(ctx, domain.EpicFilter{}); err != nil {
				return err
			}
			if snap.SubTasks, err = src.SubTasks().ListSubTasks(ctx, domain.SubTaskFilter{}); err != nil {
				return err
			}
			if snap.Tickets, err = src.Tickets().ListTickets(ctx, domain.TicketFilter{}); err != nil {
				return err
			}

			dst, err := sqlite.Open(to)
			if err != nil {
				return fmt.Errorf("opening snapshot %s: %w", to, err)
			}
			defer dst.Close()

			if err := dst.Replace(ctx, snap); err != nil {
				return err
			}

			app.Logger.Info("snapshot written",
				"path", to,
				"epics", len(snap.Epics),
				"subtasks", len(snap.SubTasks),
				"tickets", len(snap.Tickets),
			)
			_, err = fmt.Fprintf(app.Out, "Snapshot %s: %d epics, %d subtasks, %d tickets\n",
				to, len(snap.Epics), len(snap.SubTasks), len(snap.Tickets))
			return err
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination SQLite file (default SQLITE_PATH)")
	return cmd
}
