package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *App) *cobra.Command {
	var dir string
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the Postgres warehouse views",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config.Warehouse.URL == "" {
				return errors.New("DATABASE_URL is required to run migrations")
			}

			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving migrations directory: %w", err)
			}

			m, err := migrate.New("file://"+abs, app.Config.Warehouse.URL)
			if err != nil {
				return fmt.Errorf("creating migrate instance: %w", err)
			}
			defer m.Close()

			switch {
			case args[0] == "up" && steps == 0:
				err = m.Up()
			case args[0] == "up":
				err = m.Steps(steps)
			case steps == 0:
				err = m.Steps(-1)
			default:
				err = m.Steps(-steps)
			}
			if errors.Is(err, migrate.ErrNoChange) {
				_, err = fmt.Fprintln(app.Out, "No change")
				return err
			}
			if err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}

			version, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return err
			}
			app.Logger.Info("migrations applied", "direction", args[0], "version", version, "dirty", dirty)
			_, err = fmt.Fprintf(app.Out, "Warehouse schema at version %d\n", version)
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "Migrations directory")
	cmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (default all for up, 1 for down)")
	return cmd
}
