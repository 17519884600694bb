// Package cli implements the epicreport command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/services"
)

// App holds the collaborators shared by every command.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time

	// OpenWarehouse opens the configured reporting store.
	OpenWarehouse func(ctx context.Context) (ports.Warehouse, error)
	// OpenSource opens the store snapshots are copied from.
	OpenSource func(ctx context.Context) (ports.Warehouse, error)
}

// NewRootCmd creates the top-level "epicreport" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "epicreport",
		Short:         "Project and maintenance reporting from the warehouse",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStatsCmd(app),
		newAlertsCmd(app),
		newExportCmd(app),
		newSnapshotCmd(app),
		newMigrateCmd(app),
		newTokenCmd(app),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) rules() (domain.Rules, error) {
	return config.LoadRules(a.Config.Rules.File)
}

// serviceSet is the core services built over one open warehouse.
type serviceSet struct {
	dashboard ports.DashboardService
	reports   ports.ReportService
}

// withServices opens the warehouse, builds the services and runs fn.
func (a *App) withServices(ctx context.Context, fn func(serviceSet) error) error {
	rules, err := a.rules()
	if err != nil {
		return err
	}

	w, err := a.OpenWarehouse(ctx)
	if err != nil {
		return fmt.Errorf("opening warehouse: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			a.Logger.Warn("closing warehouse", "error", err)
		}
	}()

	clock := services.Clock(a.now)
	return fn(serviceSet{
		dashboard: services.NewDashboardService(w.Epics(), w.SubTasks(), w.Tickets(), rules, clock),
		reports:   services.NewReportService(w.Epics(), w.SubTasks(), w.Tickets(), rules, clock),
	})
}
