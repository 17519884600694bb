// Package bootstrap builds the process-wide collaborators shared by the
// API server and the command line tool.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/postgres"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/sqlite"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

// NewLogger builds the structured logger described by cfg. A nil ring
// disables the in-memory log buffer.
func NewLogger(cfg *config.Config, out io.Writer, ring *logging.RingBuffer) *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      out,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
		File:        cfg.Logging.File,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
		Ring:        ring,
	})
}

// OpenWarehouse connects to the reporting store selected by
// cfg.Warehouse.Driver.
func OpenWarehouse(ctx context.Context, cfg *config.Config) (ports.Warehouse, error) {
	switch cfg.Warehouse.Driver {
	case config.DriverSQLite:
		w, err := sqlite.Open(cfg.Warehouse.SQLitePath)
		if err != nil {
			return nil, err
		}
		return w, nil
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", cfg.Warehouse.Driver)
	}
}

// OpenPostgres connects to the Postgres warehouse regardless of the
// configured driver.
func OpenPostgres(ctx context.Context, cfg *config.Config) (*postgres.Warehouse, error) {
	return postgres.Open(ctx, postgres.Config{
		URL:             cfg.Warehouse.URL,
		MaxConns:        cfg.Warehouse.MaxOpenConns,
		MinConns:        cfg.Warehouse.MaxIdleConns,
		ConnMaxLifetime: cfg.Warehouse.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Warehouse.ConnMaxIdleTime,
		QueryTimeout:    cfg.Warehouse.QueryTimeout,
	})
}
