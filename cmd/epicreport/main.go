package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/bootstrap"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/cli"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	// Commands validate only the settings they use.
	cfg := config.FromEnv()

	// Human-readable logs on a terminal, the configured format otherwise.
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		cfg.Logging.Format = "text"
	}
	cfg.Logging.File = ""
	logger := bootstrap.NewLogger(cfg, os.Stderr, nil)

	app := &cli.App{
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Now:    time.Now,
		OpenWarehouse: func(ctx context.Context) (ports.Warehouse, error) {
			return bootstrap.OpenWarehouse(ctx, cfg)
		},
		OpenSource: func(ctx context.Context) (ports.Warehouse, error) {
			return bootstrap.OpenPostgres(ctx, cfg)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
