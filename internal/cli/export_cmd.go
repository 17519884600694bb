package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var filters filterFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export <epics|subtasks|tickets>",
		Short: "Write a report as CSV",
		Long: "Write a report as CSV. Without --out the file is created in the current\n" +
			"directory under a name describing the filters. Use --out - for stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, ok := export.ParseReport(args[0])
			if !ok {
				return export.UnknownReportError(args[0])
			}

			now := app.now()
			q, err := filters.exportQuery(now)
			if err != nil {
				return err
			}

			return app.withServices(cmd.Context(), func(s serviceSet) error {
				var buf bytes.Buffer
				rows, err := export.NewExporter(s.reports).Export(cmd.Context(), &buf, report, q)
				if err != nil {
					return err
				}

				if out == "-" {
					_, err := buf.WriteTo(app.Out)
					return err
				}

				path := out
				if path == "" || isDir(path) {
					path = filepath.Join(path, export.Filename(report, q.FilenameParams(), now))
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}

				app.Logger.Info("report exported", "report", report, "rows", rows, "path", path)
				_, err = fmt.Fprintf(app.Out, "Wrote %d rows (%s) to %s\n", rows, humanize.Bytes(uint64(buf.Len())), path)
				return err
			})
		},
	}

	filters.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory, - for stdout")
	return cmd
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
