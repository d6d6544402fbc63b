package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/report"
	"github.com/Tiliavir/work-time-tracker/internal/session"
)

var (
	exportFormat string
	exportDate   string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the day's report",
	Long: `export writes the login and breaks report of the current session, or of an
archived day with --date. Text formats go to stdout unless --out is given;
xlsx defaults to LoginBreaksReport.xlsx.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatCSV, "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Export an archived day (YYYY-MM-DD) instead of the current session")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
}

var exportFormats = []string{report.FormatCSV, report.FormatJSON, report.FormatMD, report.FormatXLSX}

func runExport(cmd *cobra.Command, args []string) error {
	if !slices.Contains(exportFormats, exportFormat) {
		fail(usagef("unknown format %q (want csv, json, md or xlsx)", exportFormat))
	}

	sum, err := exportSummary(time.Now())
	if err != nil {
		fail(err)
	}

	out := exportOut
	if out == "" && exportFormat == report.FormatXLSX {
		out = report.DefaultFilename(exportFormat)
	}
	if out == "" {
		if err := report.Write(os.Stdout, exportFormat, sum); err != nil {
			exit(2, err)
		}
		return nil
	}

	if err := writeFile(out, func(w io.Writer) error { return report.Write(w, exportFormat, sum) }); err != nil {
		exit(2, err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", out)
	return nil
}

func exportSummary(now time.Time) (report.Summary, error) {
	if exportDate == "" {
		sum, err := report.FromSession(machine.Snapshot())
		if errors.Is(err, report.ErrNoLogin) {
			return report.Summary{}, session.ErrNotLoggedIn
		}
		return sum, err
	}

	key, err := historyDate(exportDate, now, cfg.RetentionDays)
	if err != nil {
		return report.Summary{}, err
	}
	r, ok, err := machine.Archive().Query(key)
	if err != nil {
		return report.Summary{}, err
	}
	if !ok {
		return report.Summary{}, usagef("no record for %s", key)
	}
	return report.FromRecord(r), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
