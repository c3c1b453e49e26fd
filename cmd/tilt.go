package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/export"
	"github.com/pable/go-ck-metrics/internal/pipeline"
	"github.com/pable/go-ck-metrics/internal/report"
)

var (
	tiltXLSX    string
	tiltStore   bool
	tiltMissing string
	tiltSheet   string
)

var tiltCmd = &cobra.Command{
	Use:   "tilt <file>",
	Short: "Compute mean field tilt by match state, for and against",
	Long: `Load a field-tilt export (CSV or XLSX) with the columns
  Team, Match, Winning, Drawing, Losing
and print each team's mean shares alongside the mean shares its opponents recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: runTilt,
}

func init() {
	tiltCmd.Flags().StringVar(&tiltXLSX, "xlsx", "", "write results to this XLSX workbook")
	tiltCmd.Flags().BoolVar(&tiltStore, "store", false, "save the run to the metrics database")
	tiltCmd.Flags().StringVar(&tiltMissing, "missing-opponent", "", "fatal or skip (default from config)")
	tiltCmd.Flags().StringVar(&tiltSheet, "sheet", "", "worksheet to read from an XLSX input")
}

func runTilt(cmd *cobra.Command, args []string) error {
	opts, err := pipelineOptions(tiltMissing, tiltSheet)
	if err != nil {
		return err
	}

	run, err := pipeline.Tilt(args[0], opts)
	if err != nil {
		return err
	}

	summary := run.Summary(time.Now().UTC().Format(time.RFC3339))
	gaps := run.Gaps()

	report.PrintRunSummary(os.Stdout, summary)
	report.PrintTiltTable(os.Stdout, run.Season)
	report.PrintGaps(os.Stdout, gaps)

	if tiltXLSX != "" {
		if err := export.WriteTilt(tiltXLSX, run.Season, gaps); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Workbook written: %s\n", tiltXLSX)
	}

	if tiltStore {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveTiltRun(summary, run.Season, gaps); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Run stored: %s\n", report.ShortHash(summary.Hash))
	}
	return nil
}
