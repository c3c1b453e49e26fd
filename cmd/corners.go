package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/chart"
	"github.com/pable/go-ck-metrics/internal/export"
	"github.com/pable/go-ck-metrics/internal/joiner"
	"github.com/pable/go-ck-metrics/internal/pipeline"
	"github.com/pable/go-ck-metrics/internal/report"
)

var (
	cornersCharts  string
	cornersXLSX    string
	cornersStore   bool
	cornersMissing string
	cornersSheet   string
)

var cornersCmd = &cobra.Command{
	Use:   "corners <file>",
	Short: "Compute corner-kick season totals and efficiency ratios",
	Long: `Load a corner-kick export (CSV or XLSX) with the columns
  team, match, game_week, total_ck_for, shots_from_ck, xg
pair each row with the opponent's row for the same fixture and game week, then print
season totals and the attacking/defensive ratios.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorners,
}

func init() {
	cornersCmd.Flags().StringVar(&cornersCharts, "charts", "", "write cka.png and ckd.png to this directory")
	cornersCmd.Flags().StringVar(&cornersXLSX, "xlsx", "", "write results to this XLSX workbook")
	cornersCmd.Flags().BoolVar(&cornersStore, "store", false, "save the run to the metrics database")
	cornersCmd.Flags().StringVar(&cornersMissing, "missing-opponent", "", "fatal or skip (default from config)")
	cornersCmd.Flags().StringVar(&cornersSheet, "sheet", "", "worksheet to read from an XLSX input")
}

func runCorners(cmd *cobra.Command, args []string) error {
	opts, err := pipelineOptions(cornersMissing, cornersSheet)
	if err != nil {
		return err
	}

	run, err := pipeline.Corners(args[0], opts)
	if err != nil {
		return err
	}

	summary := run.Summary(time.Now().UTC().Format(time.RFC3339))
	gaps := run.Gaps()

	report.PrintRunSummary(os.Stdout, summary)
	report.PrintCornerSeasonTable(os.Stdout, run.Season)
	fmt.Fprintln(os.Stdout)
	report.PrintDerivedTable(os.Stdout, run.Metrics)
	report.PrintGaps(os.Stdout, gaps)

	if cornersCharts != "" {
		palette, err := cfg.Palette()
		if err != nil {
			return err
		}
		paths, err := chart.WriteAll(cornersCharts, run.Metrics, chart.Options{
			Width:   cfg.Chart.Width,
			Height:  cfg.Chart.Height,
			Palette: palette,
		})
		if err != nil {
			return fmt.Errorf("write charts: %w", err)
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stdout, "Chart written: %s\n", p)
		}
	}

	if cornersXLSX != "" {
		if err := export.WriteCorners(cornersXLSX, run.Season, run.Metrics, gaps); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Workbook written: %s\n", cornersXLSX)
	}

	if cornersStore {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveCornerRun(summary, run.Season, gaps); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Run stored: %s\n", report.ShortHash(summary.Hash))
	}
	return nil
}

func parsePolicy(s string) (joiner.Policy, error) {
	p, err := joiner.ParsePolicy(s)
	if err != nil {
		return p, fmt.Errorf("--missing-opponent: %w", err)
	}
	return p, nil
}
