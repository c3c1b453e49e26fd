package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/model"
	"github.com/pable/go-ck-metrics/internal/projector"
	"github.com/pable/go-ck-metrics/internal/report"
	"github.com/pable/go-ck-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored run by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run found with hash prefix %q\n", prefix)
		return nil
	}
	return showRun(db, *run)
}

func showRun(db *storage.DB, run model.RunSummary) error {
	gaps, err := db.GetRunGaps(run.Hash)
	if err != nil {
		return fmt.Errorf("get gaps: %w", err)
	}

	report.PrintRunSummary(os.Stdout, run)
	switch run.Dataset {
	case model.DatasetCorners:
		season, err := db.GetCornerTotals(run.Hash)
		if err != nil {
			return fmt.Errorf("get corner totals: %w", err)
		}
		metrics, err := projector.ProjectAll(season)
		if err != nil {
			return fmt.Errorf("project metrics: %w", err)
		}
		report.PrintCornerSeasonTable(os.Stdout, season)
		fmt.Fprintln(os.Stdout)
		report.PrintDerivedTable(os.Stdout, metrics)
	case model.DatasetTilt:
		season, err := db.GetTiltTotals(run.Hash)
		if err != nil {
			return fmt.Errorf("get tilt totals: %w", err)
		}
		report.PrintTiltTable(os.Stdout, season)
	default:
		return fmt.Errorf("run %s has unknown dataset %q", report.ShortHash(run.Hash), run.Dataset)
	}
	report.PrintGaps(os.Stdout, gaps)
	return nil
}
