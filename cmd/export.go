package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/export"
	"github.com/pable/go-ck-metrics/internal/model"
	"github.com/pable/go-ck-metrics/internal/projector"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a stored run to an XLSX workbook",
	Long: `Write a stored run to an XLSX workbook. Corner runs get Season, Metrics and Gaps
sheets; field-tilt runs get Tilt and Gaps sheets.

Example:
  ckmetrics export 3fa2c1 --out liga1-corners.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output workbook path (required)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(_ *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRunByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no run found with hash prefix %q", args[0])
	}
	gaps, err := db.GetRunGaps(run.Hash)
	if err != nil {
		return fmt.Errorf("get gaps: %w", err)
	}

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
		err = export.WriteCorners(exportOut, season, metrics, gaps)
		if err != nil {
			return err
		}
	case model.DatasetTilt:
		season, err := db.GetTiltTotals(run.Hash)
		if err != nil {
			return fmt.Errorf("get tilt totals: %w", err)
		}
		if err := export.WriteTilt(exportOut, season, gaps); err != nil {
			return err
		}
	default:
		return fmt.Errorf("run has unknown dataset %q", run.Dataset)
	}

	fmt.Fprintf(os.Stdout, "Workbook written: %s\n", exportOut)
	return nil
}
