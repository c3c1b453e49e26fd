package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/joiner"
	"github.com/pable/go-ck-metrics/internal/pipeline"
	"github.com/pable/go-ck-metrics/internal/report"
)

var (
	trendMissing string
	trendSheet   string
)

var trendCmd = &cobra.Command{
	Use:   "trend <file> <team>",
	Short: "Week-by-week corner-kick trend for one team",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendMissing, "missing-opponent", "", "fatal or skip (default from config)")
	trendCmd.Flags().StringVar(&trendSheet, "sheet", "", "worksheet to read from an XLSX input")
}

func runTrend(cmd *cobra.Command, args []string) error {
	opts, err := pipelineOptions(trendMissing, trendSheet)
	if err != nil {
		return err
	}
	team, ok := opts.Roster.Lookup(args[1])
	if !ok {
		return fmt.Errorf("unknown team %q (see 'ckmetrics roster')", args[1])
	}

	_, joined, err := pipeline.JoinCorners(args[0], opts)
	if err != nil {
		return err
	}

	rows := pipeline.TeamWeeks(joined.Rows, team)
	if len(rows) == 0 {
		fmt.Println("no fixtures found")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s: %d fixture(s)\n\n", team, len(rows))
	report.PrintTrendTable(os.Stdout, rows)
	var teamGaps []joiner.Gap
	for _, g := range joined.Gaps {
		if g.Team == team {
			teamGaps = append(teamGaps, g)
		}
	}
	report.PrintGaps(os.Stdout, pipeline.GapRecords(teamGaps, nil))
	return nil
}
