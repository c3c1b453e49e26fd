package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all runs stored in the database:
run counts per dataset, load date range, teams seen, and the teams that
appear in the most runs.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalRuns == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'ckmetrics corners <file> --store' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Runs stored   : %d (%d corners, %d field tilt)\n", ov.TotalRuns, ov.CornerRuns, ov.TiltRuns)
	fmt.Fprintf(os.Stdout, "  Loaded        : %s → %s\n", ov.EarliestRun, ov.LatestRun)
	fmt.Fprintf(os.Stdout, "  Teams seen    : %d\n", ov.UniqueTeams)
	fmt.Fprintf(os.Stdout, "  Data gaps     : %d\n", ov.TotalGaps)

	apps, err := db.GetTeamAppearances(10)
	if err != nil {
		return fmt.Errorf("get team appearances: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	tt.Header("TEAM", "RUNS")
	for _, a := range apps {
		tt.Append(a.Team, fmt.Sprintf("%d", a.Runs))
	}
	tt.Render()
	return nil
}
