package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  runs(hash, dataset, source_path, loaded_at, observations, teams, weeks, gaps)
  corner_totals(run_hash, position, team, fixtures, ck_for, ck_against, shots_for,
    shots_against, xg_for, xg_against, mean_xg_per_shot, mean_xg_per_shot_against)
  tilt_totals(run_hash, position, team, fixtures, winning, drawing, losing,
    winning_against, drawing_against, losing_against)
  run_gaps(run_hash, seq, team, kind, detail)

Example:
  ckmetrics sql "SELECT team, ck_for FROM corner_totals ORDER BY ck_for DESC LIMIT 5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRawTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
