package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/report"
)

var dropForce bool

// dropCmd deletes one stored run, or the whole metrics database.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete a stored run or the whole metrics database",
	Long: `With a hash prefix, delete that run and its totals and gaps.
Without one, permanently delete the SQLite metrics database. Re-run with --store
afterwards to rebuild. Both forms need --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropRun(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropRun(prefix string) error {
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
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete %s run %s (%s).\n", run.Dataset, report.ShortHash(run.Hash), run.SourcePath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteRun(run.Hash); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted run: %s\n", report.ShortHash(run.Hash))
	return nil
}
