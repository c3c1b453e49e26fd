package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/report"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print the configured team roster and chart colours",
	Args:  cobra.NoArgs,
	RunE:  runRoster,
}

func runRoster(cmd *cobra.Command, args []string) error {
	roster, err := cfg.TeamRoster()
	if err != nil {
		return err
	}
	report.PrintRoster(os.Stdout, roster.Teams(), colorNames())
	return nil
}
