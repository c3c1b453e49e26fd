package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-ck-metrics/internal/config"
	"github.com/pable/go-ck-metrics/internal/logging"
	"github.com/pable/go-ck-metrics/internal/model"
	"github.com/pable/go-ck-metrics/internal/pipeline"
	"github.com/pable/go-ck-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ckmetrics",
	Short: "Corner-kick and field-tilt metrics tool",
	Long: `Load per-fixture team exports (CSV or XLSX), pair every row with the opponent's
row for the same fixture, and compute season totals and corner-kick efficiency ratios.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".ckmetrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(cornersCmd)
	rootCmd.AddCommand(tiltCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dropCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("db") && c.DBPath != "" {
		dbPath = c.DBPath
	}
	logging.Init(c.Logging.Level, c.Logging.Format, os.Stderr)
	cfg = c
	return nil
}

// pipelineOptions builds run options from the config, letting a non-empty
// --missing-opponent flag override the configured policy.
func pipelineOptions(missingOpponent, sheet string) (pipeline.Options, error) {
	roster, err := cfg.TeamRoster()
	if err != nil {
		return pipeline.Options{}, err
	}
	policy := cfg.Policy()
	if missingOpponent != "" {
		if policy, err = parsePolicy(missingOpponent); err != nil {
			return pipeline.Options{}, err
		}
	}
	if sheet == "" {
		sheet = cfg.Sheet
	}
	return pipeline.Options{Roster: roster, Sheet: sheet, Policy: policy}, nil
}

// openStore opens the database, creating its directory first.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func colorNames() map[model.Team]string {
	out := make(map[model.Team]string, len(cfg.Roster))
	for _, e := range cfg.Roster {
		out[model.Team(e.Name)] = e.Color
	}
	return out
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
