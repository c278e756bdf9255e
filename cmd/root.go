package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/config"
	"github.com/pable/go-lol-metrics/internal/logger"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// cfg is loaded before any subcommand runs.
	cfg = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "lolmetrics",
	Short: "LoL match capture timeline and team metrics tool",
	Long: `Rebuild a per-second match timeline from a live-data capture directory
(numbered JSON records) and compute per-team metrics: gold differential at
10/15/20 minutes and at the end, KDA, objective counts and first objectives.`,
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
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $LOLMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(goldCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig layers defaults, file and env, then lets explicitly set flags win.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	if err := logger.Init(loaded.LogLevel, os.Stderr); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg = loaded
	dbPath = cfg.DBPath
	return nil
}
