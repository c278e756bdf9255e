package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/batch"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	batchWorkers     int
	batchForce       bool
	batchMetricsFile string
)

var batchCmd = &cobra.Command{
	Use:   "batch <path>...",
	Short: "Process many captures in parallel",
	Long: `Process every capture directory in parallel and store the results.

Each path is either a capture directory (holding 000001.json, ...) or a
directory whose subdirectories are captures. Captures already stored are
skipped unless --force is given. A failed capture does not stop the others;
the command exits non-zero if any failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "parallel captures (default: config workers)")
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "reprocess captures already stored")
	batchCmd.Flags().StringVar(&batchMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dirs, err := batch.Discover(args)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	workers := cfg.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}
	runner := &batch.Runner{
		Workers: workers,
		Force:   batchForce,
		Store:   dbStore{db: db, frames: cfg.StoreFrames},
		Metrics: batch.NewMetrics(),
	}

	fmt.Fprintf(os.Stdout, "Processing %d captures with %d workers...\n", len(dirs), workers)
	rep, err := runner.Run(cmd.Context(), dirs)
	if err != nil {
		return err
	}
	report.PrintBatchReport(os.Stdout, rep)

	if batchMetricsFile != "" {
		if err := runner.Metrics.WriteFile(batchMetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d captures failed", rep.Failed, len(dirs))
	}
	return nil
}
