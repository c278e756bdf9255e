package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/storage"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the match store",
	Long: `Delete the SQLite match store and its WAL files. Stored matches, rosters and
frames are gone afterwards; run parse or batch over the captures to rebuild.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without asking")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "would delete %s; pass --force to do it\n", dbPath)
		return nil
	}
	removed, err := storage.Remove(dbPath)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(os.Stdout, "No database at %s.\n", dbPath)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted %s\n", dbPath)
	return nil
}
