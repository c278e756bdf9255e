package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a stored match timeline as JSON",
	Long: `Write the per-tick timeline of a stored match as JSON for external
renderers: the roster, then one frame per elapsed second holding each
player's position (when sampled) and stats, plus team totals on frames a
stat update was merged into.

The match must have been parsed with store_frames enabled (the default).

Example:
  lolmetrics export 3fa9c2 --out game1.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file (- for stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("match not found: %s", args[0])
	}
	roster, err := db.GetPlayers(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query roster: %w", err)
	}
	teamRows, err := db.GetTeamFrames(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query team frames: %w", err)
	}
	playerRows, err := db.GetPlayerFrames(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query player frames: %w", err)
	}
	if len(playerRows) == 0 {
		return fmt.Errorf("no frames stored for %s", match.MatchHash[:12])
	}

	tl := report.BuildTimeline(*match, roster, teamRows, playerRows)

	var w io.Writer = os.Stdout
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tl); err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	if exportOut != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %d frames to %s\n", len(tl.Frames), exportOut)
	}
	return nil
}
