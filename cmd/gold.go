package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var goldCmd = &cobra.Command{
	Use:   "gold <hash-prefix>",
	Short: "Per-minute gold differential curve of a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runGold,
}

func runGold(cmd *cobra.Command, args []string) error {
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
	rows, err := db.GetTeamFrames(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query team frames: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("no team frames stored (was the match parsed with store_frames=false?)")
		return nil
	}
	roster, err := db.GetPlayers(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query roster: %w", err)
	}
	var teams [2]string
	for i := 0; i < len(roster) && i < 2; i++ {
		teams[i] = roster[i].URN
	}

	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintGoldCurve(os.Stdout, report.GoldCurve(rows), teams)
	return nil
}
