package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/parser"
	"github.com/pable/go-lol-metrics/internal/pipeline"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	parseForce bool
	focusTeam  string
)

var parseCmd = &cobra.Command{
	Use:   "parse <capture-dir>",
	Short: "Rebuild a capture's timeline and store team metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseForce, "force", false, "reprocess even if the capture is already stored")
	parseCmd.Flags().StringVar(&focusTeam, "team", "", "highlight team urn")
}

func runParse(cmd *cobra.Command, args []string) error {
	dir := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", dir)
	raw, err := parser.ParseDir(dir)
	if err != nil {
		return fmt.Errorf("parse capture: %w", err)
	}

	exists, err := db.MatchExists(raw.MatchHash)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists && !parseForce {
		fmt.Fprintf(os.Stdout, "Capture %s already stored, showing cached results.\n", raw.MatchHash[:12])
		return showByHash(db, raw.MatchHash)
	}

	res, err := pipeline.Process(cmd.Context(), raw)
	if err != nil {
		return err
	}
	res.Summary.RunID = uuid.NewString()

	if err := saveResult(db, res, cfg.StoreFrames); err != nil {
		return err
	}

	report.PrintMatchSummary(os.Stdout, res.Summary)
	fmt.Fprintf(os.Stdout, "Stat updates: %d merged (%d drifted), %d skipped\n\n",
		res.Merge.Merged, res.Merge.Drifted, res.Merge.Skipped)
	report.PrintRoster(os.Stdout, res.Game.Teams)
	teams := res.OrderedTeams()
	report.PrintTeamTable(os.Stdout, teams, focusTeam)
	report.PrintObjectiveTable(os.Stdout, teams)
	return nil
}

func showByHash(db *storage.DB, hash string) error {
	match, err := db.GetMatchByPrefix(hash)
	if err != nil || match == nil {
		return fmt.Errorf("match not found: %s", hash)
	}
	roster, err := db.GetPlayers(match.MatchHash)
	if err != nil {
		return err
	}
	results, err := db.GetTeamResults(match.MatchHash)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintRoster(os.Stdout, roster)
	report.PrintTeamTable(os.Stdout, results, focusTeam)
	report.PrintObjectiveTable(os.Stdout, results)
	return nil
}
