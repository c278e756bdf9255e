package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

const schemaHelp = `Tables (ticks are elapsed game seconds, booleans are 0/1):
  matches        hash, game_urn, start_time, source_dir, frame_count, duration, run_id, parsed_at
  match_players  match_hash, team_urn, team_index, player_urn, summoner_name, champion_id, slot
  team_results   match_hash, team_urn, team_index, kills, deaths, assists, total_gold, kda,
                 gold_diff_{10,15,20,end}, {tower,inhib,dragon,baron,rift_herald}_kills, plates,
                 first_{blood,turret,inhibitor,dragon,baron,rift_herald}
  team_frames    match_hash, tick, team_urn, team_index, total_gold, kills, deaths, assists,
                 tower_kills, inhib_kills, dragon_kills, baron_kills
  player_frames  match_hash, tick, player_urn, has_position, x, y, merged, level, experience,
                 alive, health, health_max, current_gold, total_gold, kills, deaths, assists,
                 creep_score, wards_placed, wards_killed`

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Query the match store directly",
	Long: "Run a query against the match store and print the result set.\n\n" + schemaHelp + `

Gold lead of the first team at each full minute:
  lolmetrics sql "SELECT a.tick/60 AS min, a.total_gold - b.total_gold AS lead
    FROM team_frames a JOIN team_frames b USING (match_hash, tick)
    WHERE a.team_index = 0 AND b.team_index = 1 AND a.tick % 60 = 0"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return querySQL(db, strings.Join(args, " "))
}

// querySQL runs query and prints its rows. Shared with the shell.
func querySQL(db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
