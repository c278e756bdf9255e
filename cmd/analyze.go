package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

const analyzeSystemPrompt = `You are a League of Legends match analyst. You are given structured data
from a capture-processing tool and a question about one professional match.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers and game times (mm:ss) when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- The data does not say who won. Do not state a winner unless the question supplies it.
- Be concise and focus on how the game state developed.

Metrics glossary:
- gold_diff_10/15/20: team gold minus opponent gold at the first stat snapshot at or after 10/15/20 minutes.
  If the game ended earlier, the value is the end-of-game difference.
- gold_diff_end: the same at the last stat snapshot.
- KDA: (kills + assists) / max(1, deaths), one decimal.
- plates: outer turret plates taken. rift_herald_kills: heralds taken.
- first_*: the team took that objective first in the game.
- gold_curve: one sample per minute, diff is the first team's lead.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <hash-prefix> <question>",
	Short: "Analyze a single stored match with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default: config analyze_model)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzeMatchCmd)
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("match not found: %s", args[0])
	}
	question := args[1]

	roster, err := db.GetPlayers(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query roster: %w", err)
	}
	results, err := db.GetTeamResults(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query team results: %w", err)
	}
	rows, err := db.GetTeamFrames(match.MatchHash)
	if err != nil {
		return fmt.Errorf("query team frames: %w", err)
	}

	contextJSON, err := buildMatchContext(match, roster, results, report.GoldCurve(rows))
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnalyzeModel
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, question)
}

// buildMatchContext serialises a single match into compact JSON.
func buildMatchContext(match *model.MatchSummary, roster []model.Team, results []model.TeamResult, curve []report.GoldPoint) (string, error) {
	type playerEntry struct {
		Summoner string `json:"summoner"`
		Champion int    `json:"champion_id"`
	}
	type teamEntry struct {
		URN             string        `json:"urn"`
		Players         []playerEntry `json:"players"`
		Kills           int           `json:"kills"`
		Deaths          int           `json:"deaths"`
		Assists         int           `json:"assists"`
		KDA             float64       `json:"kda"`
		TotalGold       int           `json:"total_gold"`
		GoldDiff10      int           `json:"gold_diff_10"`
		GoldDiff15      int           `json:"gold_diff_15"`
		GoldDiff20      int           `json:"gold_diff_20"`
		GoldDiffEnd     int           `json:"gold_diff_end"`
		Towers          int           `json:"towers"`
		Inhibitors      int           `json:"inhibitors"`
		Dragons         int           `json:"dragons"`
		Barons          int           `json:"barons"`
		RiftHeraldKills int           `json:"rift_herald_kills"`
		Plates          int           `json:"plates"`
		Firsts          []string      `json:"firsts"`
	}
	type goldEntry struct {
		Time string `json:"time"`
		Diff int    `json:"diff"`
	}

	players := make(map[string][]playerEntry, len(roster))
	for _, t := range roster {
		for _, p := range t.Players {
			players[t.URN] = append(players[t.URN], playerEntry{Summoner: p.SummonerName, Champion: p.ChampionID})
		}
	}

	teams := make([]teamEntry, 0, len(results))
	for _, r := range results {
		teams = append(teams, teamEntry{
			URN:             r.TeamURN,
			Players:         players[r.TeamURN],
			Kills:           r.Kills,
			Deaths:          r.Deaths,
			Assists:         r.Assists,
			KDA:             r.KDA,
			TotalGold:       r.TotalGold,
			GoldDiff10:      r.GoldDiff10,
			GoldDiff15:      r.GoldDiff15,
			GoldDiff20:      r.GoldDiff20,
			GoldDiffEnd:     r.GoldDiffEnd,
			Towers:          r.TowerKills,
			Inhibitors:      r.InhibKills,
			Dragons:         r.DragonKills,
			Barons:          r.BaronKills,
			RiftHeraldKills: r.RiftHeraldKills,
			Plates:          r.Plates,
			Firsts:          firsts(r),
		})
	}

	gold := make([]goldEntry, 0, len(curve))
	for _, p := range curve {
		gold = append(gold, goldEntry{Time: model.FormatGameTime(p.Tick), Diff: p.Diff})
	}

	doc := map[string]interface{}{
		"subject":    "match",
		"game":       match.GameURN,
		"start_time": match.StartTime,
		"length":     match.DurationString(),
		"teams":      teams,
		"gold_curve": gold,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// firsts lists the first objectives a team took, e.g. ["blood", "dragon"].
func firsts(r model.TeamResult) []string {
	out := []string{}
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"blood", r.FirstBlood},
		{"turret", r.FirstTurret},
		{"inhibitor", r.FirstInhibitor},
		{"dragon", r.FirstDragon},
		{"rift_herald", r.FirstRiftHerald},
		{"baron", r.FirstBaron},
	} {
		if f.ok {
			out = append(out, f.name)
		}
	}
	return out
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
