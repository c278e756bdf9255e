package cmd

import (
	"encoding/json"
	"testing"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/report"
)

func TestBuildMatchContext(t *testing.T) {
	match := &model.MatchSummary{MatchHash: "abc", GameURN: "G1", StartTime: "2024-03-01T10:00:00Z", Duration: 1830}
	roster := []model.Team{
		{URN: "T1", Players: []model.Player{{URN: "P1", SummonerName: "Faker", ChampionID: 7}}},
		{URN: "T2", Players: []model.Player{{URN: "P2", SummonerName: "Chovy", ChampionID: 103}}},
	}
	results := []model.TeamResult{
		{TeamURN: "T1", Kills: 12, KDA: 4.5, GoldDiffEnd: 3200, FirstBlood: true, FirstBaron: true},
		{TeamURN: "T2", Kills: 5, GoldDiffEnd: -3200, FirstTurret: true},
	}
	curve := []report.GoldPoint{{Minute: 10, Tick: 600, Gold: [2]int{16000, 15500}, Diff: 500}}

	out, err := buildMatchContext(match, roster, results, curve)
	if err != nil {
		t.Fatalf("buildMatchContext: %v", err)
	}

	var doc struct {
		Game  string `json:"game"`
		Teams []struct {
			URN     string   `json:"urn"`
			Firsts  []string `json:"firsts"`
			Players []struct {
				Summoner string `json:"summoner"`
			} `json:"players"`
			GoldDiffEnd int `json:"gold_diff_end"`
		} `json:"teams"`
		GoldCurve []struct {
			Time string `json:"time"`
			Diff int    `json:"diff"`
		} `json:"gold_curve"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal context: %v", err)
	}

	if doc.Game != "G1" {
		t.Errorf("game: got %q, want G1", doc.Game)
	}
	if len(doc.Teams) != 2 {
		t.Fatalf("teams: got %d, want 2", len(doc.Teams))
	}
	if got := doc.Teams[0].Firsts; len(got) != 2 || got[0] != "blood" || got[1] != "baron" {
		t.Errorf("T1 firsts: got %v, want [blood baron]", got)
	}
	if got := doc.Teams[1].Players; len(got) != 1 || got[0].Summoner != "Chovy" {
		t.Errorf("T2 players: got %+v", got)
	}
	if doc.Teams[1].GoldDiffEnd != -3200 {
		t.Errorf("T2 gold_diff_end: got %d, want -3200", doc.Teams[1].GoldDiffEnd)
	}
	if len(doc.GoldCurve) != 1 || doc.GoldCurve[0].Diff != 500 {
		t.Errorf("gold curve: got %+v", doc.GoldCurve)
	}
}

func TestFirstsEmpty(t *testing.T) {
	if got := firsts(model.TeamResult{}); len(got) != 0 {
		t.Errorf("firsts: got %v, want empty", got)
	}
}
