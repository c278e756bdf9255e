package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pable/go-lol-metrics/internal/batch"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/pipeline"
)

func row(tick int, urn string, gold int) model.TeamFrameRow {
	return model.TeamFrameRow{Tick: tick, TeamFrame: model.TeamFrame{TeamURN: urn, TotalGold: gold}}
}

func TestGoldCurve_OnePointPerMinute(t *testing.T) {
	rows := []model.TeamFrameRow{
		row(5, "T1", 500), row(5, "T2", 500),
		row(30, "T1", 900), row(30, "T2", 800),
		row(61, "T1", 2000), row(61, "T2", 2400),
		row(125, "T1", 4100), row(125, "T2", 3900),
	}
	got := GoldCurve(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d: %+v", len(got), got)
	}
	if got[0].Minute != 0 || got[0].Tick != 5 || got[0].Diff != 0 {
		t.Errorf("minute 0: got %+v", got[0])
	}
	if got[1].Minute != 1 || got[1].Diff != -400 {
		t.Errorf("minute 1: got %+v", got[1])
	}
	if got[2].Minute != 2 || got[2].Gold != [2]int{4100, 3900} {
		t.Errorf("minute 2: got %+v", got[2])
	}
}

func TestGoldCurve_SkipsIncompleteTick(t *testing.T) {
	rows := []model.TeamFrameRow{
		row(10, "T1", 100),
		row(70, "T1", 700), row(70, "T2", 600),
	}
	got := GoldCurve(rows)
	if len(got) != 1 || got[0].Tick != 70 || got[0].Diff != 100 {
		t.Errorf("expected single point at tick 70, got %+v", got)
	}
}

func TestPrintGoldCurve(t *testing.T) {
	var buf bytes.Buffer
	PrintGoldCurve(&buf, []GoldPoint{
		{Minute: 1, Tick: 60, Gold: [2]int{2000, 1000}, Diff: 1000},
		{Minute: 2, Tick: 120, Gold: [2]int{2000, 2500}, Diff: -500},
	}, [2]string{"T1", "T2"})
	out := buf.String()
	if !strings.Contains(out, "+1000") {
		t.Errorf("expected signed lead in output:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("#", 20)) {
		t.Errorf("expected full-width bar for the largest lead:\n%s", out)
	}
	if !strings.Contains(out, "02:00") {
		t.Errorf("expected mm:ss tick column:\n%s", out)
	}
}

func TestPrintTeamAndObjectiveTables(t *testing.T) {
	results := []model.TeamResult{
		{TeamURN: "T1", Kills: 12, Deaths: 3, Assists: 20, KDA: 10.7, GoldDiffEnd: 4200, FirstBlood: true},
		{TeamURN: "T2", Kills: 3, Deaths: 12, Assists: 4, KDA: 0.6, GoldDiffEnd: -4200, Plates: 2},
	}
	var buf bytes.Buffer
	PrintTeamTable(&buf, results, "T2")
	PrintObjectiveTable(&buf, results)
	out := buf.String()
	for _, want := range []string{"10.7", "+4200", "-4200", ">", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintMatchSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintMatchSummary(&buf, model.MatchSummary{MatchHash: "0123456789abcdef", GameURN: "G1", Duration: 1865, FrameCount: 1800})
	out := buf.String()
	if !strings.Contains(out, "Hash: 0123456789ab") || strings.Contains(out, "0123456789abc") {
		t.Errorf("expected short hash in summary: %q", out)
	}
	if !strings.Contains(out, "31:05") {
		t.Errorf("expected mm:ss length in summary: %q", out)
	}
}

func TestPrintBatchReport(t *testing.T) {
	rep := &batch.Report{
		RunID: "run-1",
		Outcomes: []batch.Outcome{
			{Dir: "/c/a", Hash: "aaaa", Result: &pipeline.Result{Summary: model.MatchSummary{GameURN: "G1", FrameCount: 9}}},
			{Dir: "/c/b", Err: errors.New("no announce record")},
		},
		OK:     1,
		Failed: 1,
	}
	var buf bytes.Buffer
	PrintBatchReport(&buf, rep)
	out := buf.String()
	for _, want := range []string{"FAILED", "G1", "1 ok, 0 cached, 1 failed", "/c/b: no announce record"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBuildTimeline(t *testing.T) {
	match := model.MatchSummary{MatchHash: "h1", GameURN: "G1", Duration: 2}
	roster := []model.Team{
		{URN: "T1", Players: []model.Player{{URN: "P1", SummonerName: "Faker", ChampionID: 7}}},
		{URN: "T2", Players: []model.Player{{URN: "P2", SummonerName: "Chovy", ChampionID: 103}}},
	}
	playerRows := []model.PlayerFrameRow{
		{Tick: 1, PlayerFrame: model.PlayerFrame{PlayerURN: "P1", Position: &model.Position{X: 10, Y: 20}}},
		{Tick: 2, PlayerFrame: model.PlayerFrame{PlayerURN: "P1", Position: &model.Position{X: 11, Y: 21}, Merged: true, Level: 2}},
		{Tick: 2, PlayerFrame: model.PlayerFrame{PlayerURN: "P2", Merged: true}},
	}
	teamRows := []model.TeamFrameRow{
		{Tick: 2, TeamFrame: model.TeamFrame{TeamURN: "T1", TotalGold: 600}},
		{Tick: 2, TeamFrame: model.TeamFrame{TeamURN: "T2", TotalGold: 500}},
	}

	tl := BuildTimeline(match, roster, teamRows, playerRows)
	if len(tl.Teams) != 2 || tl.Teams[1].Players[0].SummonerName != "Chovy" {
		t.Errorf("roster mismatch: %+v", tl.Teams)
	}
	if len(tl.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(tl.Frames))
	}
	first := tl.Frames[0]
	if first.Tick != 1 || len(first.Players) != 1 || len(first.Teams) != 0 {
		t.Errorf("frame 1 mismatch: %+v", first)
	}
	if first.Players[0].X == nil || *first.Players[0].X != 10 {
		t.Errorf("expected x=10 at tick 1, got %+v", first.Players[0])
	}
	second := tl.Frames[1]
	if len(second.Players) != 2 || len(second.Teams) != 2 {
		t.Fatalf("frame 2 mismatch: %+v", second)
	}
	if second.Teams[0].TotalGold != 600 || !second.Players[0].Merged {
		t.Errorf("frame 2 content mismatch: %+v", second)
	}
	if second.Players[1].X != nil {
		t.Errorf("expected no position for P2, got %v", *second.Players[1].X)
	}
}

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	PrintRows(&buf, []string{"hash", "kills"}, [][]string{{"h1", "12"}, {"h2", "NULL"}})
	out := buf.String()
	for _, want := range []string{"h1", "12", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(strings.ToUpper(out), "KILLS") {
		t.Errorf("output missing header:\n%s", out)
	}

	buf.Reset()
	PrintRows(&buf, []string{"hash"}, nil)
	if got := strings.TrimSpace(buf.String()); got != "(no rows)" {
		t.Errorf("empty result: got %q", got)
	}
}
