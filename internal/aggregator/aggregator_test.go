package aggregator

import (
	"errors"
	"testing"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/objective"
)

// makeGame builds a two-team game, T1 vs T2, with one player each.
func makeGame(frames ...*model.Frame) *model.Game {
	return &model.Game{
		URN: "G1",
		Teams: []model.Team{
			{URN: "T1", Players: []model.Player{{URN: "P1"}}},
			{URN: "T2", Players: []model.Player{{URN: "P2"}}},
		},
		Frames: frames,
	}
}

// goldFrame is a merged frame with the given team gold totals.
func goldFrame(tick, goldOne, goldTwo int) *model.Frame {
	return &model.Frame{
		GameTime: tick,
		Teams: []model.TeamFrame{
			{TeamURN: "T1", TotalGold: goldOne},
			{TeamURN: "T2", TotalGold: goldTwo},
		},
	}
}

// positionFrame is a frame that never received a stat-update.
func positionFrame(tick int) *model.Frame {
	return &model.Frame{
		GameTime: tick,
		Players:  []model.PlayerFrame{{PlayerURN: "P1", Position: &model.Position{X: 1, Y: 1}}},
	}
}

func TestAggregate_SingleFrame(t *testing.T) {
	game := makeGame(goldFrame(1, 500, 300))

	results, err := Aggregate(game, objective.Facts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	t1 := results["T1"]
	if t1.GoldDiffEnd != 200 {
		t.Errorf("T1 GoldDiffEnd: want 200, got %d", t1.GoldDiffEnd)
	}
	if t1.KDA != 0.0 {
		t.Errorf("T1 KDA: want 0.0, got %v", t1.KDA)
	}
	if t1.FirstBlood || t1.FirstTurret || t1.FirstInhibitor || t1.FirstDragon || t1.FirstBaron || t1.FirstRiftHerald {
		t.Errorf("T1 expected all first flags false, got %+v", t1)
	}
	if got := results["T2"].GoldDiffEnd; got != -200 {
		t.Errorf("T2 GoldDiffEnd: want -200, got %d", got)
	}
}

// TestAggregate_CheckpointFallback: no frame reaches 900s, so the 15 and 20
// minute diffs fall back to the final frame.
func TestAggregate_CheckpointFallback(t *testing.T) {
	game := makeGame(
		goldFrame(300, 1000, 1000),
		goldFrame(600, 5000, 4000),
		goldFrame(840, 7000, 7500),
	)
	results, err := Aggregate(game, objective.Facts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for urn, r := range results {
		if r.GoldDiff15 != r.GoldDiffEnd {
			t.Errorf("%s GoldDiff15: want final %d, got %d", urn, r.GoldDiffEnd, r.GoldDiff15)
		}
		if r.GoldDiff20 != r.GoldDiffEnd {
			t.Errorf("%s GoldDiff20: want final %d, got %d", urn, r.GoldDiffEnd, r.GoldDiff20)
		}
	}
	if got := results["T1"].GoldDiff10; got != 1000 {
		t.Errorf("T1 GoldDiff10: want 1000, got %d", got)
	}
	if got := results["T1"].GoldDiffEnd; got != -500 {
		t.Errorf("T1 GoldDiffEnd: want -500, got %d", got)
	}
}

// TestAggregate_CheckpointFirstAtOrAfter: the checkpoint takes the first merged
// frame at or past the mark, skipping position-only frames.
func TestAggregate_CheckpointFirstAtOrAfter(t *testing.T) {
	game := makeGame(
		goldFrame(599, 100, 0),
		positionFrame(600),
		goldFrame(603, 300, 0),
		goldFrame(610, 900, 0),
		goldFrame(1250, 2000, 0),
	)
	results, err := Aggregate(game, objective.Facts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := results["T1"]
	if r.GoldDiff10 != 300 {
		t.Errorf("GoldDiff10: want 300, got %d", r.GoldDiff10)
	}
	if r.GoldDiff15 != 2000 || r.GoldDiff20 != 2000 {
		t.Errorf("GoldDiff15/20: want 2000/2000, got %d/%d", r.GoldDiff15, r.GoldDiff20)
	}
}

// TestAggregate_FinalIsLastMergedFrame: trailing position-only frames do not
// count as the end of the game.
func TestAggregate_FinalIsLastMergedFrame(t *testing.T) {
	last := goldFrame(1800, 60000, 55000)
	last.Teams[0].TowerKills = 9
	last.Teams[0].InhibKills = 2
	last.Teams[1].DragonKills = 3
	last.Teams[0].BaronKills = 1
	game := makeGame(goldFrame(60, 2500, 2500), last, positionFrame(1801))

	results, err := Aggregate(game, objective.Facts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t1, t2 := results["T1"], results["T2"]
	if t1.GoldDiffEnd != 5000 || t1.TotalGold != 60000 {
		t.Errorf("T1 end: want diff 5000 gold 60000, got %d %d", t1.GoldDiffEnd, t1.TotalGold)
	}
	if t1.TowerKills != 9 || t1.InhibKills != 2 || t1.BaronKills != 1 {
		t.Errorf("T1 pass-through counts wrong: %+v", t1)
	}
	if t2.DragonKills != 3 {
		t.Errorf("T2 DragonKills: want 3, got %d", t2.DragonKills)
	}
}

func TestKDA(t *testing.T) {
	tests := []struct {
		k, d, a int
		want    float64
	}{
		{0, 0, 0, 0.0},
		{3, 0, 4, 7.0},
		{5, 3, 2, 2.3},
		{10, 4, 15, 6.2}, // 6.25, tie to even
		{1, 3, 0, 0.3},
		{5, 4, 0, 1.2},
		{1, 4, 0, 0.2},
		{3, 4, 0, 0.8},
		{9, 4, 0, 2.2},
		{7, 4, 0, 1.8},
		{3, 20, 0, 0.1}, // 0.15 is stored just below the tie
	}
	for _, tt := range tests {
		if got := kda(tt.k, tt.d, tt.a); got != tt.want {
			t.Errorf("kda(%d,%d,%d): want %v, got %v", tt.k, tt.d, tt.a, tt.want, got)
		}
	}
}

func TestAggregate_ObjectiveFacts(t *testing.T) {
	facts := objective.Facts{
		FirstBlood:      "T1",
		FirstTurret:     "T2",
		FirstInhibitor:  "T2",
		FirstDragon:     "T1",
		FirstBaron:      "T2",
		RiftHeraldKills: map[string]int{"T1": 2},
		Plates:          map[string]int{"T1": 3, "T2": 5},
	}
	results, err := Aggregate(makeGame(goldFrame(1, 0, 0)), facts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t1, t2 := results["T1"], results["T2"]
	if !t1.FirstBlood || t2.FirstBlood {
		t.Error("expected FirstBlood for T1 only")
	}
	if t1.FirstBaron || !t2.FirstBaron {
		t.Error("expected FirstBaron for T2 only")
	}
	if t1.FirstRiftHerald || t2.FirstRiftHerald {
		t.Error("expected no FirstRiftHerald")
	}
	if t1.RiftHeraldKills != 2 || t2.RiftHeraldKills != 0 {
		t.Errorf("RiftHeraldKills: want 2/0, got %d/%d", t1.RiftHeraldKills, t2.RiftHeraldKills)
	}
	if t1.Plates != 3 || t2.Plates != 5 {
		t.Errorf("Plates: want 3/5, got %d/%d", t1.Plates, t2.Plates)
	}
}

func TestAggregate_Errors(t *testing.T) {
	if _, err := Aggregate(nil, objective.Facts{}); err == nil {
		t.Error("expected error for nil game")
	}

	_, err := Aggregate(makeGame(positionFrame(1), positionFrame(2)), objective.Facts{})
	if !errors.Is(err, ErrNoMergedFrames) {
		t.Errorf("expected ErrNoMergedFrames, got %v", err)
	}

	solo := makeGame(goldFrame(1, 0, 0))
	solo.Teams = solo.Teams[:1]
	_, err = Aggregate(solo, objective.Facts{})
	if !errors.Is(err, ErrTeamCount) {
		t.Errorf("expected ErrTeamCount, got %v", err)
	}
}
