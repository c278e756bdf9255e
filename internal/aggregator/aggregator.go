package aggregator

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/objective"
)

// Gold differential checkpoints, in elapsed seconds.
const (
	Checkpoint10 = 600
	Checkpoint15 = 900
	Checkpoint20 = 1200
)

var (
	// ErrNoMergedFrames is returned when no frame ever received a stat-update.
	ErrNoMergedFrames = errors.New("no merged frames")
	// ErrTeamCount is returned when the game does not have exactly two teams.
	ErrTeamCount = errors.New("aggregation needs exactly two teams")
)

// Aggregate computes one TeamResult per team from a completed timeline and
// the objective facts of the same capture. The result is keyed by team urn.
func Aggregate(game *model.Game, facts objective.Facts) (map[string]model.TeamResult, error) {
	if game == nil {
		return nil, fmt.Errorf("nil Game")
	}
	if len(game.Teams) != 2 {
		return nil, fmt.Errorf("aggregate %s: %w (got %d)", game.URN, ErrTeamCount, len(game.Teams))
	}

	// ---- Pass 1: keep only frames that carry team snapshots. ----

	var merged []*model.Frame
	for _, f := range game.Frames {
		if f.IsMerged() {
			merged = append(merged, f)
		}
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("aggregate %s: %w", game.URN, ErrNoMergedFrames)
	}
	final := merged[len(merged)-1]

	// ---- Pass 2: gold differential per checkpoint, falling back to the end. ----

	endDiff := goldDiffs(final)
	at := func(checkpoint int) [2]int {
		// Linear scan: frames are time ordered, so the first hit is the earliest.
		for _, f := range merged {
			if f.GameTime >= checkpoint {
				return goldDiffs(f)
			}
		}
		return endDiff
	}
	diff10, diff15, diff20 := at(Checkpoint10), at(Checkpoint15), at(Checkpoint20)

	// ---- Pass 3: per-team rows from the final snapshot and objective facts. ----

	results := make(map[string]model.TeamResult, len(game.Teams))
	for i, team := range game.Teams {
		tf := final.Teams[i]
		urn := team.URN
		results[urn] = model.TeamResult{
			TeamURN:   urn,
			Kills:     tf.Kills,
			Deaths:    tf.Deaths,
			Assists:   tf.Assists,
			TotalGold: tf.TotalGold,
			KDA:       kda(tf.Kills, tf.Deaths, tf.Assists),

			GoldDiff10:  diff10[i],
			GoldDiff15:  diff15[i],
			GoldDiff20:  diff20[i],
			GoldDiffEnd: endDiff[i],

			TowerKills:      tf.TowerKills,
			InhibKills:      tf.InhibKills,
			DragonKills:     tf.DragonKills,
			BaronKills:      tf.BaronKills,
			RiftHeraldKills: facts.RiftHeraldKills[urn],
			Plates:          facts.Plates[urn],

			FirstBlood:      facts.FirstBlood == urn,
			FirstTurret:     facts.FirstTurret == urn,
			FirstInhibitor:  facts.FirstInhibitor == urn,
			FirstDragon:     facts.FirstDragon == urn,
			FirstBaron:      facts.FirstBaron == urn,
			FirstRiftHerald: facts.FirstRiftHerald == urn,
		}
	}
	return results, nil
}

// goldDiffs returns each team's gold lead over its opponent, in Game.Teams order.
func goldDiffs(f *model.Frame) [2]int {
	var out [2]int
	for i := range out {
		out[i] = f.Teams[i].TotalGold - f.Teams[model.Opponent(i)].TotalGold
	}
	return out
}

// kda is (kills+assists)/max(1,deaths) rounded to one decimal. Rounding is
// done on the exact value of the float, ties to even, so 25/4 gives 6.2.
func kda(kills, deaths, assists int) float64 {
	d := deaths
	if d < 1 {
		d = 1
	}
	return round1(float64(kills+assists) / float64(d))
}

// round1 rounds x to one decimal place. Scaling by 10 first would turn
// 0.1499... into 1.5 and round it up, so the decimal conversion does it.
func round1(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return v
}
