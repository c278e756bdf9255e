// Package pipeline runs one capture through every stage: load, classify,
// rebuild the timeline, extract objectives and aggregate per-team results.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/logger"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/objective"
	"github.com/pable/go-lol-metrics/internal/parser"
	"github.com/pable/go-lol-metrics/internal/record"
	"github.com/pable/go-lol-metrics/internal/timeline"
)

// Result is everything a processed capture yields.
type Result struct {
	Summary model.MatchSummary
	Game    *model.Game
	Teams   map[string]model.TeamResult
	Facts   objective.Facts
	Merge   timeline.MergeReport
	Kinds   map[record.Kind]int
}

// Run loads the capture directory and processes it.
func Run(ctx context.Context, dir string) (*Result, error) {
	raw, err := parser.ParseDir(dir)
	if err != nil {
		return nil, err
	}
	return Process(ctx, raw)
}

// Process turns a loaded capture into a timeline and per-team results. Any
// data-integrity failure aborts the whole capture; nothing partial is returned.
func Process(ctx context.Context, raw *model.RawMatch) (*Result, error) {
	log := logger.Named("pipeline").With(logger.String("dir", raw.SourceDir))
	start := time.Now()

	records, err := record.ClassifyAll(raw.Records)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", raw.SourceDir, err)
	}
	kinds := record.CountKinds(records)
	log.Debug(ctx, "records classified",
		logger.Int("records", len(raw.Records)),
		logger.Int("kept", len(records)),
		logger.Int("positions", kinds[record.KindPositionUpdate]),
		logger.Int("stats", kinds[record.KindStatUpdate]))

	b, err := timeline.Initialize(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("initialize %s: %w", raw.SourceDir, err)
	}
	if err := b.BuildPositions(ctx, records); err != nil {
		return nil, fmt.Errorf("build positions %s: %w", raw.SourceDir, err)
	}
	rep, err := b.MergeStats(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("merge stats %s: %w", raw.SourceDir, err)
	}
	game := b.Game()

	facts := objective.Extract(records)
	teams, err := aggregator.Aggregate(game, facts)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", raw.SourceDir, err)
	}
	for urn, tr := range teams {
		tr.MatchHash = raw.MatchHash
		teams[urn] = tr
	}

	res := &Result{
		Summary: model.MatchSummary{
			MatchHash:  raw.MatchHash,
			GameURN:    game.URN,
			StartTime:  game.StartTime,
			SourceDir:  raw.SourceDir,
			FrameCount: len(game.Frames),
			Duration:   lastMergedTick(game),
			ParsedAt:   time.Now().UTC(),
		},
		Game:  game,
		Teams: teams,
		Facts: facts,
		Merge: rep,
		Kinds: kinds,
	}
	log.Info(ctx, "capture processed",
		logger.String("game", game.URN),
		logger.Int("frames", len(game.Frames)),
		logger.Int("merged", rep.Merged),
		logger.Int("drifted", rep.Drifted),
		logger.Duration("took", time.Since(start)))
	return res, nil
}

// OrderedTeams returns the team results in Game.Teams order.
func (r *Result) OrderedTeams() []model.TeamResult {
	out := make([]model.TeamResult, 0, len(r.Game.Teams))
	for _, t := range r.Game.Teams {
		out = append(out, r.Teams[t.URN])
	}
	return out
}

func lastMergedTick(g *model.Game) int {
	for i := len(g.Frames) - 1; i >= 0; i-- {
		if g.Frames[i].IsMerged() {
			return g.Frames[i].GameTime
		}
	}
	return 0
}
