package timeline

import (
	"context"
	"sort"

	"github.com/pable/go-lol-metrics/internal/logger"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/record"
)

// MergeReport counts what MergeStats did with each timed UPDATE.
type MergeReport struct {
	Merged  int // snapshots attached to a frame
	Drifted int // of those, attached to a later tick than their own
	Skipped int // target frame was already merged
}

// MergeStats attaches every timed stat-update to the frame at its tick, or,
// when positions skipped that second, to the first frame after it. A frame is
// merged at most once: later snapshots resolving to a merged frame are
// skipped, which also makes a second MergeStats call a no-op.
func (b *Builder) MergeStats(ctx context.Context, records []record.Record) (MergeReport, error) {
	var rep MergeReport
	for _, r := range records {
		if r.Kind != record.KindStatUpdate {
			continue
		}
		su := r.Payload.(*record.StatUpdate)
		tick := Tick(su.GameTimeMs)

		fi, err := b.alignFrame(tick, su.GameTimeMs, r.Seq)
		if err != nil {
			return rep, err
		}
		frame := b.game.Frames[fi]
		if frame.IsMerged() {
			rep.Skipped++
			b.log.Debug(ctx, "stat update resolves to merged frame",
				logger.Int("seq", r.Seq), logger.Int("tick", tick), logger.Int("frame_tick", frame.GameTime))
			continue
		}
		if frame.GameTime != tick {
			rep.Drifted++
			b.log.Debug(ctx, "stat update drifted",
				logger.Int("seq", r.Seq), logger.Int("tick", tick), logger.Int("frame_tick", frame.GameTime))
		}
		if err := b.mergeInto(frame, su, r.Seq); err != nil {
			return rep, err
		}
		rep.Merged++
	}
	b.log.Debug(ctx, "stats merged",
		logger.Int("merged", rep.Merged),
		logger.Int("drifted", rep.Drifted),
		logger.Int("skipped", rep.Skipped))
	return rep, nil
}

// alignFrame returns the index of the first frame whose tick is >= tick.
// Frame ticks are strictly increasing, so that is the exact tick when present.
// The search is not bounded by the number of frames: ticks are sparse when
// positions skip seconds, so a snapshot at tick 2 must still reach a lone
// frame at tick 3. Only a tick past the last frame fails.
func (b *Builder) alignFrame(tick int, gameTimeMs int64, seq int) (int, error) {
	frames := b.game.Frames
	i := sort.Search(len(frames), func(i int) bool { return frames[i].GameTime >= tick })
	if i == len(frames) {
		last := -1
		if len(frames) > 0 {
			last = frames[len(frames)-1].GameTime
		}
		return 0, &FrameAlignmentError{Seq: seq, GameTimeMs: gameTimeMs, Tick: tick, LastTick: last}
	}
	return i, nil
}

// mergeInto replaces the frame's position-only player entries with full
// snapshots and sets its team snapshots in Game.Teams order. Each player must
// be listed under the team the announce gave it. The frame is only modified
// once every player has resolved.
func (b *Builder) mergeInto(frame *model.Frame, su *record.StatUpdate, seq int) error {
	teams := make([]model.TeamFrame, len(b.game.Teams))
	seen := make(map[string]bool, len(su.Teams))
	for _, ts := range su.Teams {
		ti, ok := b.teamIdx[ts.URN]
		if !ok {
			return &UnknownEntityError{Seq: seq, Kind: "team", URN: ts.URN}
		}
		if seen[ts.URN] {
			return &DuplicateEntityError{Seq: seq, Kind: "team", URN: ts.URN}
		}
		seen[ts.URN] = true
		teams[ti] = model.TeamFrame{
			TeamURN:     ts.URN,
			TotalGold:   ts.TotalGold,
			Kills:       ts.ChampionsKills,
			Deaths:      ts.Deaths,
			Assists:     ts.Assists,
			TowerKills:  ts.TowerKills,
			InhibKills:  ts.InhibKills,
			DragonKills: ts.DragonKills,
			BaronKills:  ts.BaronKills,
		}
	}

	players := make([]model.PlayerFrame, len(frame.Players))
	copy(players, frame.Players)
	for _, ts := range su.Teams {
		ti := b.teamIdx[ts.URN]
		for _, ps := range ts.Players {
			reg, ok := b.playerTeam[ps.PlayerURN]
			if !ok {
				return &UnknownEntityError{Seq: seq, Kind: "player", URN: ps.PlayerURN}
			}
			if reg != ti {
				return &TeamMismatchError{Seq: seq, PlayerURN: ps.PlayerURN, TeamURN: ts.URN, RegisteredURN: b.game.Teams[reg].URN}
			}
			pi, err := findPlayer(players, ps.PlayerURN, frame.GameTime, seq)
			if err != nil {
				return err
			}
			players[pi] = playerFrame(ps, players[pi].Position)
		}
	}

	frame.Players = players
	frame.Teams = teams
	return nil
}

func findPlayer(players []model.PlayerFrame, urn string, tick, seq int) (int, error) {
	idx, matches := -1, 0
	for i := range players {
		if players[i].PlayerURN == urn {
			if idx < 0 {
				idx = i
			}
			matches++
		}
	}
	switch {
	case matches == 0:
		return 0, &PlayerNotFoundError{Seq: seq, Tick: tick, PlayerURN: urn}
	case matches > 1:
		return 0, &AmbiguousPlayerError{Seq: seq, Tick: tick, PlayerURN: urn, Matches: matches}
	}
	return idx, nil
}

func playerFrame(ps record.PlayerStats, pos *model.Position) model.PlayerFrame {
	return model.PlayerFrame{
		PlayerURN:   ps.PlayerURN,
		Position:    pos,
		Merged:      true,
		Level:       ps.Level,
		Experience:  ps.Experience,
		Alive:       ps.Alive,
		Health:      ps.Health,
		HealthMax:   ps.HealthMax,
		CurrentGold: ps.CurrentGold,
		TotalGold:   ps.TotalGold,
		Kills:       ps.ChampionsKills,
		Deaths:      ps.Deaths,
		Assists:     ps.Assists,
		CreepScore:  ps.CreepScore,
		WardsPlaced: ps.WardsPlaced,
		WardsKilled: ps.WardsKilled,
	}
}
