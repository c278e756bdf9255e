package timeline

import (
	"context"

	"github.com/pable/go-lol-metrics/internal/logger"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/record"
)

// Tick buckets a millisecond game time into whole seconds, rounding down.
func Tick(gameTimeMs int64) int {
	t := gameTimeMs / 1000
	if gameTimeMs < 0 && gameTimeMs%1000 != 0 {
		t--
	}
	return int(t)
}

// BuildPositions creates one frame per distinct position tick and attaches
// each sampled player position to it. Records must be chronological; a tick
// older than the newest frame is refused with *TickOrderError.
func (b *Builder) BuildPositions(ctx context.Context, records []record.Record) error {
	samples := 0
	for _, r := range records {
		if r.Kind != record.KindPositionUpdate {
			continue
		}
		pu := r.Payload.(*record.PositionUpdate)
		frame, err := b.frameForTick(Tick(pu.GameTimeMs), r.Seq)
		if err != nil {
			return err
		}
		for _, p := range pu.Positions {
			if _, ok := b.playerTeam[p.PlayerURN]; !ok {
				return &UnknownEntityError{Seq: r.Seq, Kind: "player", URN: p.PlayerURN}
			}
			setPosition(frame, p.PlayerURN, p.Position)
		}
		samples++
	}
	b.log.Debug(ctx, "positions built",
		logger.Int("samples", samples),
		logger.Int("frames", len(b.game.Frames)))
	return nil
}

func (b *Builder) frameForTick(tick, seq int) (*model.Frame, error) {
	if f, ok := b.FrameAt(tick); ok {
		return f, nil
	}
	if n := len(b.game.Frames); n > 0 {
		if last := b.game.Frames[n-1].GameTime; tick < last {
			return nil, &TickOrderError{Seq: seq, Tick: tick, LastTick: last}
		}
	}
	f := &model.Frame{GameTime: tick}
	b.tickIdx[tick] = len(b.game.Frames)
	b.game.Frames = append(b.game.Frames, f)
	return f, nil
}

// setPosition replaces the player's position in the frame, adding a
// position-only entry if the player has none yet. Merged stats are kept.
func setPosition(f *model.Frame, playerURN string, pos model.Position) {
	for i := range f.Players {
		if f.Players[i].PlayerURN == playerURN {
			f.Players[i].Position = &pos
			return
		}
	}
	f.Players = append(f.Players, model.PlayerFrame{PlayerURN: playerURN, Position: &pos})
}
