// Package timeline rebuilds a per-second match timeline from classified
// capture records: the entity registry from ANNOUNCE, frames from
// UPDATE_POSITIONS, and team/player statistics merged from timed UPDATEs.
package timeline

import (
	"context"

	"github.com/pable/go-lol-metrics/internal/logger"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/record"
)

// Builder threads one Game through the construction stages. It is not safe
// for concurrent use; each capture gets its own Builder.
type Builder struct {
	game *model.Game

	teamIdx    map[string]int // team urn -> index in game.Teams
	playerTeam map[string]int // player urn -> index in game.Teams
	tickIdx    map[int]int    // tick -> index in game.Frames

	log logger.Logger
}

// Initialize builds the entity registry from the first ANNOUNCE record.
// Later ANNOUNCE records are ignored; what a second announce means is not
// known, so it is only logged.
func Initialize(ctx context.Context, records []record.Record) (*Builder, error) {
	log := logger.Named("timeline")

	var announce *record.Announce
	seq := -1
	for _, r := range records {
		if r.Kind != record.KindAnnounce {
			continue
		}
		if announce != nil {
			log.Warn(ctx, "ignoring repeated announce", logger.Int("seq", r.Seq), logger.Int("first_seq", seq))
			continue
		}
		announce = r.Payload.(*record.Announce)
		seq = r.Seq
	}
	if announce == nil {
		return nil, ErrMissingAnnounce
	}
	if len(announce.Teams) != 2 {
		return nil, ErrTeamCount
	}

	b := &Builder{
		game: &model.Game{
			URN:       announce.GameURN,
			StartTime: announce.StartTime,
		},
		teamIdx:    make(map[string]int),
		playerTeam: make(map[string]int),
		tickIdx:    make(map[int]int),
		log:        log,
	}
	for ti, at := range announce.Teams {
		if _, dup := b.teamIdx[at.URN]; dup {
			return nil, &DuplicateEntityError{Seq: seq, Kind: "team", URN: at.URN}
		}
		b.teamIdx[at.URN] = ti

		team := model.Team{URN: at.URN}
		for _, ap := range at.Players {
			if _, dup := b.playerTeam[ap.URN]; dup {
				return nil, &DuplicateEntityError{Seq: seq, Kind: "player", URN: ap.URN}
			}
			b.playerTeam[ap.URN] = ti
			team.Players = append(team.Players, model.Player{
				URN:          ap.URN,
				SummonerName: ap.SummonerName,
				ChampionID:   ap.ChampionID,
			})
		}
		b.game.Teams = append(b.game.Teams, team)
	}

	log.Debug(ctx, "registry initialized",
		logger.String("game", b.game.URN),
		logger.Int("players", len(b.playerTeam)))
	return b, nil
}

// Game returns the game under construction.
func (b *Builder) Game() *model.Game { return b.game }

// TeamOf returns the index in Game.Teams of the team the player belongs to.
func (b *Builder) TeamOf(playerURN string) (int, bool) {
	ti, ok := b.playerTeam[playerURN]
	return ti, ok
}

// FrameAt returns the frame with exactly the given tick.
func (b *Builder) FrameAt(tick int) (*model.Frame, bool) {
	i, ok := b.tickIdx[tick]
	if !ok {
		return nil, false
	}
	return b.game.Frames[i], true
}

// Build runs every construction stage over a classified capture.
func Build(ctx context.Context, records []record.Record) (*model.Game, error) {
	b, err := Initialize(ctx, records)
	if err != nil {
		return nil, err
	}
	if err := b.BuildPositions(ctx, records); err != nil {
		return nil, err
	}
	if _, err := b.MergeStats(ctx, records); err != nil {
		return nil, err
	}
	return b.Game(), nil
}
