package report

import (
	"github.com/pable/go-lol-metrics/internal/model"
)

// Timeline is the read-only per-tick view of a stored match handed to
// external renderers. Field names are the JSON contract.
type Timeline struct {
	MatchHash string          `json:"match_hash"`
	GameURN   string          `json:"game_urn"`
	StartTime string          `json:"start_time,omitempty"`
	Duration  int             `json:"duration"`
	Teams     []TimelineTeam  `json:"teams"`
	Frames    []TimelineFrame `json:"frames"`
}

type TimelineTeam struct {
	URN     string           `json:"urn"`
	Players []TimelinePlayer `json:"players"`
}

type TimelinePlayer struct {
	URN          string `json:"urn"`
	SummonerName string `json:"summoner_name"`
	ChampionID   int    `json:"champion_id"`
}

type TimelineFrame struct {
	Tick    int                   `json:"tick"`
	Players []TimelinePlayerFrame `json:"players"`
	Teams   []TimelineTeamFrame   `json:"teams,omitempty"`
}

type TimelinePlayerFrame struct {
	URN         string `json:"urn"`
	X           *int   `json:"x,omitempty"`
	Y           *int   `json:"y,omitempty"`
	Merged      bool   `json:"merged"`
	Level       int    `json:"level,omitempty"`
	Alive       bool   `json:"alive,omitempty"`
	Health      int    `json:"health,omitempty"`
	HealthMax   int    `json:"health_max,omitempty"`
	TotalGold   int    `json:"total_gold,omitempty"`
	Kills       int    `json:"kills,omitempty"`
	Deaths      int    `json:"deaths,omitempty"`
	Assists     int    `json:"assists,omitempty"`
	CreepScore  int    `json:"creep_score,omitempty"`
	WardsPlaced int    `json:"wards_placed,omitempty"`
}

type TimelineTeamFrame struct {
	URN         string `json:"urn"`
	TotalGold   int    `json:"total_gold"`
	Kills       int    `json:"kills"`
	Deaths      int    `json:"deaths"`
	Assists     int    `json:"assists"`
	TowerKills  int    `json:"tower_kills"`
	InhibKills  int    `json:"inhib_kills"`
	DragonKills int    `json:"dragon_kills"`
	BaronKills  int    `json:"baron_kills"`
}

// BuildTimeline joins stored rows back into frames. Both row slices must be
// ordered by tick, as storage returns them.
func BuildTimeline(match model.MatchSummary, roster []model.Team, teamRows []model.TeamFrameRow, playerRows []model.PlayerFrameRow) Timeline {
	tl := Timeline{
		MatchHash: match.MatchHash,
		GameURN:   match.GameURN,
		StartTime: match.StartTime,
		Duration:  match.Duration,
	}
	for _, t := range roster {
		tt := TimelineTeam{URN: t.URN}
		for _, p := range t.Players {
			tt.Players = append(tt.Players, TimelinePlayer{URN: p.URN, SummonerName: p.SummonerName, ChampionID: p.ChampionID})
		}
		tl.Teams = append(tl.Teams, tt)
	}

	frame := func(tick int) *TimelineFrame {
		if n := len(tl.Frames); n > 0 && tl.Frames[n-1].Tick == tick {
			return &tl.Frames[n-1]
		}
		tl.Frames = append(tl.Frames, TimelineFrame{Tick: tick})
		return &tl.Frames[len(tl.Frames)-1]
	}

	// Team rows only exist for merged ticks, which always have player rows,
	// so walking the player rows creates every frame in order.
	ti := 0
	for _, pr := range playerRows {
		f := frame(pr.Tick)
		pf := TimelinePlayerFrame{
			URN:         pr.PlayerURN,
			Merged:      pr.Merged,
			Level:       pr.Level,
			Alive:       pr.Alive,
			Health:      pr.Health,
			HealthMax:   pr.HealthMax,
			TotalGold:   pr.TotalGold,
			Kills:       pr.Kills,
			Deaths:      pr.Deaths,
			Assists:     pr.Assists,
			CreepScore:  pr.CreepScore,
			WardsPlaced: pr.WardsPlaced,
		}
		if pr.Position != nil {
			x, y := pr.Position.X, pr.Position.Y
			pf.X, pf.Y = &x, &y
		}
		f.Players = append(f.Players, pf)

		for ti < len(teamRows) && teamRows[ti].Tick <= pr.Tick {
			tr := teamRows[ti]
			if tr.Tick == pr.Tick {
				f.Teams = append(f.Teams, TimelineTeamFrame{
					URN:         tr.TeamURN,
					TotalGold:   tr.TotalGold,
					Kills:       tr.Kills,
					Deaths:      tr.Deaths,
					Assists:     tr.Assists,
					TowerKills:  tr.TowerKills,
					InhibKills:  tr.InhibKills,
					DragonKills: tr.DragonKills,
					BaronKills:  tr.BaronKills,
				})
			}
			ti++
		}
	}
	return tl
}
