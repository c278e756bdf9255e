package record

import "github.com/pable/go-lol-metrics/internal/model"

// Payload is the typed body of a classified record. The concrete type is
// determined by Record.Kind:
//
//	KindAnnounce        *Announce
//	KindPositionUpdate  *PositionUpdate
//	KindStatUpdate      *StatUpdate
//	KindObjectiveKill, KindEpicMonsterKill, KindSpecialKill  *Objective
//	KindPassive, KindIgnored  nil
type Payload interface {
	isPayload()
}

// Record is one classified capture record.
type Record struct {
	Seq     int // position in the capture, 0-based
	Action  Action
	Kind    Kind
	Payload Payload
}

// Announce carries the match identity and the roster.
type Announce struct {
	GameURN   string
	StartTime string
	Teams     []AnnouncedTeam
}

type AnnouncedTeam struct {
	URN     string
	Players []AnnouncedPlayer
}

type AnnouncedPlayer struct {
	URN          string `json:"urn"`
	SummonerName string `json:"summonerName"`
	ChampionID   int    `json:"championId"`
}

// PositionUpdate is one periodic sample of every player's map position.
type PositionUpdate struct {
	GameTimeMs int64
	Positions  []PlayerPosition
}

type PlayerPosition struct {
	PlayerURN string
	Position  model.Position
}

// StatUpdate is a periodic team/player statistics snapshot. Teams holds the
// teamOne and teamTwo blocks in feed order.
type StatUpdate struct {
	GameTimeMs int64
	Teams      [2]TeamStats
}

// TeamStats decodes a teamOne/teamTwo block.
type TeamStats struct {
	URN            string        `json:"urn"`
	TotalGold      int           `json:"totalGold"`
	ChampionsKills int           `json:"championsKills"`
	Deaths         int           `json:"deaths"`
	Assists        int           `json:"assists"`
	TowerKills     int           `json:"towerKills"`
	InhibKills     int           `json:"inhibKills"`
	DragonKills    int           `json:"dragonKills"`
	BaronKills     int           `json:"baronKills"`
	Players        []PlayerStats `json:"players"`
}

// PlayerStats decodes one entry of a team block's players list. The feed's
// position sub-field is deliberately not mapped: positions come from
// UPDATE_POSITIONS only.
type PlayerStats struct {
	PlayerURN      string `json:"liveDataPlayerUrn"`
	Level          int    `json:"level"`
	Experience     int    `json:"experience"`
	Alive          bool   `json:"alive"`
	Health         int    `json:"health"`
	HealthMax      int    `json:"healthMax"`
	CurrentGold    int    `json:"currentGold"`
	TotalGold      int    `json:"totalGold"`
	ChampionsKills int    `json:"championsKilled"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	CreepScore     int    `json:"minionsKilled"`
	WardsPlaced    int    `json:"wardsPlaced"`
	WardsKilled    int    `json:"wardsKilled"`
}

// Objective wraps an objective fact taken from TOOK_OBJECTIVE,
// KILLED_ANCIENT or SPECIAL_KILL.
type Objective struct {
	model.ObjectiveEvent
}

func (*Announce) isPayload()       {}
func (*PositionUpdate) isPayload() {}
func (*StatUpdate) isPayload()     {}
func (*Objective) isPayload()      {}
