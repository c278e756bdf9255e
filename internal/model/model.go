package model

import (
	"fmt"
	"time"
)

// ---- Entities established once from the announce record ----

// Player is a roster entry. Immutable after the registry is built.
type Player struct {
	URN          string
	SummonerName string
	ChampionID   int
}

// Team owns its roster; the roster does not change after game start.
type Team struct {
	URN     string
	Players []Player
}

// Position is a map coordinate in game units.
type Position struct{ X, Y int }

// ---- Per-tick snapshots ----

// PlayerFrame is one player's state at a tick. It holds only a position until
// a stat-update is merged onto its frame; Merged reports which.
type PlayerFrame struct {
	PlayerURN string
	Position  *Position
	Merged    bool

	Level       int
	Experience  int
	Alive       bool
	Health      int
	HealthMax   int
	CurrentGold int
	TotalGold   int
	Kills       int
	Deaths      int
	Assists     int
	CreepScore  int
	WardsPlaced int
	WardsKilled int
}

// TeamFrame is a team's aggregate counters at a tick.
type TeamFrame struct {
	TeamURN     string
	TotalGold   int
	Kills       int
	Deaths      int
	Assists     int
	TowerKills  int
	InhibKills  int
	DragonKills int
	BaronKills  int
}

// Frame is the state of the match at one whole-second tick.
type Frame struct {
	GameTime int // elapsed seconds
	Players  []PlayerFrame
	Teams    []TeamFrame // empty until merged, then exactly one per team in Game.Teams order
}

// IsMerged reports whether a stat-update has been attached to the frame.
func (f *Frame) IsMerged() bool { return len(f.Teams) > 0 }

// Game is the reconstructed match timeline.
type Game struct {
	URN       string
	StartTime string
	Teams     []Team
	Frames    []*Frame
}

// Opponent returns the index of the other team in a two-team game.
func Opponent(i int) int {
	if i == 0 {
		return 1
	}
	return 0
}

// ---- Objective facts ----

// ObjectiveEvent is a team objective taken somewhere in the record stream.
// Attributes holds every string-valued field of the payload (monsterType,
// buildingType, killType, ...), which is what objective queries filter on.
type ObjectiveEvent struct {
	Seq           int
	Action        string
	KillerTeamURN string
	GameTimeMs    int64
	Attributes    map[string]string
}

// ---- Raw capture handed to the core ----

// RawMatch is a loaded capture directory: every numbered record in order.
type RawMatch struct {
	MatchHash string
	SourceDir string
	Records   [][]byte
}

// ---- Aggregated results ----

// TeamResult is the per-team summary of a finished match. Win/loss is not
// derivable from the feed and is not reported.
type TeamResult struct {
	MatchHash string
	TeamURN   string

	Kills     int
	Deaths    int
	Assists   int
	TotalGold int
	KDA       float64

	GoldDiff10  int
	GoldDiff15  int
	GoldDiff20  int
	GoldDiffEnd int

	TowerKills      int
	InhibKills      int
	DragonKills     int
	BaronKills      int
	RiftHeraldKills int
	Plates          int

	FirstBlood      bool
	FirstTurret     bool
	FirstInhibitor  bool
	FirstDragon     bool
	FirstBaron      bool
	FirstRiftHerald bool
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchHash  string
	GameURN    string
	StartTime  string
	SourceDir  string
	FrameCount int
	Duration   int // seconds, last merged frame
	RunID      string
	ParsedAt   time.Time
}

// DurationString formats Duration as mm:ss.
func (s MatchSummary) DurationString() string {
	return FormatGameTime(s.Duration)
}

// FormatGameTime renders elapsed seconds as mm:ss.
func FormatGameTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// TeamFrameRow is a stored team snapshot, used for gold curves.
type TeamFrameRow struct {
	Tick int
	TeamFrame
}

// PlayerFrameRow is a stored player snapshot, used by timeline export.
type PlayerFrameRow struct {
	Tick int
	PlayerFrame
}
