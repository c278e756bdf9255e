// Package capturetest builds synthetic live-data capture records for tests.
package capturetest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Player is a roster entry for Announce.
type Player struct {
	URN      string
	Name     string
	Champion int
}

// Team is a roster team for Announce.
type Team struct {
	URN     string
	Players []Player
}

// Pos places one player for Positions.
type Pos struct {
	PlayerURN string
	X, Y      int
}

// TeamStats is a teamOne/teamTwo block for Stats. Players lists the player
// urns to include; each gets zeroed counters and a throwaway position.
type TeamStats struct {
	URN                     string
	TotalGold               int
	Kills, Deaths, Assists  int
	TowerKills, InhibKills  int
	DragonKills, BaronKills int
	Players                 []string
}

func envelope(action string, urn string, body any) []byte {
	inner := map[string]any{"action": action, "payload": body}
	if urn != "" {
		inner["urn"] = urn
	}
	b, err := json.Marshal(map[string]any{"payload": map[string]any{"payload": inner}})
	if err != nil {
		panic(err)
	}
	return b
}

// Announce builds an ANNOUNCE record.
func Announce(gameURN, startTime string, teams ...Team) []byte {
	var ts []map[string]any
	for _, t := range teams {
		var ps []map[string]any
		for _, p := range t.Players {
			ps = append(ps, map[string]any{"urn": p.URN, "summonerName": p.Name, "championId": p.Champion})
		}
		ts = append(ts, map[string]any{"urn": t.URN, "participants": ps})
	}
	return envelope("ANNOUNCE", gameURN, map[string]any{
		"fixture": map[string]any{"startTime": startTime},
		"teams":   ts,
	})
}

// Positions builds an UPDATE_POSITIONS record.
func Positions(gameTimeMs int64, pos ...Pos) []byte {
	var ps []map[string]any
	for _, p := range pos {
		ps = append(ps, map[string]any{"playerUrn": p.PlayerURN, "position": []int{p.X, p.Y}})
	}
	return envelope("UPDATE_POSITIONS", "", map[string]any{"gameTime": gameTimeMs, "positions": ps})
}

// Stats builds a timed UPDATE record.
func Stats(gameTimeMs int64, one, two TeamStats) []byte {
	return envelope("UPDATE", "", map[string]any{
		"gameTime": gameTimeMs,
		"teamOne":  teamBlock(one),
		"teamTwo":  teamBlock(two),
	})
}

func teamBlock(t TeamStats) map[string]any {
	var ps []map[string]any
	for _, urn := range t.Players {
		ps = append(ps, map[string]any{
			"liveDataPlayerUrn": urn,
			"level":             1,
			"alive":             true,
			"totalGold":         t.TotalGold / max(1, len(t.Players)),
			"position":          map[string]int{"x": -1, "y": -1},
		})
	}
	return map[string]any{
		"urn":            t.URN,
		"totalGold":      t.TotalGold,
		"championsKills": t.Kills,
		"deaths":         t.Deaths,
		"assists":        t.Assists,
		"towerKills":     t.TowerKills,
		"inhibKills":     t.InhibKills,
		"dragonKills":    t.DragonKills,
		"baronKills":     t.BaronKills,
		"players":        ps,
	}
}

// Objective builds an objective record (TOOK_OBJECTIVE, KILLED_ANCIENT,
// SPECIAL_KILL) with the given string attributes.
func Objective(action string, gameTimeMs int64, killerTeamURN string, attrs map[string]string) []byte {
	body := map[string]any{"gameTime": gameTimeMs, "killerTeamUrn": killerTeamURN}
	for k, v := range attrs {
		body[k] = v
	}
	return envelope(action, "", body)
}

// Raw builds a record with an arbitrary action and body.
func Raw(action string, body map[string]any) []byte {
	return envelope(action, "", body)
}

// WriteDir writes records as 000001.json, 000002.json, ... into a fresh temp dir.
func WriteDir(t testing.TB, records ...[]byte) string {
	t.Helper()
	dir := t.TempDir()
	for i, r := range records {
		name := filepath.Join(dir, fmt.Sprintf("%06d.json", i+1))
		if err := os.WriteFile(name, r, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// TwoTeams is the canonical minimal roster: T1 with P1, T2 with P2.
func TwoTeams() []Team {
	return []Team{
		{URN: "T1", Players: []Player{{URN: "P1", Name: "Faker", Champion: 7}}},
		{URN: "T2", Players: []Player{{URN: "P2", Name: "Chovy", Champion: 103}}},
	}
}
