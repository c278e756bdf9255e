// Package objective extracts team objective facts from classified records:
// which team took an objective first, and how often each team took it.
package objective

import (
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/record"
)

// Query selects objective events by action and one payload attribute.
type Query struct {
	Action record.Action
	Field  string
	Value  string
}

func (q Query) matches(ev model.ObjectiveEvent) bool {
	return record.Action(ev.Action) == q.Action && ev.Attributes[q.Field] == q.Value
}

// The objectives reported per team.
var (
	FirstBlood  = Query{record.ActionSpecialKill, "killType", "firstBlood"}
	Turret      = Query{record.ActionTookObjective, "buildingType", "turret"}
	Inhibitor   = Query{record.ActionTookObjective, "buildingType", "inhibitor"}
	TurretPlate = Query{record.ActionTookObjective, "buildingType", "turretPlate"}
	Dragon      = Query{record.ActionKilledAncient, "monsterType", "dragon"}
	Baron       = Query{record.ActionKilledAncient, "monsterType", "baron"}
	RiftHerald  = Query{record.ActionKilledAncient, "monsterType", "riftHerald"}
)

// Events collects the objective events of a capture in record order.
func Events(records []record.Record) []model.ObjectiveEvent {
	var out []model.ObjectiveEvent
	for _, r := range records {
		if obj, ok := r.Payload.(*record.Objective); ok {
			out = append(out, obj.ObjectiveEvent)
		}
	}
	return out
}

// First returns the acquiring team of the first event matching q.
func First(events []model.ObjectiveEvent, q Query) (string, bool) {
	for _, ev := range events {
		if q.matches(ev) {
			return ev.KillerTeamURN, true
		}
	}
	return "", false
}

// Count returns the number of events matching q per acquiring team.
func Count(events []model.ObjectiveEvent, q Query) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		if q.matches(ev) {
			counts[ev.KillerTeamURN]++
		}
	}
	return counts
}

// Facts is everything the aggregator needs from the objective stream.
// First* fields hold the acquiring team urn, empty when nobody took it.
type Facts struct {
	FirstBlood      string
	FirstTurret     string
	FirstInhibitor  string
	FirstDragon     string
	FirstBaron      string
	FirstRiftHerald string

	RiftHeraldKills map[string]int
	Plates          map[string]int
}

// Extract scans the records once for objective events and summarizes them.
func Extract(records []record.Record) Facts {
	events := Events(records)
	first := func(q Query) string {
		urn, _ := First(events, q)
		return urn
	}
	return Facts{
		FirstBlood:      first(FirstBlood),
		FirstTurret:     first(Turret),
		FirstInhibitor:  first(Inhibitor),
		FirstDragon:     first(Dragon),
		FirstBaron:      first(Baron),
		FirstRiftHerald: first(RiftHerald),
		RiftHeraldKills: Count(events, RiftHerald),
		Plates:          Count(events, TurretPlate),
	}
}
