package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/pable/go-lol-metrics/internal/model"
)

// Paths into the doubly wrapped record envelope.
const (
	pathAction   = "payload.payload.action"
	pathURN      = "payload.payload.urn"
	pathOuterURN = "payload.urn"
	pathBody     = "payload.payload.payload"
)

// MalformedRecordError reports a recognised action whose payload could not be decoded.
type MalformedRecordError struct {
	Seq    int
	Action Action
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Seq, e.Action, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Classify tags one raw record with its kind and decodes the payload the
// timeline core needs from it. Unknown actions are KindIgnored with a nil
// payload and no error.
func Classify(seq int, raw []byte) (Record, error) {
	if !gjson.ValidBytes(raw) {
		return Record{}, &MalformedRecordError{Seq: seq, Err: errors.New("invalid JSON")}
	}
	action := Action(gjson.GetBytes(raw, pathAction).String())
	rec := Record{Seq: seq, Action: action, Kind: KindOf(action)}
	body := gjson.GetBytes(raw, pathBody)

	var err error
	switch rec.Kind {
	case KindAnnounce:
		rec.Payload, err = decodeAnnounce(raw, body)
	case KindPositionUpdate:
		rec.Payload, err = decodePositions(body)
	case KindStatUpdate:
		// UPDATE also fires before the game clock starts; only timed ones are snapshots.
		if !body.Get("gameTime").Exists() {
			rec.Kind = KindPassive
			return rec, nil
		}
		rec.Payload, err = decodeStats(body)
	case KindObjectiveKill, KindEpicMonsterKill, KindSpecialKill:
		rec.Payload = decodeObjective(seq, action, body)
	}
	if err != nil {
		return Record{}, &MalformedRecordError{Seq: seq, Action: action, Err: err}
	}
	return rec, nil
}

// ClassifyAll classifies a whole capture in order, dropping ignored records.
func ClassifyAll(raws [][]byte) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := Classify(i, raw)
		if err != nil {
			return nil, err
		}
		if rec.Kind == KindIgnored {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// CountKinds tallies records per kind.
func CountKinds(records []Record) map[Kind]int {
	counts := make(map[Kind]int)
	for _, r := range records {
		counts[r.Kind]++
	}
	return counts
}

func decodeAnnounce(raw []byte, body gjson.Result) (*Announce, error) {
	a := &Announce{
		GameURN:   gjson.GetBytes(raw, pathURN).String(),
		StartTime: body.Get("fixture.startTime").String(),
	}
	if a.GameURN == "" {
		a.GameURN = gjson.GetBytes(raw, pathOuterURN).String()
	}
	if a.StartTime == "" {
		a.StartTime = body.Get("startTime").String()
	}
	if a.GameURN == "" {
		return nil, errors.New("announce without urn")
	}

	teams := body.Get("teams")
	if !teams.IsArray() {
		return nil, errors.New("announce without teams list")
	}
	var decodeErr error
	teams.ForEach(func(_, t gjson.Result) bool {
		team := AnnouncedTeam{URN: t.Get("urn").String()}
		roster := t.Get("participants")
		if !roster.Exists() {
			roster = t.Get("players")
		}
		if roster.Exists() {
			if err := json.Unmarshal([]byte(roster.Raw), &team.Players); err != nil {
				decodeErr = fmt.Errorf("team %s roster: %w", team.URN, err)
				return false
			}
		}
		a.Teams = append(a.Teams, team)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return a, nil
}

// decodePositions requires gameTime; a sample without a clock has no tick.
func decodePositions(body gjson.Result) (*PositionUpdate, error) {
	gt := body.Get("gameTime")
	if !gt.Exists() {
		return nil, errors.New("position update without gameTime")
	}
	pu := &PositionUpdate{GameTimeMs: gt.Int()}
	var decodeErr error
	body.Get("positions").ForEach(func(_, p gjson.Result) bool {
		xy := p.Get("position").Array()
		if len(xy) < 2 {
			decodeErr = fmt.Errorf("player %s: position needs [x,y]", p.Get("playerUrn").String())
			return false
		}
		pu.Positions = append(pu.Positions, PlayerPosition{
			PlayerURN: p.Get("playerUrn").String(),
			Position:  model.Position{X: int(xy[0].Int()), Y: int(xy[1].Int())},
		})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return pu, nil
}

func decodeStats(body gjson.Result) (*StatUpdate, error) {
	su := &StatUpdate{GameTimeMs: body.Get("gameTime").Int()}
	for i, key := range []string{"teamOne", "teamTwo"} {
		block := body.Get(key)
		if !block.IsObject() {
			return nil, fmt.Errorf("stat update without %s", key)
		}
		if err := json.Unmarshal([]byte(block.Raw), &su.Teams[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return su, nil
}

func decodeObjective(seq int, action Action, body gjson.Result) *Objective {
	ev := model.ObjectiveEvent{
		Seq:        seq,
		Action:     string(action),
		GameTimeMs: body.Get("gameTime").Int(),
		Attributes: make(map[string]string),
	}
	body.ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.String {
			ev.Attributes[k.String()] = v.String()
		}
		return true
	})
	ev.KillerTeamURN = ev.Attributes["killerTeamUrn"]
	return &Objective{ObjectiveEvent: ev}
}
