package timeline

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. These allow errors.Is from callers.
var (
	ErrMissingAnnounce = errors.New("no ANNOUNCE record in capture")
	ErrTeamCount       = errors.New("announce must declare exactly two teams")
)

// FrameAlignmentError reports a stat-update whose tick has no frame at or
// after it.
type FrameAlignmentError struct {
	Seq        int
	GameTimeMs int64
	Tick       int
	LastTick   int // -1 when the timeline is empty
}

func (e *FrameAlignmentError) Error() string {
	return fmt.Sprintf("record %d: stat update at tick %d (%dms) has no frame at or after it (last frame tick %d)",
		e.Seq, e.Tick, e.GameTimeMs, e.LastTick)
}

// PlayerNotFoundError reports a stat-update player absent from its target frame.
type PlayerNotFoundError struct {
	Seq       int
	Tick      int
	PlayerURN string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("record %d: player %s not found in frame at tick %d", e.Seq, e.PlayerURN, e.Tick)
}

// AmbiguousPlayerError reports a stat-update player present more than once in its target frame.
type AmbiguousPlayerError struct {
	Seq       int
	Tick      int
	PlayerURN string
	Matches   int
}

func (e *AmbiguousPlayerError) Error() string {
	return fmt.Sprintf("record %d: player %s matches %d entries in frame at tick %d",
		e.Seq, e.PlayerURN, e.Matches, e.Tick)
}

// UnknownEntityError reports a record naming a team or player the announce did not declare.
type UnknownEntityError struct {
	Seq  int
	Kind string // "team" or "player"
	URN  string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("record %d: unknown %s %s", e.Seq, e.Kind, e.URN)
}

// DuplicateEntityError reports a urn declared twice where it must be unique.
type DuplicateEntityError struct {
	Seq  int
	Kind string
	URN  string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("record %d: duplicate %s %s", e.Seq, e.Kind, e.URN)
}

// TeamMismatchError reports a stat-update listing a player under a team other
// than the one the announce registered it to.
type TeamMismatchError struct {
	Seq           int
	PlayerURN     string
	TeamURN       string
	RegisteredURN string
}

func (e *TeamMismatchError) Error() string {
	return fmt.Sprintf("record %d: player %s listed under team %s but registered to %s",
		e.Seq, e.PlayerURN, e.TeamURN, e.RegisteredURN)
}

// TickOrderError reports a position sample older than the newest frame.
type TickOrderError struct {
	Seq      int
	Tick     int
	LastTick int
}

func (e *TickOrderError) Error() string {
	return fmt.Sprintf("record %d: position tick %d arrives after tick %d", e.Seq, e.Tick, e.LastTick)
}
