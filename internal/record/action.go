// Package record classifies decoded capture records into typed payloads.
package record

// Action is the raw action string carried at payload.payload.action.
type Action string

// Every action the live-data feed is known to emit.
const (
	ActionKilledWard       Action = "KILLED_WARD"
	ActionUpdate           Action = "UPDATE"
	ActionUndoItem         Action = "UNDO_ITEM"
	ActionKilledAncient    Action = "KILLED_ANCIENT" // jungle camps, dragon, herald, baron
	ActionConsumedItem     Action = "CONSUMED_ITEM"
	ActionPlacedWard       Action = "PLACED_WARD"
	ActionExpiredObjective Action = "EXPIRED_OBJECTIVE"
	ActionSoldItem         Action = "SOLD_ITEM"
	ActionStartMap         Action = "START_MAP"
	ActionKill             Action = "KILL"
	ActionSpawnedAncient   Action = "SPAWNED_ANCIENT"
	ActionSelectedHero     Action = "SELECTED_HERO"
	ActionTookObjective    Action = "TOOK_OBJECTIVE" // turrets, plates, inhibitors
	ActionSpecialKill      Action = "SPECIAL_KILL"   // first blood, multi-kills
	ActionBannedHero       Action = "BANNED_HERO"
	ActionEndPause         Action = "END_PAUSE"
	ActionPurchasedItem    Action = "PURCHASED_ITEM"
	ActionUpdateScore      Action = "UPDATE_SCORE"
	ActionDied             Action = "DIED"
	ActionPickedUpItem     Action = "PICKED_UP_ITEM"
	ActionAnnounce         Action = "ANNOUNCE"
	ActionSpawned          Action = "SPAWNED"
	ActionUpdatePositions  Action = "UPDATE_POSITIONS"
	ActionLevelUp          Action = "LEVEL_UP"
	ActionAnnouncedAncient Action = "ANNOUNCED_ANCIENT"
)

// Kind is the classification the timeline core dispatches on.
type Kind int

const (
	KindIgnored Kind = iota // unknown action string
	KindPassive             // known action the core does not consume
	KindAnnounce
	KindPositionUpdate
	KindStatUpdate
	KindObjectiveKill
	KindEpicMonsterKill
	KindSpecialKill
)

func (k Kind) String() string {
	switch k {
	case KindPassive:
		return "passive"
	case KindAnnounce:
		return "announce"
	case KindPositionUpdate:
		return "position-update"
	case KindStatUpdate:
		return "stat-update"
	case KindObjectiveKill:
		return "objective-kill"
	case KindEpicMonsterKill:
		return "epic-monster-kill"
	case KindSpecialKill:
		return "special-kill"
	default:
		return "ignored"
	}
}

var actionKinds = map[Action]Kind{
	ActionAnnounce:        KindAnnounce,
	ActionUpdatePositions: KindPositionUpdate,
	ActionUpdate:          KindStatUpdate,
	ActionTookObjective:   KindObjectiveKill,
	ActionKilledAncient:   KindEpicMonsterKill,
	ActionSpecialKill:     KindSpecialKill,

	ActionKilledWard:       KindPassive,
	ActionUndoItem:         KindPassive,
	ActionConsumedItem:     KindPassive,
	ActionPlacedWard:       KindPassive,
	ActionExpiredObjective: KindPassive,
	ActionSoldItem:         KindPassive,
	ActionStartMap:         KindPassive,
	ActionKill:             KindPassive,
	ActionSpawnedAncient:   KindPassive,
	ActionSelectedHero:     KindPassive,
	ActionBannedHero:       KindPassive,
	ActionEndPause:         KindPassive,
	ActionPurchasedItem:    KindPassive,
	ActionUpdateScore:      KindPassive,
	ActionDied:             KindPassive,
	ActionPickedUpItem:     KindPassive,
	ActionSpawned:          KindPassive,
	ActionLevelUp:          KindPassive,
	ActionAnnouncedAncient: KindPassive,
}

// KindOf maps an action string to its kind. Unknown strings are KindIgnored.
func KindOf(a Action) Kind {
	if k, ok := actionKinds[a]; ok {
		return k
	}
	return KindIgnored
}
