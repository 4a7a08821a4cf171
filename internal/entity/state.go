package entity

// State is the enemy behavior state.
type State int

const (
	// StateIdle: never saw the player, or came home after losing it.
	StateIdle State = iota
	// StatePursue: player in view, closing distance.
	StatePursue
	// StateRanged: player in view and within weapon reach; shoots instead of moving.
	StateRanged
	// StateReturning: lost the player, walking back to spawn with aggro still set.
	StateReturning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePursue:
		return "pursue"
	case StateRanged:
		return "ranged"
	case StateReturning:
		return "returning"
	default:
		return "unknown"
	}
}
