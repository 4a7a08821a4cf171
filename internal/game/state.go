// Package game runs a play session: turn order, enemy behavior, player intents and the terminal loop.
package game

// Status represents whether the session is still being played.
type Status int

const (
	// StatusPlaying is the normal state while the player and at least one enemy live.
	StatusPlaying Status = iota
	// StatusWon means every enemy is dead.
	StatusWon
	// StatusLost means the player is dead. Only a restart leaves this state.
	StatusLost
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}
