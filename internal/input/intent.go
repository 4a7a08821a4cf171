// Package input defines abstract player intents and the terminal key binding that produces them.
package input

import "github.com/samdwyer/shadowgrid/internal/world"

// Kind is what the player wants to do.
type Kind int

const (
	// KindNone is a key with no binding. It is dropped without effect.
	KindNone Kind = iota
	// KindMove steps the player one cell in Dir, or attacks an enemy standing there.
	KindMove
	// KindWait ends the turn without acting.
	KindWait
	// KindReload refills ammunition and ends the turn.
	KindReload
	// KindToggleAim enters or leaves aim mode.
	KindToggleAim
	// KindConfirmShot fires at the current target while aiming.
	KindConfirmShot
	// KindToggleLook enters or leaves look mode.
	KindToggleLook
	// KindMoveCursor moves the aim or look cursor one cell in Dir.
	KindMoveCursor
	// KindCycleTarget selects the next enemy in view while aiming.
	KindCycleTarget
	// KindRestart starts a new session. The controller handles it, not the session.
	KindRestart
	// KindQuit exits the game. The controller handles it, not the session.
	KindQuit
)

// String returns a human-readable intent name.
func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindWait:
		return "wait"
	case KindReload:
		return "reload"
	case KindToggleAim:
		return "toggle_aim"
	case KindConfirmShot:
		return "confirm_shot"
	case KindToggleLook:
		return "toggle_look"
	case KindMoveCursor:
		return "move_cursor"
	case KindCycleTarget:
		return "cycle_target"
	case KindRestart:
		return "restart"
	case KindQuit:
		return "quit"
	default:
		return "none"
	}
}

// Intent is one abstract player command. Dir is only meaningful for moves.
type Intent struct {
	Kind Kind
	Dir  world.Direction
}

// Move returns a move intent.
func Move(d world.Direction) Intent { return Intent{Kind: KindMove, Dir: d} }

// MoveCursor returns a cursor-move intent.
func MoveCursor(d world.Direction) Intent { return Intent{Kind: KindMoveCursor, Dir: d} }

// Of returns a directionless intent.
func Of(k Kind) Intent { return Intent{Kind: k} }
