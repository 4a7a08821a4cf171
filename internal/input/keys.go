package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shadowgrid/internal/world"
)

var arrowKeys = map[tcell.Key]world.Direction{
	tcell.KeyUp:    world.North,
	tcell.KeyRight: world.East,
	tcell.KeyDown:  world.South,
	tcell.KeyLeft:  world.West,
}

var vimKeys = map[rune]world.Direction{
	'k': world.North,
	'l': world.East,
	'j': world.South,
	'h': world.West,
}

var runeKeys = map[rune]Kind{
	'w': KindWait,
	'.': KindWait,
	'r': KindReload,
	'a': KindToggleAim,
	'f': KindConfirmShot,
	'x': KindToggleLook,
	'R': KindRestart,
	'q': KindQuit,
	'Q': KindQuit,
}

// FromKey maps a key press to an intent. Directions become cursor moves when
// cursorMode is set. ok is false for unbound keys so the caller can let them through.
func FromKey(ev *tcell.EventKey, cursorMode bool) (Intent, bool) {
	direction := func(d world.Direction) (Intent, bool) {
		if cursorMode {
			return MoveCursor(d), true
		}
		return Move(d), true
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Of(KindQuit), true
	case tcell.KeyEnter:
		return Of(KindConfirmShot), true
	case tcell.KeyTab:
		return Of(KindCycleTarget), true
	case tcell.KeyRune:
		r := ev.Rune()
		if d, ok := vimKeys[r]; ok {
			return direction(d)
		}
		if k, ok := runeKeys[r]; ok {
			return Of(k), true
		}
		return Intent{}, false
	}

	if d, ok := arrowKeys[ev.Key()]; ok {
		return direction(d)
	}
	return Intent{}, false
}
