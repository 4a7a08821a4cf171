package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shadowgrid/internal/gamedata"
	"github.com/samdwyer/shadowgrid/internal/world"
)

// Behavior distinguishes enemy kinds. It follows from weapon range alone.
type Behavior int

const (
	BehaviorBrute Behavior = iota
	BehaviorGunman
)

// String returns the behavior name.
func (b Behavior) String() string {
	switch b {
	case BehaviorBrute:
		return "brute"
	case BehaviorGunman:
		return "gunman"
	default:
		return "unknown"
	}
}

// Enemy represents a hostile actor driven by its own field of view.
type Enemy struct {
	Health

	Def    *gamedata.EnemyDef
	id     string
	Name   string
	Symbol rune
	Color  tcell.Color
	Pos    world.Point
	Spawn  world.Point // Where it returns once it loses the player

	// Aggro is set on first sighting and cleared only when the enemy is back on its spawn tile.
	Aggro  bool
	State  State
	Vision int
	Range  int
}

// NewEnemy creates an enemy from a definition, anchored at pos.
func NewEnemy(def *gamedata.EnemyDef, pos world.Point) *Enemy {
	reach := def.Range
	if reach < 1 {
		reach = 1
	}
	return &Enemy{
		Health: Health{HP: def.HP, MaxHP: def.HP},
		Def:    def,
		id:     newID(),
		Name:   def.Name,
		Symbol: def.GlyphRune(),
		Color:  def.TCellColor(),
		Pos:    pos,
		Spawn:  pos,
		State:  StateIdle,
		Vision: def.Vision,
		Range:  reach,
	}
}

// ID returns the enemy's unique identifier.
func (e *Enemy) ID() string { return e.id }

// GetName returns the display name.
func (e *Enemy) GetName() string { return e.Name }

// Position returns the current cell.
func (e *Enemy) Position() world.Point { return e.Pos }

// IsPlayer is always false.
func (e *Enemy) IsPlayer() bool { return false }

// Behavior reports brute for melee-only enemies and gunman for anything with reach.
func (e *Enemy) Behavior() Behavior {
	if e.Range > 1 {
		return BehaviorGunman
	}
	return BehaviorBrute
}

// AtSpawn reports whether the enemy stands on its spawn tile.
func (e *Enemy) AtSpawn() bool {
	return e.Pos == e.Spawn
}

// Decide runs the per-turn state transition given whether the player is in view
// and the Chebyshev distance to the player.
func (e *Enemy) Decide(seesPlayer bool, distance int) State {
	if seesPlayer {
		e.Aggro = true
	}

	switch {
	case !e.Aggro:
		e.State = StateIdle
	case seesPlayer && e.Range > 1 && distance <= e.Range:
		e.State = StateRanged
	case seesPlayer:
		e.State = StatePursue
	case e.AtSpawn():
		e.Aggro = false
		e.State = StateIdle
	default:
		e.State = StateReturning
	}
	return e.State
}

// MoveTo relocates the enemy. A returning enemy that lands on its spawn goes idle.
func (e *Enemy) MoveTo(p world.Point) {
	e.Pos = p
	if e.State == StateReturning && e.AtSpawn() {
		e.Aggro = false
		e.State = StateIdle
	}
}
