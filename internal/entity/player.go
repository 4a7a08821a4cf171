package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shadowgrid/internal/gamedata"
	"github.com/samdwyer/shadowgrid/internal/world"
)

// Mode is the player's intent-handling mode.
type Mode int

const (
	// ModeNormal is free movement.
	ModeNormal Mode = iota
	// ModeAim moves a targeting cursor for a ranged shot.
	ModeAim
	// ModeLook moves an inspection cursor.
	ModeLook
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeAim:
		return "aim"
	case ModeLook:
		return "look"
	default:
		return "unknown"
	}
}

// Player is the single player-controlled actor.
type Player struct {
	Health

	id     string
	Name   string
	Symbol rune
	Color  tcell.Color
	Pos    world.Point

	Ammo, AmmoMax      int
	MeleeMin, MeleeMax int
	RangedDamage       int
	Range              int
	Vision             int
	MovesPerTurn       int
	MovesLeft          int

	// Frozen means the turn has been used up and the player waits for the scheduler.
	Frozen bool
	dead   bool

	// Intent state. Not used by combat math.
	Mode        Mode
	Cursor      world.Point
	TargetIndex int
}

// NewPlayer creates a player from its definition at the given position.
func NewPlayer(def *gamedata.PlayerDef, pos world.Point) *Player {
	moves := def.MovesPerTurn
	if moves < 1 {
		moves = 1
	}
	return &Player{
		Health:       Health{HP: def.HP, MaxHP: def.HP},
		id:           newID(),
		Name:         def.Name,
		Symbol:       def.GlyphRune(),
		Color:        def.TCellColor(),
		Pos:          pos,
		Ammo:         def.Ammo,
		AmmoMax:      def.Ammo,
		MeleeMin:     def.MeleeMin,
		MeleeMax:     def.MeleeMax,
		RangedDamage: def.RangedDamage,
		Range:        def.Range,
		Vision:       def.Vision,
		MovesPerTurn: moves,
		MovesLeft:    moves,
		Frozen:       true,
	}
}

// ID returns the player's unique identifier.
func (p *Player) ID() string { return p.id }

// GetName returns the display name.
func (p *Player) GetName() string { return p.Name }

// Position returns the current cell.
func (p *Player) Position() world.Point { return p.Pos }

// IsPlayer is always true.
func (p *Player) IsPlayer() bool { return true }

// IsDead reports whether the player has died. Death is permanent for the session.
func (p *Player) IsDead() bool { return p.dead }

// BeginTurn unfreezes the player and restores the move budget.
func (p *Player) BeginTurn() {
	if p.dead {
		return
	}
	p.Frozen = false
	p.MovesLeft = p.MovesPerTurn
}

// EndTurn freezes the player and drops any cursor mode.
func (p *Player) EndTurn() {
	p.Frozen = true
	p.Mode = ModeNormal
}

// Die freezes the player permanently.
func (p *Player) Die() {
	p.dead = true
	p.EndTurn()
}

// Step moves the player and spends one move. It returns true when the turn's moves are used up.
func (p *Player) Step(to world.Point) bool {
	p.Pos = to
	p.MovesLeft--
	return p.MovesLeft <= 0
}

// SpendAmmo uses one round. It returns false if the magazine is empty.
func (p *Player) SpendAmmo() bool {
	if p.Ammo <= 0 {
		return false
	}
	p.Ammo--
	return true
}

// Reload refills the magazine. It returns false if it was already full.
func (p *Player) Reload() bool {
	if p.Ammo >= p.AmmoMax {
		return false
	}
	p.Ammo = p.AmmoMax
	return true
}
