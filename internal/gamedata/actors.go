package gamedata

import (
	"errors"

	"github.com/gdamore/tcell/v2"
)

// PlayerDef holds the player's starting stats.
type PlayerDef struct {
	Name         string `json:"name"`
	Glyph        string `json:"glyph"`
	Color        string `json:"color"`
	HP           int    `json:"hp"`
	Ammo         int    `json:"ammo"`         // Magazine size
	Range        int    `json:"range"`        // Ranged reach in Chebyshev tiles
	RangedDamage int    `json:"rangedDamage"` // Fixed damage per hit
	MeleeMin     int    `json:"meleeMin"`
	MeleeMax     int    `json:"meleeMax"`
	Vision       int    `json:"vision"`
	MovesPerTurn int    `json:"movesPerTurn"`
}

// EnemyDef defines an enemy kind. A range above 1 makes it a gunman.
type EnemyDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Glyph       string `json:"glyph"`
	Color       string `json:"color"`
	HP          int    `json:"hp"`
	Range       int    `json:"range"`
	Vision      int    `json:"vision"`
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
}

// ActorsFile represents the structure of actors.json.
type ActorsFile struct {
	Player  PlayerDef  `json:"player"`
	Enemies []EnemyDef `json:"enemies"`
}

// LoadActors loads the embedded actors.json.
func LoadActors() (ActorsFile, error) {
	file, err := Load[ActorsFile]("actors.json")
	if err != nil {
		return ActorsFile{}, err
	}
	if len(file.Enemies) == 0 {
		return ActorsFile{}, errors.New("no enemies defined in actors.json")
	}
	if file.Player.HP <= 0 {
		return ActorsFile{}, errors.New("player hp must be positive in actors.json")
	}
	return file, nil
}

// GlyphRune returns the glyph as a rune for rendering.
func (p *PlayerDef) GlyphRune() rune {
	return glyphRune(p.Glyph)
}

// TCellColor returns the color as a tcell.Color.
func (p *PlayerDef) TCellColor() tcell.Color {
	return colorOr(p.Color, tcell.ColorYellow)
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	return glyphRune(e.Glyph)
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	return colorOr(e.Color, tcell.ColorRed)
}

func glyphRune(s string) rune {
	if len(s) == 0 {
		return '?'
	}
	return rune(s[0])
}

func colorOr(hex string, fallback tcell.Color) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return color
}
