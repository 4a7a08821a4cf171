package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shadowgrid/internal/entity"
	"github.com/samdwyer/shadowgrid/internal/fov"
	"github.com/samdwyer/shadowgrid/internal/gamedata"
	"github.com/samdwyer/shadowgrid/internal/world"
)

// CursorGlyph marks the aim or look cursor.
const CursorGlyph = 'X'

// StatusRows is the number of screen rows under the map that must stay free:
// the HUD line, the info line and the newest log message.
const StatusRows = 3

// Frame is everything needed to draw one screen. It is a read-only snapshot.
type Frame struct {
	Grid     *world.Grid
	Visible  fov.Result
	Explored fov.Explored
	Player   *entity.Player
	Enemies  []*entity.Enemy
	Target   *entity.Enemy // Highlighted while aiming, or nil
	Cursor   *world.Point  // Set only in a cursor mode
	Info     string
	Log      []string // Newest first
}

// Renderer draws frames to a screen.
type Renderer struct {
	screen  *Screen
	palette gamedata.Palette
}

// NewRenderer creates a renderer for the given screen using the embedded palette.
func NewRenderer(screen *Screen) *Renderer {
	return NewRendererWithPalette(screen, gamedata.MustLoadPalette())
}

// NewRendererWithPalette creates a renderer with custom colors.
func NewRendererWithPalette(screen *Screen, palette gamedata.Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Render clears the screen and draws f: the map, then the HUD line, the info line and the log below it.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	g := f.Grid
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := world.Pt(x, y)
			if style, ok := r.terrainStyle(f, p); ok {
				r.screen.SetContent(x, y, g.Tile(p).Rune(), style)
			}
		}
	}

	for _, e := range f.Enemies {
		if !e.IsAlive() || !f.Visible.Visible(e.Pos) {
			continue
		}
		style := tcell.StyleDefault.Foreground(e.Color)
		if e == f.Target {
			style = style.Reverse(true)
		}
		r.screen.SetContent(e.Pos.X, e.Pos.Y, e.Symbol, style)
	}

	if f.Cursor != nil && f.Target == nil {
		r.screen.SetContent(f.Cursor.X, f.Cursor.Y, CursorGlyph, tcell.StyleDefault.Foreground(r.palette.Cursor).Bold(true))
	}

	p := f.Player
	r.screen.SetContent(p.Pos.X, p.Pos.Y, p.Symbol, tcell.StyleDefault.Foreground(p.Color).Bold(true))

	row := g.Height
	text := tcell.StyleDefault.Foreground(r.palette.Message)
	r.drawText(0, row, HUDLine(p), text)
	r.drawText(0, row+1, f.Info, text)

	_, height := r.screen.Size()
	for i, msg := range f.Log {
		y := row + 2 + i
		if y >= height {
			break
		}
		color := r.palette.OldMessage
		if i == 0 {
			color = r.palette.Message
		}
		r.drawText(0, y, msg, tcell.StyleDefault.Foreground(color))
	}

	r.screen.Show()
}

// HUDLine formats the player's health and ammunition.
func HUDLine(p *entity.Player) string {
	return fmt.Sprintf("HP: %d/%d :: Ammo: %d/%d", p.HP, p.MaxHP, p.Ammo, p.AmmoMax)
}

// terrainStyle picks a cell's color. Cells never seen are not drawn.
func (r *Renderer) terrainStyle(f Frame, p world.Point) (tcell.Style, bool) {
	switch f.Visible.Tier(p) {
	case fov.TierNear:
		return tcell.StyleDefault.Foreground(r.palette.Near), true
	case fov.TierMid:
		return tcell.StyleDefault.Foreground(r.palette.Mid), true
	case fov.TierFar:
		return tcell.StyleDefault.Foreground(r.palette.Far), true
	}
	if f.Explored.Has(p) {
		return tcell.StyleDefault.Foreground(r.palette.Remembered), true
	}
	return tcell.StyleDefault, false
}

// drawText writes msg starting at (x, y).
func (r *Renderer) drawText(x, y int, msg string, style tcell.Style) {
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}
