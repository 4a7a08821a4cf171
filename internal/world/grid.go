package world

import (
	"errors"
	"fmt"
)

const (
	// DefaultWidth and DefaultHeight fit the map on an 80x24 terminal with three status rows below it.
	DefaultWidth  = 80
	DefaultHeight = 21
)

// ErrEmptyGrid is returned by Parse when no rows are given.
var ErrEmptyGrid = errors.New("grid has no rows")

// Grid is the static floor/wall map. It is never mutated once built.
type Grid struct {
	Width  int
	Height int
	Rooms  []Room
	tiles  [][]Tile
}

// newGrid creates a grid filled with walls.
func newGrid(width, height int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}
	return &Grid{
		Width:  width,
		Height: height,
		tiles:  tiles,
	}
}

// Parse builds a grid from rows of '#' and '.' characters. Row 0 is y=0.
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(rows[0])
	g := newGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), width)
		}
		for x, ch := range row {
			switch Tile(ch) {
			case TileWall, TileFloor:
				g.tiles[y][x] = Tile(ch)
			default:
				return nil, fmt.Errorf("unknown tile %q at %d,%d", ch, x, y)
			}
		}
	}
	return g, nil
}

// MustParse is Parse that panics on error. Intended for fixtures.
func MustParse(rows ...string) *Grid {
	g, err := Parse(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Contains reports whether p lies inside the grid bounds.
func (g *Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Passable returns true if p is an in-bounds floor cell.
func (g *Grid) Passable(p Point) bool {
	if !g.Contains(p) {
		return false
	}
	return g.tiles[p.Y][p.X].IsPassable()
}

// Tile returns the tile at p. Out-of-bounds cells read as wall.
func (g *Grid) Tile(p Point) Tile {
	if !g.Contains(p) {
		return TileWall
	}
	return g.tiles[p.Y][p.X]
}

// FloorCells returns every floor cell in row-major order.
func (g *Grid) FloorCells() []Point {
	var cells []Point
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.tiles[y][x].IsPassable() {
				cells = append(cells, Point{X: x, Y: y})
			}
		}
	}
	return cells
}
