// Package world provides the tile grid, coordinates, and map generation.
package world

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall represents an impassable, opaque wall tile.
	TileWall Tile = '#'
	// TileFloor represents a passable floor tile.
	TileFloor Tile = '.'
)

// IsPassable returns true if the tile can be walked on and seen through.
func (t Tile) IsPassable() bool {
	return t == TileFloor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
