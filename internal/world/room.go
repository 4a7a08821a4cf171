package world

// Room is a rectangular carved area recorded by the generator.
type Room struct {
	X, Y          int // Top-left corner
	Width, Height int
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}
