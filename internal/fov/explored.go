package fov

import "github.com/samdwyer/shadowgrid/internal/world"

// Explored is the session-long set of cells that have ever been seen. It only grows.
type Explored map[world.Point]struct{}

// NewExplored returns an empty set.
func NewExplored() Explored {
	return make(Explored)
}

// Merge adds every visible cell of r.
func (e Explored) Merge(r Result) {
	for p := range r {
		e[p] = struct{}{}
	}
}

// Has reports whether p was ever seen.
func (e Explored) Has(p world.Point) bool {
	_, ok := e[p]
	return ok
}
