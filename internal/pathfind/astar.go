// Package pathfind finds shortest walkable routes on the grid under topology-4 movement.
package pathfind

import (
	"container/heap"

	"github.com/samdwyer/shadowgrid/internal/world"
)

// DefaultMaxNodes bounds how many cells a single search may expand.
const DefaultMaxNodes = 1 << 16

// Passable decides whether a cell may be entered during this search.
type Passable func(world.Point) bool

// Find returns the shortest path from start to goal, both included.
//
// Neighbors are expanded in the fixed order north, east, south, west, and ties
// in the open list are broken by heuristic and then by insertion order, so
// identical inputs always produce the identical path. The start cell is never
// tested against passable. The result is [start] when start == goal and nil
// when goal cannot be reached.
func Find(start, goal world.Point, passable Passable) []world.Point {
	return FindWithin(start, goal, passable, DefaultMaxNodes)
}

// FindWithin is Find with an explicit cap on expanded nodes. Hitting the cap
// counts as unreachable.
func FindWithin(start, goal world.Point, passable Passable, maxNodes int) []world.Point {
	if start == goal {
		return []world.Point{start}
	}
	if !passable(goal) {
		return nil
	}

	first := &node{p: start, g: 0, h: world.Manhattan(start, goal)}
	open := &openList{first}
	heap.Init(open)

	best := map[world.Point]*node{start: first}
	closed := make(map[world.Point]bool)
	var seq int

	for open.Len() > 0 && len(closed) < maxNodes {
		cur := heap.Pop(open).(*node)
		if cur.p == goal {
			return buildPath(cur)
		}
		if closed[cur.p] {
			continue
		}
		closed[cur.p] = true

		for _, d := range world.Cardinals {
			np := cur.p.Add(d)
			if closed[np] || !passable(np) {
				continue
			}
			g := cur.g + 1
			if prev, ok := best[np]; ok && g >= prev.g {
				continue
			}
			seq++
			n := &node{p: np, g: g, h: world.Manhattan(np, goal), seq: seq, parent: cur}
			best[np] = n
			heap.Push(open, n)
		}
	}
	return nil
}

type node struct {
	p      world.Point
	g, h   int
	seq    int
	parent *node
	index  int
}

// openList is a min-heap on f = g + h, then h, then insertion order.
type openList []*node

func (ol openList) Len() int { return len(ol) }

func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}

func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}

func (ol *openList) Push(x any) {
	n := x.(*node)
	n.index = len(*ol)
	*ol = append(*ol, n)
}

func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*ol = old[:len(old)-1]
	return n
}

func buildPath(end *node) []world.Point {
	var cells []world.Point
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.p)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
