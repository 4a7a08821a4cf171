package world

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shadowgrid/internal/telemetry"
)

// BSP parameters
const (
	minRoomSize = 4
	maxRoomSize = 12
	minLeafSize = 7
)

// Generate carves rooms and corridors into a wall-filled grid using binary space
// partitioning. The same rng seed always produces the same grid.
func Generate(ctx context.Context, width, height int, rng *rand.Rand) *Grid {
	_, span := telemetry.Tracer("world").Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()

	c := &carver{grid: newGrid(width, height), rng: rng}
	root := &bspNode{x: 1, y: 1, width: width - 2, height: height - 2}
	c.split(root)
	c.placeRooms(root)
	c.connect(root)

	span.SetAttributes(
		attribute.Int("dungeon.width", width),
		attribute.Int("dungeon.height", height),
		attribute.Int("dungeon.room_count", len(c.grid.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return c.grid
}

// carver owns the grid while it is being generated.
type carver struct {
	grid *Grid
	rng  *rand.Rand
}

type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

func (c *carver) split(node *bspNode) {
	canSplitX := node.width >= minLeafSize*2
	canSplitY := node.height >= minLeafSize*2

	var horizontal bool
	switch {
	case canSplitX && node.width > node.height:
		horizontal = false
	case canSplitY:
		horizontal = true
	case canSplitX:
		horizontal = false
	default:
		return
	}

	span := node.width
	if horizontal {
		span = node.height
	}
	at := minLeafSize + c.rng.Intn(span-2*minLeafSize+1)

	if horizontal {
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: at}
		node.right = &bspNode{x: node.x, y: node.y + at, width: node.width, height: node.height - at}
	} else {
		node.left = &bspNode{x: node.x, y: node.y, width: at, height: node.height}
		node.right = &bspNode{x: node.x + at, y: node.y, width: node.width - at, height: node.height}
	}

	c.split(node.left)
	c.split(node.right)
}

func (c *carver) placeRooms(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		c.placeRooms(node.left)
		c.placeRooms(node.right)
		return
	}

	maxW := min(maxRoomSize, node.width-2)
	maxH := min(maxRoomSize, node.height-2)
	if maxW < minRoomSize || maxH < minRoomSize {
		return
	}
	w := minRoomSize + c.rng.Intn(maxW-minRoomSize+1)
	h := minRoomSize + c.rng.Intn(maxH-minRoomSize+1)

	room := Room{
		X:      node.x + 1 + c.rng.Intn(node.width-w-1),
		Y:      node.y + 1 + c.rng.Intn(node.height-h-1),
		Width:  w,
		Height: h,
	}
	node.room = &room
	c.grid.Rooms = append(c.grid.Rooms, room)

	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			c.dig(x, y)
		}
	}
}

func (c *carver) connect(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}
	c.connect(node.left)
	c.connect(node.right)

	a, b := anyRoom(node.left), anyRoom(node.right)
	if a == nil || b == nil {
		return
	}
	x1, y1 := a.Center()
	x2, y2 := b.Center()
	if c.rng.Intn(2) == 0 {
		c.hTunnel(x1, x2, y1)
		c.vTunnel(y1, y2, x2)
	} else {
		c.vTunnel(y1, y2, x1)
		c.hTunnel(x1, x2, y2)
	}
}

// anyRoom returns some room from the subtree, preferring the left side.
func anyRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}
	if node.room != nil {
		return node.room
	}
	if room := anyRoom(node.left); room != nil {
		return room
	}
	return anyRoom(node.right)
}

func (c *carver) hTunnel(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		c.dig(x, y)
	}
}

func (c *carver) vTunnel(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		c.dig(x, y)
	}
}

// dig turns an interior cell into floor. The outer border always stays wall.
func (c *carver) dig(x, y int) {
	g := c.grid
	if x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1 {
		g.tiles[y][x] = TileFloor
	}
}
