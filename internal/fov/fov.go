// Package fov computes field of view on the tile grid with recursive shadowcasting.
package fov

import "github.com/samdwyer/shadowgrid/internal/world"

// Terrain is the read-only view of the map the sweep needs.
// Passable doubles as the light-passes predicate: floor lets light through, walls stop it.
type Terrain interface {
	Contains(p world.Point) bool
	Passable(p world.Point) bool
}

// Octant transforms: column i maps local (dx, dy) into one of the eight octants.
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// Result maps each visible cell to its falloff value in (0, 1].
// It is only meaningful for the position and turn it was computed for.
type Result map[world.Point]float64

// Compute returns the cells visible from origin within radius.
// The origin is always visible at 1.0. A radius <= 0 sees only the origin.
func Compute(t Terrain, origin world.Point, radius int) Result {
	res := Result{origin: 1.0}
	if radius <= 0 {
		return res
	}

	sweep := &sweep{terrain: t, origin: origin, radius: radius, out: res}
	for i := 0; i < 8; i++ {
		sweep.castLight(1, 1.0, 0.0,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i])
	}
	return res
}

type sweep struct {
	terrain Terrain
	origin  world.Point
	radius  int
	out     Result
}

func (s *sweep) castLight(row int, start, end float64, xx, xy, yx, yy int) {
	if start < end {
		return
	}

	// Row j holds the cells at Chebyshev distance j, so the loop bound is the view radius.
	for j := row; j <= s.radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			p := world.Point{
				X: s.origin.X + dx*xx + dy*xy,
				Y: s.origin.Y + dx*yx + dy*yy,
			}

			if s.terrain.Contains(p) {
				s.out[p] = s.falloff(j)
			}

			opaque := !s.terrain.Passable(p)
			if blocked {
				if opaque {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if opaque && j < s.radius {
				blocked = true
				s.castLight(j+1, start, lSlope, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// falloff decreases linearly with Chebyshev distance and stays above zero inside the radius.
func (s *sweep) falloff(distance int) float64 {
	return 1 - float64(distance)/float64(s.radius+1)
}

// Visible reports whether p is in view.
func (r Result) Visible(p world.Point) bool {
	_, ok := r[p]
	return ok
}

// Falloff returns the visibility value at p, or 0 when p is not visible.
func (r Result) Falloff(p world.Point) float64 {
	return r[p]
}

// Tier buckets the falloff at p for display.
func (r Result) Tier(p world.Point) Tier {
	v, ok := r[p]
	if !ok {
		return TierHidden
	}
	return TierOf(v)
}
