package game

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shadowgrid/internal/entity"
	"github.com/samdwyer/shadowgrid/internal/fov"
	"github.com/samdwyer/shadowgrid/internal/pathfind"
	"github.com/samdwyer/shadowgrid/internal/world"
)

// enemyTurn runs one enemy's perception, decision and action.
func (s *Session) enemyTurn(ctx context.Context, e *entity.Enemy) {
	ctx, span := s.tracer.Start(ctx, "turn.enemy")
	defer span.End()

	from := e.Pos
	sees := fov.Compute(s.grid, e.Pos, e.Vision).Visible(s.player.Pos)
	distance := world.Chebyshev(e.Pos, s.player.Pos)
	state := e.Decide(sees, distance)

	switch state {
	case entity.StateRanged:
		res := s.resolver.EnemyShot(ctx, e, s.player)
		s.report(res)
	case entity.StatePursue:
		s.stepToward(ctx, e, s.player.Pos)
	case entity.StateReturning:
		s.stepToward(ctx, e, e.Spawn)
	}

	span.SetAttributes(
		attribute.String("enemy", e.Name),
		attribute.String("state", state.String()),
		attribute.Bool("sees_player", sees),
		attribute.Int("distance", distance),
	)
	s.log.WithFields(logrus.Fields{
		"component": "enemy_ai",
		"enemy":     e.Name,
		"id":        e.ID(),
		"state":     state.String(),
		"sees":      sees,
		"from":      from.String(),
		"to":        e.Pos.String(),
	}).Debug("enemy turn")
}

// occupied returns the cells held by live enemies other than self.
func (s *Session) occupied(self *entity.Enemy) map[world.Point]bool {
	cells := make(map[world.Point]bool, len(s.enemies))
	for _, e := range s.enemies {
		if e != self && e.IsAlive() {
			cells[e.Pos] = true
		}
	}
	return cells
}

// stepToward moves e one cell along a shortest path to goal, avoiding other enemies.
// With no usable path it tries a random open neighbor instead.
func (s *Session) stepToward(ctx context.Context, e *entity.Enemy, goal world.Point) {
	blocked := s.occupied(e)
	route := pathfind.Find(e.Pos, goal, func(p world.Point) bool {
		return s.grid.Passable(p) && !blocked[p]
	})
	if len(route) >= 2 && !blocked[route[1]] {
		s.enemyStep(ctx, e, route[1])
		return
	}
	s.randomStep(e, blocked)
}

// enemyStep moves e onto next, or attacks if the player stands there.
func (s *Session) enemyStep(ctx context.Context, e *entity.Enemy, next world.Point) {
	if next == s.player.Pos {
		res := s.resolver.Melee(ctx, e, s.player)
		s.report(res)
		return
	}
	e.MoveTo(next)
}

// randomStep moves e to the first open cardinal neighbor in shuffled order. It never attacks.
func (s *Session) randomStep(e *entity.Enemy, blocked map[world.Point]bool) {
	dirs := world.Cardinals
	s.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		p := e.Pos.Add(d)
		if s.grid.Passable(p) && !blocked[p] && p != s.player.Pos {
			e.MoveTo(p)
			return
		}
	}
}
