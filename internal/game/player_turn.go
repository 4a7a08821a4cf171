package game

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shadowgrid/internal/combat"
	"github.com/samdwyer/shadowgrid/internal/entity"
	"github.com/samdwyer/shadowgrid/internal/input"
	"github.com/samdwyer/shadowgrid/internal/world"
)

// Handle applies one player intent. It returns false when the intent was ignored:
// the session is over, the player is waiting for its turn, or the intent does not apply.
// Restart and quit belong to the controller and are never handled here.
func (s *Session) Handle(ctx context.Context, in input.Intent) bool {
	if s.Over() || s.player.Frozen {
		return false
	}

	ctx, span := s.tracer.Start(ctx, "session.handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("intent", in.Kind.String()),
		attribute.String("mode", s.player.Mode.String()),
	)

	// In a cursor mode the movement keys steer the cursor.
	if in.Kind == input.KindMove && s.player.Mode != entity.ModeNormal {
		in = input.MoveCursor(in.Dir)
	}

	switch in.Kind {
	case input.KindMove:
		s.playerMove(ctx, in.Dir)
	case input.KindWait:
		s.info = ""
		s.endPlayerTurn(ctx)
	case input.KindReload:
		s.playerReload(ctx)
	case input.KindToggleAim:
		s.toggleAim()
	case input.KindCycleTarget:
		s.cycleTarget()
	case input.KindConfirmShot:
		s.playerShoot(ctx)
	case input.KindToggleLook:
		s.toggleLook()
	case input.KindMoveCursor:
		if s.player.Mode == entity.ModeNormal {
			return false
		}
		s.moveCursor(in.Dir)
	default:
		return false
	}
	return true
}

// playerMove steps or bump-attacks. A blocked step costs nothing.
func (s *Session) playerMove(ctx context.Context, d world.Direction) {
	to := s.player.Pos.Add(d)

	if e := s.enemyAt(to); e != nil {
		s.info = ""
		res := s.resolver.Melee(ctx, s.player, e)
		s.report(res)
		s.endPlayerTurn(ctx)
		return
	}
	if !s.grid.Passable(to) {
		s.info = "That way is blocked."
		return
	}

	s.info = ""
	if s.player.Step(to) {
		s.endPlayerTurn(ctx)
		return
	}
	s.refreshView()
}

func (s *Session) playerReload(ctx context.Context) {
	if !s.player.Reload() {
		s.info = "Your magazine is already full."
		return
	}
	s.info = ""
	s.messages.Add("You reload.")
	s.endPlayerTurn(ctx)
}

// targets returns the live enemies the player can see within weapon range, nearest first.
func (s *Session) targets() []*entity.Enemy {
	var out []*entity.Enemy
	for _, e := range s.enemies {
		if e.IsAlive() && s.visible.Visible(e.Pos) && world.Chebyshev(s.player.Pos, e.Pos) <= s.player.Range {
			out = append(out, e)
		}
	}
	origin := s.player.Pos
	slices.SortFunc(out, func(a, b *entity.Enemy) int {
		return cmp.Or(
			cmp.Compare(world.Chebyshev(origin, a.Pos), world.Chebyshev(origin, b.Pos)),
			cmp.Compare(a.Pos.Y, b.Pos.Y),
			cmp.Compare(a.Pos.X, b.Pos.X),
		)
	})
	return out
}

// Target returns the enemy under the aim cursor, if any.
func (s *Session) Target() *entity.Enemy {
	if s.player.Mode != entity.ModeAim {
		return nil
	}
	return s.enemyAt(s.player.Cursor)
}

func (s *Session) toggleAim() {
	p := s.player
	if p.Mode == entity.ModeAim {
		p.Mode = entity.ModeNormal
		s.info = ""
		return
	}
	p.Mode = entity.ModeAim
	p.TargetIndex = 0
	p.Cursor = p.Pos
	s.info = "Aiming."
	if targets := s.targets(); len(targets) > 0 {
		p.Cursor = targets[0].Pos
	} else {
		s.info = "No targets in range."
	}
}

func (s *Session) cycleTarget() {
	p := s.player
	if p.Mode != entity.ModeAim {
		s.toggleAim()
		return
	}
	targets := s.targets()
	if len(targets) == 0 {
		s.info = "No targets in range."
		return
	}
	p.TargetIndex = (p.TargetIndex + 1) % len(targets)
	p.Cursor = targets[p.TargetIndex].Pos
	s.info = "Aiming."
}

func (s *Session) toggleLook() {
	p := s.player
	if p.Mode == entity.ModeLook {
		p.Mode = entity.ModeNormal
		s.info = ""
		return
	}
	p.Mode = entity.ModeLook
	p.Cursor = p.Pos
	s.info = s.describe(p.Cursor)
}

// moveCursor shifts the aim or look cursor, clamped to the map.
func (s *Session) moveCursor(d world.Direction) {
	p := s.player
	next := p.Cursor.Add(d)
	if !s.grid.Contains(next) {
		return
	}
	p.Cursor = next
	if p.Mode == entity.ModeLook {
		s.info = s.describe(next)
	}
}

// playerShoot fires at the aim cursor, or at the nearest target outside aim mode.
// An empty magazine reloads instead and still ends the turn.
func (s *Session) playerShoot(ctx context.Context) {
	p := s.player
	cell := p.Cursor
	if p.Mode != entity.ModeAim {
		if targets := s.targets(); len(targets) > 0 {
			cell = targets[0].Pos
		} else {
			cell = p.Pos
		}
	}

	target := s.enemyAt(cell)
	check := combat.ShotCheck{
		Ammo:          p.Ammo,
		TargetVisible: s.visible.Visible(cell),
		Distance:      world.Chebyshev(p.Pos, cell),
		Range:         p.Range,
	}
	if target != nil {
		check.Target = target
	}

	err := combat.ValidateShot(check)
	switch {
	case errors.Is(err, combat.ErrNoAmmo):
		p.Reload()
		s.info = ""
		s.messages.Add("Out of ammo. You reload.")
		s.endPlayerTurn(ctx)
	case err != nil:
		s.info = capitalize(err.Error()) + "."
	default:
		p.SpendAmmo()
		s.info = ""
		res := s.resolver.Shoot(ctx, p, target, p.RangedDamage)
		s.report(res)
		s.endPlayerTurn(ctx)
	}
}

// describe is the look-mode text for a cell.
func (s *Session) describe(c world.Point) string {
	if !s.explored.Has(c) {
		return "You haven't seen that spot."
	}
	if !s.visible.Visible(c) {
		return fmt.Sprintf("%s (remembered).", tileName(s.grid.Tile(c)))
	}
	if c == s.player.Pos {
		return "That's you."
	}
	if e := s.enemyAt(c); e != nil {
		return fmt.Sprintf("%s, %d/%d HP, %s.", e.Name, e.HP, e.MaxHP, e.State)
	}
	return tileName(s.grid.Tile(c)) + "."
}

func tileName(t world.Tile) string {
	if t == world.TileWall {
		return "A wall"
	}
	return "Floor"
}

func capitalize(msg string) string {
	if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
		return msg
	}
	return string(msg[0]-'a'+'A') + msg[1:]
}
