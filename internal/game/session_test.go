package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/samdwyer/shadowgrid/internal/entity"
	"github.com/samdwyer/shadowgrid/internal/fov"
	"github.com/samdwyer/shadowgrid/internal/gamedata"
	"github.com/samdwyer/shadowgrid/internal/input"
	"github.com/samdwyer/shadowgrid/internal/telemetry"
	"github.com/samdwyer/shadowgrid/internal/world"
)

// arena is one open room.
var arena = []string{
	"##############",
	"#............#",
	"#............#",
	"#............#",
	"##############",
}

// split is two rooms with a solid wall between them.
var split = []string{
	"#############",
	"#.....#.....#",
	"#.....#.....#",
	"#.....#.....#",
	"#############",
}

func testActors(t *testing.T, edit func(*gamedata.ActorsFile)) gamedata.ActorsFile {
	t.Helper()
	actors, err := gamedata.LoadActors()
	if err != nil {
		t.Fatalf("LoadActors() error = %v", err)
	}
	actors.Enemies = append([]gamedata.EnemyDef(nil), actors.Enemies...)
	if edit != nil {
		edit(&actors)
	}
	return actors
}

func newTestSession(t *testing.T, rows []string, actors gamedata.ActorsFile, player world.Point, spawns ...Spawn) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), DefaultConfig(),
		WithGrid(world.MustParse(rows...)),
		WithLayout(player, spawns...),
		WithActors(actors),
		WithRand(rand.New(rand.NewSource(1))),
		WithTracer(telemetry.NoopTracer()),
	)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

// quietSession puts the player in the left room of split with a brute that never sees it.
func quietSession(t *testing.T) *Session {
	t.Helper()
	return newTestSession(t, split, testActors(t, nil), world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(9, 2)})
}

func toughEnemies(a *gamedata.ActorsFile) {
	for i := range a.Enemies {
		a.Enemies[i].HP = 100
	}
}

func lastMessage(s *Session) string {
	recent := s.Messages().Recent(1)
	if len(recent) == 0 {
		return ""
	}
	return recent[0]
}

func TestNewSessionStartsOnPlayerTurn(t *testing.T) {
	s := quietSession(t)

	p := s.Player()
	if p.Frozen {
		t.Error("player should be unfrozen on the first turn")
	}
	if p.MovesLeft != 2 {
		t.Errorf("MovesLeft = %d, want 2", p.MovesLeft)
	}
	if s.Rounds() != 1 {
		t.Errorf("Rounds() = %d, want 1", s.Rounds())
	}
	if !s.Visible().Visible(p.Pos) || !s.Explored().Has(p.Pos) {
		t.Error("player cell should be visible and explored")
	}
	if s.Over() {
		t.Error("new session should not be over")
	}
}

func TestTwoMovesEndTheTurn(t *testing.T) {
	s := quietSession(t)
	ctx := context.Background()

	if !s.Handle(ctx, input.Move(world.East)) {
		t.Fatal("first move not handled")
	}
	if s.Player().Pos != world.Pt(2, 2) || s.Player().MovesLeft != 1 || s.Rounds() != 1 {
		t.Fatalf("after one move: pos=%v moves=%d rounds=%d", s.Player().Pos, s.Player().MovesLeft, s.Rounds())
	}

	s.Handle(ctx, input.Move(world.East))
	if s.Player().Pos != world.Pt(3, 2) {
		t.Errorf("Pos = %v, want (3,2)", s.Player().Pos)
	}
	if s.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2 after spending both moves", s.Rounds())
	}
	if s.Player().MovesLeft != 2 {
		t.Errorf("MovesLeft = %d, want a fresh budget of 2", s.Player().MovesLeft)
	}
}

func TestBlockedMoveCostsNothing(t *testing.T) {
	s := quietSession(t)

	if !s.Handle(context.Background(), input.Move(world.West)) {
		t.Fatal("blocked move should still be handled")
	}
	if s.Player().Pos != world.Pt(1, 2) {
		t.Errorf("player moved into a wall: %v", s.Player().Pos)
	}
	if s.Player().MovesLeft != 2 || s.Rounds() != 1 {
		t.Errorf("blocked move spent a move: moves=%d rounds=%d", s.Player().MovesLeft, s.Rounds())
	}
	if s.Info() == "" {
		t.Error("expected a reason in Info()")
	}
}

func TestFrozenPlayerIgnoresIntents(t *testing.T) {
	s := quietSession(t)
	s.Player().Frozen = true

	if s.Handle(context.Background(), input.Move(world.East)) {
		t.Error("Handle() = true while frozen")
	}
	if s.Player().Pos != world.Pt(1, 2) {
		t.Error("frozen player moved")
	}
}

func TestControllerIntentsNotHandledBySession(t *testing.T) {
	s := quietSession(t)
	for _, k := range []input.Kind{input.KindRestart, input.KindQuit, input.KindNone} {
		if s.Handle(context.Background(), input.Of(k)) {
			t.Errorf("Handle(%v) = true, want false", k)
		}
	}
}

func TestMeleeKillWinsSession(t *testing.T) {
	actors := testActors(t, func(a *gamedata.ActorsFile) { a.Enemies[0].HP = 1 })
	s := newTestSession(t, arena, actors, world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(2, 2)})

	s.Handle(context.Background(), input.Move(world.East))

	if !s.Won() || !s.Over() {
		t.Fatalf("Status() = %v, want won", s.Status())
	}
	if len(s.Enemies()) != 0 {
		t.Errorf("Enemies() = %d, want 0", len(s.Enemies()))
	}
	if s.Player().Pos != world.Pt(1, 2) {
		t.Error("bump attack should not move the player")
	}

	var died bool
	for _, m := range s.Messages().Entries() {
		if m == "Brute dies." {
			died = true
		}
	}
	if !died {
		t.Errorf("missing death message in %v", s.Messages().Entries())
	}
	if s.Handle(context.Background(), input.Move(world.East)) {
		t.Error("intents should be ignored once the session is won")
	}
}

func TestBruteBumpEndsWholeTurn(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, toughEnemies), world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(2, 2)})

	s.Handle(context.Background(), input.Move(world.East))
	if s.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2: melee ends the turn even with moves left", s.Rounds())
	}
}

func TestBruteKillsPlayer(t *testing.T) {
	actors := testActors(t, func(a *gamedata.ActorsFile) {
		a.Player.HP = 1
		toughEnemies(a)
	})
	s := newTestSession(t, arena, actors, world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(2, 2)})

	s.Handle(context.Background(), input.Of(input.KindWait))

	if !s.Lost() {
		t.Fatalf("Status() = %v, want lost", s.Status())
	}
	if !s.Player().IsDead() || !s.Player().Frozen {
		t.Error("dead player should be frozen")
	}
	if s.sched.Len() != 0 {
		t.Errorf("scheduler holds %d actors after death, want 0", s.sched.Len())
	}
	if got := lastMessage(s); got != "You died." {
		t.Errorf("last message = %q", got)
	}
	if s.Handle(context.Background(), input.Of(input.KindWait)) {
		t.Error("intents should be ignored once the player is dead")
	}
}

func TestBrutePursues(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, toughEnemies), world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(7, 2)})

	s.Handle(context.Background(), input.Of(input.KindWait))

	b := s.Enemies()[0]
	if b.Pos != world.Pt(6, 2) {
		t.Errorf("brute at %v, want (6,2)", b.Pos)
	}
	if b.State != entity.StatePursue || !b.Aggro {
		t.Errorf("state = %v aggro = %v, want pursue with aggro", b.State, b.Aggro)
	}
}

func TestBruteReturnsToSpawn(t *testing.T) {
	s := newTestSession(t, split, testActors(t, toughEnemies), world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(5, 2)})
	ctx := context.Background()

	s.Handle(ctx, input.Of(input.KindWait))
	b := s.Enemies()[0]
	if b.Pos != world.Pt(4, 2) {
		t.Fatalf("brute at %v, want (4,2)", b.Pos)
	}

	// Put the player out of sight in the other room.
	s.player.Pos = world.Pt(9, 2)
	s.refreshView()

	s.Handle(ctx, input.Of(input.KindWait))
	if b.Pos != b.Spawn {
		t.Errorf("brute at %v, want back on spawn %v", b.Pos, b.Spawn)
	}
	if b.State != entity.StateIdle || b.Aggro {
		t.Errorf("state = %v aggro = %v, want idle without aggro", b.State, b.Aggro)
	}
}

func TestGunmanShootsInRange(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, toughEnemies), world.Pt(1, 2), Spawn{Kind: "gunman", Pos: world.Pt(4, 2)})

	s.Handle(context.Background(), input.Of(input.KindWait))

	g := s.Enemies()[0]
	if g.Pos != world.Pt(4, 2) {
		t.Errorf("gunman moved to %v instead of shooting", g.Pos)
	}
	if g.State != entity.StateRanged {
		t.Errorf("state = %v, want ranged", g.State)
	}
	if got := lastMessage(s); !strings.HasPrefix(got, "Gunman shot") {
		t.Errorf("last message = %q, want a gunman shot", got)
	}
	if hp := s.Player().HP; hp != 10 && hp != 9 {
		t.Errorf("player HP = %d, want 10 or 9", hp)
	}
}

func TestShootKillsTarget(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, nil), world.Pt(1, 2), Spawn{Kind: "gunman", Pos: world.Pt(4, 2)})
	ctx := context.Background()

	s.Handle(ctx, input.Of(input.KindToggleAim))
	if s.Player().Cursor != world.Pt(4, 2) {
		t.Fatalf("cursor = %v, want on the gunman", s.Player().Cursor)
	}
	if s.Target() == nil {
		t.Fatal("Target() = nil while aiming at the gunman")
	}

	s.Handle(ctx, input.Of(input.KindConfirmShot))
	if s.Player().Ammo != 5 {
		t.Errorf("Ammo = %d, want 5", s.Player().Ammo)
	}
	if !s.Won() {
		t.Errorf("Status() = %v, want won", s.Status())
	}
	if s.Player().Mode != entity.ModeNormal {
		t.Error("aim mode should end with the turn")
	}
}

func TestEmptyMagazineReloads(t *testing.T) {
	s := newTestSession(t, split, testActors(t, nil), world.Pt(1, 2), Spawn{Kind: "gunman", Pos: world.Pt(9, 2)})
	s.Player().Ammo = 0

	s.Handle(context.Background(), input.Of(input.KindConfirmShot))

	if s.Player().Ammo != s.Player().AmmoMax {
		t.Errorf("Ammo = %d, want %d", s.Player().Ammo, s.Player().AmmoMax)
	}
	if s.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2: reloading ends the turn", s.Rounds())
	}
	if hp := s.Enemies()[0].HP; hp != 3 {
		t.Errorf("gunman HP = %d, want 3", hp)
	}
	if got := lastMessage(s); got != "Out of ammo. You reload." {
		t.Errorf("last message = %q", got)
	}
}

func TestRefusedShots(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		enemy  world.Point
		cursor world.Point
		want   string
	}{
		{"out of range", arena, world.Pt(10, 2), world.Pt(10, 2), "Target is out of range."},
		{"not visible", split, world.Pt(9, 2), world.Pt(9, 2), "You can't see that spot."},
		{"empty cell", split, world.Pt(9, 2), world.Pt(3, 2), "Nothing to shoot there."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.rows, testActors(t, nil), world.Pt(1, 2), Spawn{Kind: "gunman", Pos: tt.enemy})
			ctx := context.Background()

			s.Handle(ctx, input.Of(input.KindToggleAim))
			s.Player().Cursor = tt.cursor
			s.Handle(ctx, input.Of(input.KindConfirmShot))

			if s.Info() != tt.want {
				t.Errorf("Info() = %q, want %q", s.Info(), tt.want)
			}
			if s.Player().Ammo != 6 {
				t.Errorf("Ammo = %d, refused shot spent a round", s.Player().Ammo)
			}
			if s.Rounds() != 1 {
				t.Errorf("Rounds() = %d, refused shot ended the turn", s.Rounds())
			}
		})
	}
}

func TestReload(t *testing.T) {
	s := quietSession(t)
	ctx := context.Background()

	s.Handle(ctx, input.Of(input.KindReload))
	if s.Rounds() != 1 || s.Info() == "" {
		t.Errorf("reloading a full magazine: rounds=%d info=%q", s.Rounds(), s.Info())
	}

	s.Player().Ammo = 2
	s.Handle(ctx, input.Of(input.KindReload))
	if s.Player().Ammo != 6 || s.Rounds() != 2 {
		t.Errorf("after reload: ammo=%d rounds=%d", s.Player().Ammo, s.Rounds())
	}
}

func TestCycleTargetsNearestFirst(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, nil), world.Pt(1, 2),
		Spawn{Kind: "gunman", Pos: world.Pt(5, 2)},
		Spawn{Kind: "gunman", Pos: world.Pt(3, 2)},
	)
	ctx := context.Background()

	s.Handle(ctx, input.Of(input.KindToggleAim))
	want := []world.Point{world.Pt(3, 2), world.Pt(5, 2), world.Pt(3, 2)}
	for i, w := range want {
		if i > 0 {
			s.Handle(ctx, input.Of(input.KindCycleTarget))
		}
		if s.Player().Cursor != w {
			t.Errorf("step %d: cursor = %v, want %v", i, s.Player().Cursor, w)
		}
	}

	s.Handle(ctx, input.Of(input.KindToggleAim))
	if s.Player().Mode != entity.ModeNormal || s.Target() != nil {
		t.Error("toggling aim again should leave aim mode")
	}
}

func TestLookMode(t *testing.T) {
	s := quietSession(t)
	ctx := context.Background()

	s.Handle(ctx, input.Of(input.KindToggleLook))
	if s.Info() != "That's you." {
		t.Errorf("Info() = %q", s.Info())
	}

	s.Handle(ctx, input.Move(world.East))
	if s.Player().Pos != world.Pt(1, 2) {
		t.Error("moves in look mode should steer the cursor, not the player")
	}
	if s.Player().Cursor != world.Pt(2, 2) || s.Info() != "Floor." {
		t.Errorf("cursor = %v info = %q", s.Player().Cursor, s.Info())
	}

	s.Handle(ctx, input.MoveCursor(world.West))
	s.Handle(ctx, input.MoveCursor(world.West))
	if s.Info() != "A wall." {
		t.Errorf("Info() = %q, want wall", s.Info())
	}

	s.Handle(ctx, input.Of(input.KindToggleLook))
	if s.Player().Mode != entity.ModeNormal || s.Rounds() != 1 {
		t.Error("look mode should toggle off without spending the turn")
	}
}

func TestCursorMoveOutsideCursorMode(t *testing.T) {
	s := quietSession(t)
	if s.Handle(context.Background(), input.MoveCursor(world.East)) {
		t.Error("cursor move in normal mode should be ignored")
	}
}

func TestRandomPlacement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	positions := func() []world.Point {
		s, err := NewSession(context.Background(), cfg, WithTracer(telemetry.NoopTracer()))
		if err != nil {
			t.Fatalf("NewSession() error = %v", err)
		}
		seen := map[world.Point]bool{s.Player().Pos: true}
		if !s.Grid().Passable(s.Player().Pos) {
			t.Errorf("player on %v which is not floor", s.Player().Pos)
		}
		out := []world.Point{s.Player().Pos}
		for _, e := range s.Enemies() {
			if !s.Grid().Passable(e.Pos) {
				t.Errorf("enemy on %v which is not floor", e.Pos)
			}
			if seen[e.Pos] {
				t.Errorf("two actors share %v", e.Pos)
			}
			seen[e.Pos] = true
			out = append(out, e.Pos)
		}
		if len(s.Enemies()) != cfg.EnemyCount {
			t.Errorf("Enemies() = %d, want %d", len(s.Enemies()), cfg.EnemyCount)
		}
		return out
	}

	first, second := positions(), positions()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed placed actor %d at %v and %v", i, first[i], second[i])
		}
	}
}

func TestPlacementErrors(t *testing.T) {
	ctx := context.Background()
	noop := WithTracer(telemetry.NoopTracer())

	_, err := NewSession(ctx, DefaultConfig(), noop, WithGrid(world.MustParse("###", "###", "###")))
	if !errors.Is(err, ErrNoFloor) {
		t.Errorf("all-wall map error = %v, want ErrNoFloor", err)
	}

	_, err = NewSession(ctx, DefaultConfig(), noop, WithGrid(world.MustParse(arena...)), WithLayout(world.Pt(0, 0)))
	if !errors.Is(err, ErrBadLayout) {
		t.Errorf("player on wall error = %v, want ErrBadLayout", err)
	}

	_, err = NewSession(ctx, DefaultConfig(), noop, WithGrid(world.MustParse(arena...)),
		WithLayout(world.Pt(1, 1), Spawn{Kind: "brute", Pos: world.Pt(1, 1)}))
	if !errors.Is(err, ErrBadLayout) {
		t.Errorf("shared cell error = %v, want ErrBadLayout", err)
	}

	_, err = NewSession(ctx, DefaultConfig(), noop, WithGrid(world.MustParse(arena...)),
		WithLayout(world.Pt(1, 1), Spawn{Kind: "dragon", Pos: world.Pt(2, 1)}))
	if !errors.Is(err, ErrBadLayout) {
		t.Errorf("unknown kind error = %v, want ErrBadLayout", err)
	}
}

func TestFrameSnapshot(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, nil), world.Pt(1, 2), Spawn{Kind: "gunman", Pos: world.Pt(4, 2)})

	f := s.Frame(3)
	if f.Cursor != nil || f.Target != nil {
		t.Error("normal mode frame should have no cursor or target")
	}
	if len(f.Enemies) != 1 || f.Player != s.Player() {
		t.Error("frame should carry the actors")
	}

	s.Handle(context.Background(), input.Of(input.KindToggleAim))
	f = s.Frame(3)
	if f.Cursor == nil || *f.Cursor != world.Pt(4, 2) {
		t.Errorf("aim frame cursor = %v", f.Cursor)
	}
	if f.Target == nil {
		t.Error("aim frame should highlight the target")
	}
}

func TestNoEnemiesIsWon(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, nil), world.Pt(1, 2))

	if !s.Won() || !s.Over() {
		t.Fatalf("Status() = %v, want won with no enemies", s.Status())
	}
	if s.Handle(context.Background(), input.Of(input.KindWait)) {
		t.Error("intents should be ignored on a won session")
	}

	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.EnemyCount = 0
	r, err := NewSession(context.Background(), cfg, WithTracer(telemetry.NoopTracer()))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if !r.Won() {
		t.Errorf("random map with zero enemies: Status() = %v, want won", r.Status())
	}
}

// wideRoom is a 12x10 room with nothing inside.
var wideRoom = []string{
	"############",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"############",
}

func TestDiagonalSightingAggros(t *testing.T) {
	s := newTestSession(t, wideRoom, testActors(t, toughEnemies), world.Pt(7, 7), Spawn{Kind: "brute", Pos: world.Pt(1, 1)})

	s.Handle(context.Background(), input.Of(input.KindWait))

	b := s.Enemies()[0]
	if !b.Aggro || b.State != entity.StatePursue {
		t.Fatalf("brute six tiles away on the diagonal: aggro=%v state=%v, want pursue", b.Aggro, b.State)
	}
	if got := world.Manhattan(b.Pos, s.Player().Pos); got != 11 {
		t.Errorf("Manhattan distance after one step = %d, want 11", got)
	}
}

// dead end: the rear brute's only way toward the player is through the front brute.
var deadEnd = []string{
	"######",
	"#...##",
	"###.##",
	"######",
}

// fork: the rear brute can sidestep north or south.
var fork = []string{
	"######",
	"###.##",
	"#...##",
	"###.##",
	"######",
}

func TestBlockedEnemyFallsBackToOpenNeighbor(t *testing.T) {
	s := newTestSession(t, deadEnd, testActors(t, toughEnemies), world.Pt(1, 1),
		Spawn{Kind: "brute", Pos: world.Pt(2, 1)},
		Spawn{Kind: "brute", Pos: world.Pt(3, 1)},
	)

	s.Handle(context.Background(), input.Of(input.KindWait))

	front, rear := s.Enemies()[0], s.Enemies()[1]
	if front.Pos != world.Pt(2, 1) {
		t.Errorf("front brute at %v, want it to attack from (2,1)", front.Pos)
	}
	if rear.Pos != world.Pt(3, 2) {
		t.Errorf("rear brute at %v, want the only open neighbor (3,2)", rear.Pos)
	}
}

func TestFallbackStepIsSeeded(t *testing.T) {
	run := func() world.Point {
		s := newTestSession(t, fork, testActors(t, toughEnemies), world.Pt(1, 2),
			Spawn{Kind: "brute", Pos: world.Pt(2, 2)},
			Spawn{Kind: "brute", Pos: world.Pt(3, 2)},
		)
		s.Handle(context.Background(), input.Of(input.KindWait))

		rear := s.Enemies()[1]
		if !s.Grid().Passable(rear.Pos) {
			t.Errorf("fallback step onto wall %v", rear.Pos)
		}
		if rear.Pos == s.Player().Pos || rear.Pos == s.Enemies()[0].Pos {
			t.Errorf("fallback step onto an occupied cell %v", rear.Pos)
		}
		if rear.Pos != world.Pt(3, 1) && rear.Pos != world.Pt(3, 3) {
			t.Errorf("rear brute at %v, want a sidestep to (3,1) or (3,3)", rear.Pos)
		}
		return rear.Pos
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed gave different fallback steps: %v and %v", a, b)
	}
}

func TestViewTracksEnemyMoves(t *testing.T) {
	s := newTestSession(t, arena, testActors(t, toughEnemies), world.Pt(1, 2), Spawn{Kind: "brute", Pos: world.Pt(8, 2)})

	s.Handle(context.Background(), input.Of(input.KindWait))

	b := s.Enemies()[0]
	if b.Pos == world.Pt(8, 2) {
		t.Fatal("brute should have closed in")
	}
	if !s.Visible().Visible(b.Pos) {
		t.Errorf("brute at %v is not in the refreshed view", b.Pos)
	}
	want := fov.Compute(s.Grid(), s.Player().Pos, s.Player().Vision)
	if len(s.Visible()) != len(want) {
		t.Errorf("view has %d cells, want %d", len(s.Visible()), len(want))
	}
}
