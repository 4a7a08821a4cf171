package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/shadowgrid/internal/combat"
	"github.com/samdwyer/shadowgrid/internal/entity"
	"github.com/samdwyer/shadowgrid/internal/fov"
	"github.com/samdwyer/shadowgrid/internal/gamedata"
	"github.com/samdwyer/shadowgrid/internal/logging"
	"github.com/samdwyer/shadowgrid/internal/telemetry"
	"github.com/samdwyer/shadowgrid/internal/turn"
	"github.com/samdwyer/shadowgrid/internal/ui"
	"github.com/samdwyer/shadowgrid/internal/world"
)

var (
	// ErrNoFloor is returned when the map has no free floor cell for the player.
	ErrNoFloor = errors.New("no free floor cell for the player")
	// ErrBadLayout is returned when a fixed layout puts an actor on a wall or on another actor.
	ErrBadLayout = errors.New("invalid actor layout")
)

// playerPlacementAttempts is how many random cells are tried before scanning the floor in order.
const playerPlacementAttempts = 1000

// minMapSize is the smallest generated map edge that leaves room for a floor cell inside the border.
const minMapSize = 3

// Spawn places one enemy of the given kind at a fixed cell.
type Spawn struct {
	Kind string // Enemy ID from actors.json
	Pos  world.Point
}

type layout struct {
	player  world.Point
	enemies []Spawn
}

// Option configures a Session.
type Option func(*Session)

// WithGrid uses a prebuilt map instead of generating one.
func WithGrid(g *world.Grid) Option {
	return func(s *Session) { s.grid = g }
}

// WithLayout places the player and enemies at fixed cells instead of random ones.
func WithLayout(player world.Point, enemies ...Spawn) Option {
	return func(s *Session) { s.layout = &layout{player: player, enemies: enemies} }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) { s.log = log }
}

// WithTracer sets the tracer used for session spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// WithRand sets the random source shared by generation, spawning and combat.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithActors overrides the embedded actor definitions.
func WithActors(actors gamedata.ActorsFile) Option {
	return func(s *Session) { s.actors = &actors }
}

// Session is one play-through: a map, its actors and the turn loop.
// It is driven entirely by Handle and is not safe for concurrent use.
type Session struct {
	cfg    Config
	log    logrus.FieldLogger
	tracer trace.Tracer
	rng    *rand.Rand
	actors *gamedata.ActorsFile
	kinds  *gamedata.EnemyRegistry
	layout *layout

	grid     *world.Grid
	player   *entity.Player
	enemies  []*entity.Enemy
	sched    *turn.Scheduler[entity.Actor]
	resolver *combat.Resolver

	visible  fov.Result
	explored fov.Explored
	messages *MessageLog
	deaths   []string // Death notes held until the attack that caused them is logged
	info     string
	status   Status
	rounds   int
}

// NewSession builds a map, places the actors and runs the scheduler up to the player's first turn.
func NewSession(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer("game")
	}
	if s.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
	if s.actors == nil {
		actors, err := gamedata.LoadActors()
		if err != nil {
			return nil, err
		}
		s.actors = &actors
	}

	s.kinds = gamedata.NewEnemyRegistry(s.actors.Enemies)

	ctx, span := s.tracer.Start(ctx, "session.init")
	defer span.End()

	if s.grid == nil {
		if cfg.Width < minMapSize || cfg.Height < minMapSize {
			return nil, fmt.Errorf("map size %dx%d is below the %dx%d minimum", cfg.Width, cfg.Height, minMapSize, minMapSize)
		}
		s.grid = world.Generate(ctx, cfg.Width, cfg.Height, s.rng)
	}

	var err error
	if s.layout != nil {
		err = s.placeFixed()
	} else {
		err = s.placeRandom()
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.messages = NewMessageLog(s.log)
	s.explored = fov.NewExplored()
	s.resolver = combat.NewResolver(s.rng, combat.Rules{
		MeleeMin:        s.actors.Player.MeleeMin,
		MeleeMax:        s.actors.Player.MeleeMax,
		EnemyHitChance:  combat.DefaultRules().EnemyHitChance,
		EnemyShotDamage: combat.DefaultRules().EnemyShotDamage,
	}, s.handleDeath)

	s.sched = turn.NewScheduler[entity.Actor]()
	s.sched.Add(s.player)
	for _, e := range s.enemies {
		s.sched.Add(e)
	}

	span.SetAttributes(
		attribute.Int("grid.width", s.grid.Width),
		attribute.Int("grid.height", s.grid.Height),
		attribute.Int("enemies", len(s.enemies)),
		attribute.String("player.pos", s.player.Pos.String()),
	)
	s.log.WithFields(logrus.Fields{
		"component": "session",
		"width":     s.grid.Width,
		"height":    s.grid.Height,
		"enemies":   len(s.enemies),
		"player":    s.player.Pos.String(),
	}).Info("session started")

	if len(s.enemies) == 0 {
		s.status = StatusWon
		s.messages.Add("No enemies on this map. You win!")
	}

	s.refreshView()
	s.advance(ctx)
	return s, nil
}

func (s *Session) newPlayer(pos world.Point) {
	s.player = entity.NewPlayer(&s.actors.Player, pos)
	if s.cfg.PlayerVision > 0 {
		s.player.Vision = s.cfg.PlayerVision
	}
}

func (s *Session) newEnemy(def *gamedata.EnemyDef, pos world.Point) {
	e := entity.NewEnemy(def, pos)
	if s.cfg.EnemyVision > 0 {
		e.Vision = s.cfg.EnemyVision
	}
	s.enemies = append(s.enemies, e)
}

// placeRandom samples enemy cells from the floor without replacement, then finds the player a free cell.
func (s *Session) placeRandom() error {
	floor := s.grid.FloorCells()
	if len(floor) == 0 {
		return ErrNoFloor
	}

	for i := 0; i < s.cfg.EnemyCount && len(floor) > 0; i++ {
		def := s.kinds.SpawnRandom(s.rng)
		if def == nil {
			break
		}
		idx := s.rng.Intn(len(floor))
		pos := floor[idx]
		floor[idx] = floor[len(floor)-1]
		floor = floor[:len(floor)-1]
		s.newEnemy(def, pos)
	}

	for range playerPlacementAttempts {
		p := world.Pt(s.rng.Intn(s.grid.Width), s.rng.Intn(s.grid.Height))
		if s.grid.Passable(p) && s.enemyAt(p) == nil {
			s.newPlayer(p)
			return nil
		}
	}
	for _, p := range s.grid.FloorCells() {
		if s.enemyAt(p) == nil {
			s.newPlayer(p)
			return nil
		}
	}
	return ErrNoFloor
}

func (s *Session) placeFixed() error {
	if !s.grid.Passable(s.layout.player) {
		return fmt.Errorf("%w: player on %s is not floor", ErrBadLayout, s.layout.player)
	}
	taken := map[world.Point]bool{s.layout.player: true}
	for _, sp := range s.layout.enemies {
		def := s.kinds.Lookup(sp.Kind)
		if def == nil {
			return fmt.Errorf("%w: unknown enemy kind %q", ErrBadLayout, sp.Kind)
		}
		if !s.grid.Passable(sp.Pos) || taken[sp.Pos] {
			return fmt.Errorf("%w: %s on %s is not free floor", ErrBadLayout, sp.Kind, sp.Pos)
		}
		taken[sp.Pos] = true
		s.newEnemy(def, sp.Pos)
	}
	s.newPlayer(s.layout.player)
	return nil
}

// advance runs turns until it is the player's move again or no one is left to act.
func (s *Session) advance(ctx context.Context) {
	// Each actor gets at most one turn before the player comes up again.
	limit := s.sched.Len() + 1
	for range limit {
		a, ok := s.sched.Next()
		if !ok {
			return
		}
		if a.IsPlayer() {
			s.rounds++
			s.player.BeginTurn()
			s.refreshView()
			return
		}
		e, ok := a.(*entity.Enemy)
		if !ok {
			continue
		}
		s.enemyTurn(ctx, e)
		s.refreshView()
		if s.player.IsDead() {
			return
		}
	}
	s.log.WithField("component", "session").Warn("turn loop ended without reaching the player")
}

// endPlayerTurn freezes the player and lets every enemy act.
func (s *Session) endPlayerTurn(ctx context.Context) {
	s.player.EndTurn()
	s.refreshView()
	s.advance(ctx)
}

// refreshView recomputes the player's field of view and grows the explored set.
func (s *Session) refreshView() {
	s.visible = fov.Compute(s.grid, s.player.Pos, s.player.Vision)
	s.explored.Merge(s.visible)
}

// handleDeath is the combat death callback. It runs once per victim.
func (s *Session) handleDeath(ctx context.Context, victim combat.Combatant) {
	switch v := victim.(type) {
	case *entity.Player:
		v.Die()
		s.sched.Clear()
		s.status = StatusLost
		s.deaths = append(s.deaths, "You died.")
		trace.SpanFromContext(ctx).AddEvent("player.died")

	case *entity.Enemy:
		s.sched.Remove(v.ID())
		for i, e := range s.enemies {
			if e == v {
				s.enemies = append(s.enemies[:i], s.enemies[i+1:]...)
				break
			}
		}
		s.deaths = append(s.deaths, fmt.Sprintf("%s dies.", v.Name))
		trace.SpanFromContext(ctx).AddEvent("enemy.died", trace.WithAttributes(attribute.String("enemy", v.Name)))
		if len(s.enemies) == 0 && s.status == StatusPlaying {
			s.status = StatusWon
			s.deaths = append(s.deaths, "All enemies are down. You win!")
		}
	}
}

// report logs an attack, then any deaths it caused.
func (s *Session) report(res combat.Result) {
	s.messages.Add(res.Message)
	for _, msg := range s.deaths {
		s.messages.Add(msg)
	}
	s.deaths = s.deaths[:0]
}

func (s *Session) enemyAt(p world.Point) *entity.Enemy {
	for _, e := range s.enemies {
		if e.Pos == p && e.IsAlive() {
			return e
		}
	}
	return nil
}

// Status returns whether the session is still being played.
func (s *Session) Status() Status { return s.status }

// Won reports whether no enemy is left alive, including a map that started without any.
func (s *Session) Won() bool { return s.status == StatusWon }

// Lost reports whether the player is dead.
func (s *Session) Lost() bool { return s.status == StatusLost }

// Over reports whether the session has ended either way.
func (s *Session) Over() bool { return s.status != StatusPlaying }

// Grid returns the map.
func (s *Session) Grid() *world.Grid { return s.grid }

// Player returns the player.
func (s *Session) Player() *entity.Player { return s.player }

// Enemies returns the live enemies.
func (s *Session) Enemies() []*entity.Enemy {
	return append([]*entity.Enemy(nil), s.enemies...)
}

// Visible returns the player's current field of view.
func (s *Session) Visible() fov.Result { return s.visible }

// Explored returns every cell the player has seen.
func (s *Session) Explored() fov.Explored { return s.explored }

// Info returns the current status line, such as why the last intent was refused.
func (s *Session) Info() string { return s.info }

// Messages returns the event log.
func (s *Session) Messages() *MessageLog { return s.messages }

// Rounds returns how many player turns have started.
func (s *Session) Rounds() int { return s.rounds }

// Frame snapshots the session for drawing, with up to logLines messages.
func (s *Session) Frame(logLines int) ui.Frame {
	f := ui.Frame{
		Grid:     s.grid,
		Visible:  s.visible,
		Explored: s.explored,
		Player:   s.player,
		Enemies:  s.Enemies(),
		Target:   s.Target(),
		Info:     s.info,
		Log:      s.messages.Recent(logLines),
	}
	if s.player.Mode != entity.ModeNormal {
		cursor := s.player.Cursor
		f.Cursor = &cursor
	}
	return f
}
