package game

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/shadowgrid/internal/entity"
	"github.com/samdwyer/shadowgrid/internal/input"
	"github.com/samdwyer/shadowgrid/internal/telemetry"
	"github.com/samdwyer/shadowgrid/internal/ui"
)

// logLines is how many messages are shown under the HUD.
const logLines = 5

// Game owns the terminal and the current session.
type Game struct {
	cfg      Config
	log      logrus.FieldLogger
	tracer   trace.Tracer
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	opts     []Option
	running  bool
}

// New opens the terminal and creates a controller. Extra options are passed to every session.
func New(cfg Config, log logrus.FieldLogger, opts ...Option) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(cfg, log, screen, opts...), nil
}

// NewWithScreen creates a controller on an already initialized screen.
func NewWithScreen(cfg Config, log logrus.FieldLogger, screen *ui.Screen, opts ...Option) *Game {
	return &Game{
		cfg:      cfg,
		log:      log,
		tracer:   telemetry.Tracer("game"),
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		opts:     append([]Option{WithLogger(log)}, opts...),
		running:  true,
	}
}

// Session returns the current session.
func (g *Game) Session() *Session {
	return g.session
}

// Run starts a session and processes input until the player quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	if err := g.restart(ctx); err != nil {
		return err
	}

	for g.running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		g.render()

		ev := g.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := g.handleEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// restart throws away the current session and starts a fresh one.
func (g *Game) restart(ctx context.Context) error {
	s, err := NewSession(ctx, g.cfg, g.opts...)
	if err != nil {
		return err
	}
	g.session = s
	g.log.WithField("component", "controller").Info("new session")
	return nil
}

func (g *Game) render() {
	g.renderer.Render(g.session.Frame(logLines))
}

// handleEvent processes a single terminal event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		cursorMode := g.session.Player().Mode != entity.ModeNormal
		in, ok := input.FromKey(ev, cursorMode)
		if !ok {
			return nil
		}
		return g.dispatch(ctx, in)
	}
	return nil
}

// dispatch routes controller intents itself and hands the rest to the session.
func (g *Game) dispatch(ctx context.Context, in input.Intent) error {
	ctx, span := g.tracer.Start(ctx, "game.intent")
	defer span.End()
	span.SetAttributes(attribute.String("intent", in.Kind.String()))

	switch in.Kind {
	case input.KindQuit:
		g.running = false
		return nil
	case input.KindRestart:
		return g.restart(ctx)
	}

	handled := g.session.Handle(ctx, in)
	span.SetAttributes(attribute.Bool("handled", handled))
	return nil
}
