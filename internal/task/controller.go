// Package task runs one experiment session: it owns the snake game state
// and moves through the session FSM in response to events from the
// keyboard, the tick clock, the model bridge and the eye tracker.
package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-task/internal/clock"
	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/snake"
)

// Observer sees every envelope before the controller dispatches it, even
// the ones the current state ignores.
type Observer interface {
	Observe(env event.Envelope)
}

// FoodSource places food on cells the snake does not occupy.
type FoodSource interface {
	Spawn(grid core.Grid, occupied []core.Cell) (core.Cell, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers an observer for all inbound envelopes.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithFoodSource replaces the default seeded spawner.
func WithFoodSource(f FoodSource) Option {
	return func(c *Controller) {
		c.spawner = f
	}
}

// Controller is the session state machine. All methods must be called
// from a single goroutine; Run provides that goroutine.
type Controller struct {
	cfg      Config
	grid     core.Grid
	layout   core.Layout
	sched    clock.Scheduler
	notify   event.Notifier
	observer Observer
	spawner  FoodSource
	log      *log.Logger

	state        State
	bridgeUp     bool
	model        string
	calibrations int
	games        int

	// Current game, nil outside PLAY.
	body    *snake.Body
	food    *core.Cell
	pace    clock.Pace
	heading core.Heading
	next    core.Heading
	ready   bool
	score   int
	ticks   int
	tick    clock.Token
}

// New creates a controller in INIT.
func New(cfg Config, sched clock.Scheduler, notify event.Notifier, logger *log.Logger, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, errors.New("task: scheduler is required")
	}
	if notify == nil {
		notify = event.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		cfg:     cfg,
		grid:    core.NewGrid(cfg.BoardSize),
		layout:  core.Layout{Grid: core.NewGrid(cfg.BoardSize), CellSize: cfg.CellSize, Pad: 1},
		sched:   sched,
		notify:  notify,
		spawner: snake.NewSpawner(rand.New(rand.NewSource(cfg.Seed)), cfg.SpawnAttempts),
		log:     logger.With("component", "task"),
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current FSM state.
func (c *Controller) State() State {
	return c.state
}

// Run dispatches envelopes from in until ctx is done, the intake closes or
// a fatal error occurs. The outstanding tick is cancelled on return.
func (c *Controller) Run(ctx context.Context, in *event.Intake) error {
	defer c.cancelTick()

	for {
		env, err := in.Next(ctx)
		if err != nil {
			if errors.Is(err, event.ErrIntakeClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := c.Handle(env); err != nil {
			return err
		}
	}
}

// Handle dispatches one envelope. A non-nil error is fatal to the session.
func (c *Controller) Handle(env event.Envelope) error {
	if c.observer != nil {
		c.observer.Observe(env)
	}

	switch ev := env.Event.(type) {
	case event.SessionStartEvent:
		return c.onSessionStart(ev)
	case event.ModelEvent:
		return c.onModel(ev)
	case event.CalibrationEvent:
		return c.onCalibration(ev)
	case event.KeyEvent:
		return c.onKey(ev)
	case event.TickEvent:
		return c.onTick(ev)
	case event.GazeEvent:
		note := event.GazeObserved{Gaze: ev, State: c.state.String()}
		if c.cfg.CellSize > 0 {
			note.Cell, note.OnBoard = c.layout.CellAt(ev.X, ev.Y)
		}
		c.notify.Notify(note)
	case event.TrackerEvent:
		if ev.Connected {
			c.log.Info("eye tracker connected")
		} else {
			c.log.Warn("eye tracker disconnected", "reason", ev.Reason)
		}
		c.notify.Notify(event.TrackerStatus{Connected: ev.Connected})
	case event.UnknownEvent:
		c.log.Warn("dropping unclassified event", "source", env.Source, "tag", ev.Tag, "seq", env.Seq)
	default:
		c.log.Warn("dropping event of unknown type", "source", env.Source, "type", fmt.Sprintf("%T", env.Event))
	}
	return nil
}

func (c *Controller) onSessionStart(ev event.SessionStartEvent) error {
	if c.state != StateInit {
		c.ignore("session-start")
		return nil
	}
	c.log.Info("session starting", "player", ev.Player, "bridge", c.cfg.HasModelBridge, "eyetracker", c.cfg.HasEyetracker)

	if !c.cfg.HasModelBridge {
		return c.beginPlay()
	}
	if c.bridgeUp {
		c.enterWaitModelRun()
		return nil
	}
	c.enterWaitConnection()
	return nil
}

func (c *Controller) onModel(ev event.ModelEvent) error {
	if !c.cfg.HasModelBridge {
		c.log.Warn("model event without a model bridge", "kind", ev.Kind)
		return nil
	}

	switch ev.Kind {
	case event.ModelConnectionMade:
		c.bridgeUp = true
		if c.state == StateWaitModelConnection {
			c.enterWaitModelRun()
			return nil
		}
	case event.ModelConnectionLost:
		c.bridgeUp = false
		switch c.state {
		case StatePlay:
			c.abort("connection-lost")
			return nil
		case StateWaitModelRun, StateCalibrate, StateGameOver:
			c.enterWaitConnection()
			return nil
		}
	case event.ModelStop:
		switch c.state {
		case StatePlay:
			c.abort("model-stop")
			return nil
		case StateCalibrate, StateGameOver:
			c.enterWaitConnection()
			return nil
		}
	case event.ModelRun:
		if c.state == StateWaitModelRun {
			c.model = ev.Model
			c.notify.Notify(event.ModelReady{Model: ev.Model})
			return c.beginPlay()
		}
	case event.ModelReset:
		c.log.Info("model reset", "model", ev.Model, "state", c.state)
		return nil
	}

	c.ignore(ev.Kind.String())
	return nil
}

func (c *Controller) onCalibration(ev event.CalibrationEvent) error {
	if c.state != StateCalibrate {
		c.ignore("calibration")
		return nil
	}
	if !ev.Succeeded {
		c.log.Warn("calibration failed", "attempt", c.calibrations)
		c.enterCalibrate()
		return nil
	}
	return c.startGame()
}

func (c *Controller) onKey(ev event.KeyEvent) error {
	switch c.state {
	case StatePlay:
		h := ev.Key.Heading()
		if h == core.HeadingNone {
			return nil
		}
		if !c.ready {
			c.log.Debug("direction request after gate closed", "key", ev.Key)
			return nil
		}
		if !c.heading.Perpendicular(h) {
			c.log.Debug("direction request rejected", "key", ev.Key, "heading", c.heading)
			return nil
		}
		c.next = h
		c.ready = false
	case StateGameOver:
		if ev.Key == core.KeySpace {
			return c.startGame()
		}
	default:
		c.ignore("key:" + ev.Key.String())
	}
	return nil
}

func (c *Controller) onTick(ev event.TickEvent) error {
	if ev.Token == 0 || ev.Token != c.tick {
		c.log.Debug("dropping stale tick", "token", ev.Token, "outstanding", c.tick)
		return nil
	}
	c.tick = 0
	if c.state != StatePlay {
		c.ignore("tick")
		return nil
	}

	c.ready = true
	c.heading = c.next
	c.ticks++

	outcome := c.body.Advance(c.heading, c.food)
	switch outcome {
	case snake.Moved:
		c.notify.Notify(event.SegmentsChanged{Cells: c.body.Cells()})
	case snake.AteFood:
		c.score++
		c.pace.Speedup()
		c.notify.Notify(event.SegmentsChanged{Cells: c.body.Cells()})
		if err := c.placeFood(); err != nil {
			return err
		}
		c.notify.Notify(event.ScoreChanged{Score: c.score})
	case snake.HitWall, snake.HitSelf:
		c.enterGameOver(outcome)
		return nil
	}

	c.tick = c.sched.Schedule(c.pace.Interval)
	return nil
}

// beginPlay runs calibration first when an eye tracker is attached.
func (c *Controller) beginPlay() error {
	if c.cfg.HasEyetracker {
		c.enterCalibrate()
		return nil
	}
	return c.startGame()
}

// startGame builds a fresh body, food and pace and arms the first tick.
func (c *Controller) startGame() error {
	c.cancelTick()
	c.transition(StateIgnoreInput)

	body, err := snake.Spawn(c.grid, c.cfg.InitialLength)
	if err != nil {
		return fmt.Errorf("task: spawning snake: %w", err)
	}

	c.games++
	c.body = body
	c.pace = clock.NewPace(c.cfg.InitialInterval, c.cfg.MinInterval, c.cfg.SpeedDecay)
	c.heading = core.HeadingUp
	c.next = core.HeadingUp
	c.ready = true
	c.score = 0
	c.ticks = 0

	c.transition(StatePlay)
	c.notify.Notify(event.GameStarted{Game: c.games, BoardSize: c.grid.Size})
	c.notify.Notify(event.SegmentsChanged{Cells: body.Cells()})
	if err := c.placeFood(); err != nil {
		return err
	}
	c.notify.Notify(event.ScoreChanged{Score: 0})

	c.tick = c.sched.Schedule(c.cfg.SpawnDelay)
	return nil
}

func (c *Controller) placeFood() error {
	cell, err := c.spawner.Spawn(c.grid, c.body.Cells())
	if err != nil {
		c.log.Error("cannot place food", "err", err, "length", c.body.Len(), "board", c.grid.Size)
		return fmt.Errorf("task: placing food: %w", err)
	}
	c.food = &cell
	c.notify.Notify(event.FoodSpawned{Cell: cell})
	return nil
}

func (c *Controller) enterGameOver(outcome snake.MoveOutcome) {
	c.cancelTick()
	c.transition(StateGameOver)
	c.log.Info("game over", "game", c.games, "score", c.score, "ticks", c.ticks, "outcome", outcome)
	c.notify.Notify(event.GameOver{Game: c.games, Score: c.score, Ticks: c.ticks, Outcome: outcome})
	c.discardGame()
}

func (c *Controller) abort(reason string) {
	c.cancelTick()
	c.log.Warn("game aborted", "game", c.games, "score", c.score, "reason", reason)
	c.notify.Notify(event.GameAborted{Game: c.games, Score: c.score, Ticks: c.ticks, Reason: reason})
	c.discardGame()
	c.enterWaitConnection()
}

func (c *Controller) enterWaitConnection() {
	c.transition(StateWaitModelConnection)
	c.notify.Notify(event.WaitingForConnection{})
}

func (c *Controller) enterWaitModelRun() {
	c.transition(StateWaitModelRun)
	c.notify.Notify(event.WaitingForModelRun{})
}

func (c *Controller) enterCalibrate() {
	c.calibrations++
	c.transition(StateCalibrate)
	c.notify.Notify(event.CalibrationRequested{Attempt: c.calibrations})
}

func (c *Controller) discardGame() {
	c.body = nil
	c.food = nil
	c.ready = false
}

func (c *Controller) cancelTick() {
	if c.tick != 0 {
		c.sched.Cancel(c.tick)
		c.tick = 0
	}
}

func (c *Controller) transition(to State) {
	if to == c.state {
		return
	}
	from := c.state
	c.state = to
	c.log.Info("state change", "from", from, "to", to)
	c.notify.Notify(event.StateChanged{From: from.String(), To: to.String()})
}

func (c *Controller) ignore(what string) {
	c.log.Debug("event not valid in state", "event", what, "state", c.state)
}
