// Package session assembles one experiment run: the intake, the tick
// timer, the controller, the producers the player needs and the sinks
// that watch the controller.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/snake-task/internal/bridge"
	"github.com/vovakirdan/snake-task/internal/clock"
	"github.com/vovakirdan/snake-task/internal/config"
	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/registry"
	"github.com/vovakirdan/snake-task/internal/storage"
	"github.com/vovakirdan/snake-task/internal/task"
)

// DefaultNotificationBuffer is the presenter queue size.
const DefaultNotificationBuffer = 512

// Option configures a Session.
type Option func(*Session)

// WithStore records the session into store.
func WithStore(store *storage.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithRemote tags the recorded session with the remote participant.
func WithRemote(remote string) Option {
	return func(s *Session) {
		s.remote = remote
	}
}

// WithNotifier adds a sink that sees every notification.
func WithNotifier(n event.Notifier) Option {
	return func(s *Session) {
		s.extra = append(s.extra, n)
	}
}

// Session owns everything one run needs. Keyboard input is pushed with
// Push; the presenter reads Notifications.
type Session struct {
	ID     string
	Player registry.Player

	exp    config.Experiment
	cfg    task.Config
	log    *log.Logger
	store  *storage.Store
	remote string
	extra  []event.Notifier

	intake   *event.Intake
	timer    *clock.Timer
	sink     *event.ChannelSink
	ctrl     *task.Controller
	model    *bridge.ModelBridge
	tracker  *bridge.Eyetracker
	recorder *storage.Recorder
}

// New builds a session for player. Nothing runs until Run is called.
func New(exp config.Experiment, player registry.Player, logger *log.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		ID:     uuid.NewString(),
		Player: player,
		exp:    exp,
		intake: event.NewIntake(event.DefaultIntakeSize),
		sink:   event.NewChannelSink(DefaultNotificationBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.With("session", s.ID, "player", player.ID)

	s.cfg = exp.TaskConfig()
	player.Apply(&s.cfg)
	if s.cfg.Seed == 0 {
		s.cfg.Seed = time.Now().UnixNano()
	}

	s.timer = clock.NewTimer(func(tok clock.Token) {
		s.intake.Push(event.SourceClock, event.TickEvent{Token: tok})
	})

	sinks := event.Fanout{s.sink}
	var taskOpts []task.Option

	if s.cfg.HasModelBridge {
		s.model = bridge.NewModelBridge(s.intake, exp.ModelBridge.Path, s.log)
		sinks = append(sinks, s.model)
	}
	if s.cfg.HasEyetracker {
		s.tracker = bridge.NewEyetracker(s.intake, s.log)
	}
	if s.store != nil {
		err := s.store.StartSession(storage.Session{
			ID:        s.ID,
			Player:    player.ID,
			BoardSize: s.cfg.BoardSize,
			Remote:    s.remote,
			StartedAt: time.Now(),
		})
		if err != nil {
			s.timer.Stop()
			return nil, fmt.Errorf("session: %w", err)
		}
		s.recorder = storage.NewRecorder(s.store, s.ID, s.log)
		sinks = append(sinks, s.recorder)
		taskOpts = append(taskOpts, task.WithObserver(s.recorder))
	}
	sinks = append(sinks, s.extra...)

	ctrl, err := task.New(s.cfg, s.timer, sinks, s.log, taskOpts...)
	if err != nil {
		s.timer.Stop()
		if s.recorder != nil {
			s.recorder.Close()
		}
		return nil, fmt.Errorf("session: %w", err)
	}
	s.ctrl = ctrl
	return s, nil
}

// Config returns the controller config the session runs with.
func (s *Session) Config() task.Config {
	return s.cfg
}

// Notifications is the presenter's view of the controller.
func (s *Session) Notifications() *event.ChannelSink {
	return s.sink
}

// Push delivers an event from a local producer such as the keyboard.
func (s *Session) Push(src event.Source, e event.Event) bool {
	return s.intake.Push(src, e)
}

// Run starts the producers, requests the session start and runs the
// controller until ctx is done, Close is called or a fatal error occurs.
// Everything is torn down before Run returns.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.model != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.model.ListenAndServe(ctx, s.exp.ModelBridge.Address); err != nil {
				s.log.Warn("model bridge stopped", "err", err)
			}
		}()
	}
	if s.tracker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.tracker.Listen(ctx, s.exp.Eyetracker.Listen); err != nil {
				s.log.Warn("eye tracker stopped", "err", err)
			}
		}()
	}

	s.log.Info("session started", "board", s.cfg.BoardSize, "bridge", s.cfg.HasModelBridge, "eyetracker", s.cfg.HasEyetracker)
	s.intake.Push(event.SourceSystem, event.SessionStartEvent{Player: s.Player.ID})

	err := s.ctrl.Run(ctx, s.intake)
	if err != nil {
		s.log.Error("session failed", "err", err)
	}

	cancel()
	s.Close()
	wg.Wait()
	s.timer.Stop()
	if s.recorder != nil {
		s.recorder.Close()
	}
	s.sink.Close()

	s.log.Info("session ended", "state", s.ctrl.State())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Close asks a running session to stop. Safe to call multiple times and
// from any goroutine.
func (s *Session) Close() {
	s.intake.Close()
}
