package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lifeinfocus/focus/internal/models"
)

// Recorder stores completed work sessions.
type Recorder interface {
	Create(
		ctx context.Context,
		sess models.CompletedSession,
	) (models.CompletedSession, error)
}

// Announcer is told when a phase runs out. Implementations may be slow; the
// controller never waits on them.
type Announcer interface {
	AnnouncePhaseEnd(ended Phase)
}

// Ticker drives Tick while the timer is running. Start must replace any live
// ticker so that at most one is active.
type Ticker interface {
	Start()
	Stop()
}

// SaveResult reports the outcome of a persistence effect.
type SaveResult struct {
	Err     error
	Session models.CompletedSession
	Awaited bool
}

// Controller owns a Machine and executes the effects of its transitions.
// Triggers are serialised, so a Controller may be shared between goroutines.
type Controller struct {
	recorder  Recorder
	announcer Announcer
	ticker    Ticker
	machine   *Machine
	logger    *slog.Logger
	onSaved   func(SaveResult)
	saves     sync.WaitGroup
	mu        sync.Mutex
	timeout   time.Duration
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

// OnSaved registers a callback invoked after each save attempt. It runs on
// the goroutine that performed the save.
func OnSaved(fn func(SaveResult)) ControllerOption {
	return func(c *Controller) {
		c.onSaved = fn
	}
}

// WithSaveTimeout bounds each background save.
func WithSaveTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.timeout = d
	}
}

// NewController wires a machine to its collaborators. A nil announcer
// disables alerts.
func NewController(
	m *Machine,
	recorder Recorder,
	announcer Announcer,
	ticker Ticker,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		machine:   m,
		recorder:  recorder,
		announcer: announcer,
		ticker:    ticker,
		logger:    slog.Default(),
		timeout:   30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns a snapshot of the underlying machine.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.machine.State()
}

// Durations returns the phase length table.
func (c *Controller) Durations() Durations {
	return c.machine.Durations()
}

func (c *Controller) Start() error {
	return c.trigger(context.Background(), c.machine.Start)
}

func (c *Controller) Pause() error {
	return c.trigger(context.Background(), c.machine.Pause)
}

func (c *Controller) Resume() error {
	return c.trigger(context.Background(), c.machine.Resume)
}

func (c *Controller) Toggle() error {
	return c.trigger(context.Background(), c.machine.Toggle)
}

func (c *Controller) Skip() error {
	return c.trigger(context.Background(), c.machine.Skip)
}

// Finish ends the current work phase and returns once any owed session has
// been stored. The returned error is the save error, if any; the timer is
// stopped regardless.
func (c *Controller) Finish(ctx context.Context) error {
	return c.trigger(ctx, c.machine.Finish)
}

// Submit changes the active task name.
func (c *Controller) Submit(name string) {
	_ = c.trigger(context.Background(), func() (Transition, error) {
		return c.machine.Submit(name), nil
	})
}

// Tick advances the countdown. It returns the transition so that drivers can
// react to phase changes.
func (c *Controller) Tick() Transition {
	var t Transition

	_ = c.trigger(context.Background(), func() (Transition, error) {
		t = c.machine.Tick()
		return t, nil
	})

	return t
}

// Wait blocks until every background save has completed.
func (c *Controller) Wait() {
	c.saves.Wait()
}

func (c *Controller) trigger(
	ctx context.Context,
	fn func() (Transition, error),
) error {
	c.mu.Lock()

	t, err := fn()
	if err == nil {
		c.applyTicker(t)
	}

	c.mu.Unlock()

	if err != nil {
		return err
	}

	if t.Changed() {
		c.logger.Debug(
			"timer transition",
			slog.String("from_phase", t.From.Phase.String()),
			slog.String("from_status", t.From.Status.String()),
			slog.String("to_phase", t.To.Phase.String()),
			slog.String("to_status", t.To.Status.String()),
		)
	}

	return c.dispatch(ctx, t)
}

// applyTicker runs the ticker effects of t. It is called with c.mu held so
// that the ticker always matches the status the machine moved to.
func (c *Controller) applyTicker(t Transition) {
	for _, e := range t.Effects {
		switch e.Kind {
		case StartTicker:
			c.ticker.Start()
		case StopTicker:
			c.ticker.Stop()
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, t Transition) error {
	var awaitErr error

	for _, e := range t.Effects {
		switch e.Kind {
		case Persist:
			c.saves.Add(1)

			go func(sess models.CompletedSession) {
				defer c.saves.Done()

				saveCtx, cancel := context.WithTimeout(
					context.Background(),
					c.timeout,
				)
				defer cancel()

				_ = c.persist(saveCtx, sess, false)
			}(*e.Session)
		case PersistAwait:
			awaitErr = c.persist(ctx, *e.Session, true)
		case Announce:
			if c.announcer == nil {
				continue
			}

			go c.announcer.AnnouncePhaseEnd(e.Ended)
		}
	}

	return awaitErr
}

func (c *Controller) persist(
	ctx context.Context,
	sess models.CompletedSession,
	awaited bool,
) error {
	saved, err := c.recorder.Create(ctx, sess)
	if err != nil {
		c.logger.Error(
			"saving session failed",
			slog.String("task", sess.TaskName),
			slog.Int("seconds", sess.SecondsWorked),
			slog.Any("error", err),
		)

		saved = sess
	} else {
		c.logger.Info(
			"session saved",
			slog.String("id", saved.ID),
			slog.String("task", saved.TaskName),
			slog.Int("seconds", saved.SecondsWorked),
		)
	}

	if c.onSaved != nil {
		c.onSaved(SaveResult{Session: saved, Err: err, Awaited: awaited})
	}

	return err
}
