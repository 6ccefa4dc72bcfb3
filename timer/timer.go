// Package timer runs the focus countdown in the terminal. It drives a
// session.Controller from bubbletea, announces phase ends and publishes the
// timer status for `focus status`
package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifeinfocus/focus/internal/config"
	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/session"
	"github.com/lifeinfocus/focus/store"
)

const (
	padding     = 2
	maxWidth    = 80
	windowTitle = "Life in Focus"
	taskLimit   = 120
)

type (
	savedMsg    session.SaveResult
	finishedMsg struct{ err error }
	quitMsg     struct{ err error }
	recentMsg   struct {
		err      error
		sessions []models.CompletedSession
	}
)

// Timer is the bubbletea model of the countdown.
type Timer struct {
	store      store.TaskStore
	announcer  session.Announcer
	ctrl       *session.Controller
	cfg        *config.Config
	logger     *slog.Logger
	ticker     *teaTicker
	saves      chan session.SaveResult
	now        func() time.Time
	lastStatus *Status
	statusPath string
	title      string
	notice     string
	help       help.Model
	recent     []models.CompletedSession
	style      style
	input      textinput.Model
	progress   progress.Model
	err        error
	noticeErr  bool
	editing    bool
	quitting   bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithStatusFile sets where the timer status is published. An empty path
// disables the status file.
func WithStatusFile(path string) Option {
	return func(t *Timer) {
		t.statusPath = path
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// WithAnnouncer replaces the desktop alert.
func WithAnnouncer(a session.Announcer) Option {
	return func(t *Timer) {
		t.announcer = a
	}
}

// New builds the timer model. Completed sessions are written to ts.
func New(
	cfg *config.Config,
	ts store.TaskStore,
	logger *slog.Logger,
	opts ...Option,
) (*Timer, error) {
	t := &Timer{
		cfg:    cfg,
		store:  ts,
		logger: logger,
		ticker: &teaTicker{},
		saves:  make(chan session.SaveResult, 16),
		now:    time.Now,
		style:  newStyle(cfg),
		help:   help.New(),
	}

	for _, opt := range opts {
		opt(t)
	}

	m, err := session.New(
		cfg.Durations(),
		session.WithClock(t.now),
		session.WithLongBreakInterval(cfg.Settings.LongBreakInterval),
		session.WithDefaultTask(cfg.Settings.DefaultTask),
		session.WithOwner(cfg.Store.OwnerID),
	)
	if err != nil {
		return nil, err
	}

	var alert *Alert

	if t.announcer == nil {
		alert = NewAlert(cfg, logger)
		t.announcer = alert
	}

	t.ctrl = session.NewController(
		m,
		ts,
		t.announcer,
		t.ticker,
		session.WithLogger(logger),
		session.OnSaved(t.deliver),
	)

	if alert != nil {
		alert.Follow(func() session.Phase {
			return t.ctrl.State().Phase
		})
	}

	t.input = textinput.New()
	t.input.Placeholder = "What are you working on?"
	t.input.CharLimit = taskLimit
	t.input.Prompt = "› "
	t.input.Focus()
	t.editing = true

	t.progress = progress.New(
		progress.WithSolidFill(cfg.Work.Color),
		progress.WithoutPercentage(),
	)
	t.progress.Width = maxWidth - padding*2

	return t, nil
}

// Init implements tea.Model.
func (t *Timer) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle(windowTitle),
		t.waitForSave(),
		t.loadRecent(),
	)
}

// deliver forwards save results to the update loop without blocking the
// goroutine that performed the save.
func (t *Timer) deliver(r session.SaveResult) {
	select {
	case t.saves <- r:
	default:
		t.logger.Warn(
			"dropped save result",
			slog.String("task", r.Session.TaskName),
		)
	}
}

func (t *Timer) waitForSave() tea.Cmd {
	return func() tea.Msg {
		return savedMsg(<-t.saves)
	}
}

func (t *Timer) loadRecent() tea.Cmd {
	limit := t.cfg.Display.RecentTasks
	if limit <= 0 {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			t.storeTimeout(),
		)
		defer cancel()

		sessions, err := t.store.List(ctx, store.Filter{
			OwnerID: t.cfg.Store.OwnerID,
			Limit:   limit,
		})

		return recentMsg{sessions: sessions, err: err}
	}
}

func (t *Timer) finish() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			t.storeTimeout(),
		)
		defer cancel()

		return finishedMsg{err: t.ctrl.Finish(ctx)}
	}
}

// shutdown records any work in progress and waits for pending saves.
func (t *Timer) shutdown() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			t.storeTimeout(),
		)
		defer cancel()

		var err error

		s := t.ctrl.State()
		if s.Phase == session.Work && s.Status != session.Stopped {
			err = t.ctrl.Finish(ctx)
		}

		t.ctrl.Wait()

		return quitMsg{err: err}
	}
}

func (t *Timer) storeTimeout() time.Duration {
	if t.cfg.Store.Timeout > 0 {
		return t.cfg.Store.Timeout
	}

	return 10 * time.Second
}

// publishStatus writes the status file when the visible state changed.
func (t *Timer) publishStatus() {
	if t.statusPath == "" {
		return
	}

	st := newStatus(t.ctrl.State(), t.now())

	if last := t.lastStatus; last != nil &&
		last.Phase == st.Phase &&
		last.Status == st.Status &&
		last.Task == st.Task &&
		last.Remaining == st.Remaining {
		return
	}

	if err := writeStatus(t.statusPath, st); err != nil {
		t.logger.Warn("unable to write status file", slog.Any("error", err))
		return
	}

	t.lastStatus = &st
}

// Run starts the timer and blocks until the user quits. The returned error
// is the failure to save the last session, if any.
func Run(
	cfg *config.Config,
	ts store.TaskStore,
	logger *slog.Logger,
	opts ...Option,
) error {
	t, err := New(cfg, ts, logger, opts...)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(t).Run()

	t.ctrl.Wait()

	if t.statusPath != "" {
		if rmErr := removeStatus(t.statusPath); rmErr != nil {
			logger.Warn("unable to remove status file", slog.Any("error", rmErr))
		}
	}

	if err != nil {
		return err
	}

	return t.err
}
