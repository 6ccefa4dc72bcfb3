package session

import (
	"strings"
	"time"

	"github.com/lifeinfocus/focus/internal/models"
)

const (
	DefaultLongBreakInterval = 4
	DefaultTaskName          = "Work Session"
)

// State is a snapshot of the timer.
type State struct {
	// StartedAt is the wall-clock start of the current run segment. It is
	// zero unless the timer is running.
	StartedAt time.Time
	TaskName  string
	Phase     Phase
	Status    Status
	// Remaining is always a whole number of seconds.
	Remaining time.Duration
	// Accumulated is the running time of the current phase before the
	// current run segment.
	Accumulated         time.Duration
	CompletedWorkCycles int
	LongBreakInterval   int
}

// Nominal returns the full length of the current phase.
func (s State) Nominal(d Durations) time.Duration {
	dur, _ := d.Nominal(s.Phase)
	return dur
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces time.Now as the source of wall-clock time.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithLongBreakInterval sets how many work phases precede a long break.
func WithLongBreakInterval(n int) Option {
	return func(m *Machine) {
		m.interval = n
	}
}

// WithDefaultTask sets the label used when an empty task name is submitted.
func WithDefaultTask(name string) Option {
	return func(m *Machine) {
		if name = strings.TrimSpace(name); name != "" {
			m.defaultTask = name
		}
	}
}

// WithOwner stamps recorded sessions with an owner id.
func WithOwner(id string) Option {
	return func(m *Machine) {
		m.owner = id
	}
}

// Machine is the timer state machine. It performs no I/O: every trigger
// returns a Transition whose effects the caller executes. A Machine is not
// safe for concurrent use; see Controller.
type Machine struct {
	startedAt   time.Time
	now         func() time.Time
	durations   Durations
	defaultTask string
	owner       string
	task        string
	accumulated time.Duration
	remaining   time.Duration
	// flushed is the part of the current work phase already recorded under a
	// previous task name.
	flushed    time.Duration
	phase      Phase
	status     Status
	cycles     int
	interval   int
	hasStarted bool
}

// New returns a stopped machine at the start of a work phase.
func New(durations Durations, opts ...Option) (*Machine, error) {
	m := &Machine{
		now:         time.Now,
		durations:   durations,
		interval:    DefaultLongBreakInterval,
		defaultTask: DefaultTaskName,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := durations.validate(); err != nil {
		return nil, err
	}

	if m.interval < 1 {
		return nil, errInvalidInterval.Fmt(m.interval)
	}

	m.remaining = m.nominal(Work)

	return m, nil
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	return State{
		Phase:               m.phase,
		Status:              m.status,
		Remaining:           m.remaining,
		CompletedWorkCycles: m.cycles,
		LongBreakInterval:   m.interval,
		TaskName:            m.task,
		Accumulated:         m.accumulated,
		StartedAt:           m.startedAt,
	}
}

// Remaining returns the time left in the current phase as of the last
// trigger or tick.
func (m *Machine) Remaining() time.Duration {
	return m.remaining
}

// Durations returns the phase length table.
func (m *Machine) Durations() Durations {
	return m.durations
}

// Start begins a work phase from the stopped state, or resumes a paused one.
// Starting without a task name applies the default label.
func (m *Machine) Start() (Transition, error) {
	switch m.status {
	case Running:
		return Transition{}, ErrAlreadyRunning
	case Paused:
		return m.Resume()
	case Stopped:
	}

	from := m.step()

	if m.task == "" {
		m.task = m.defaultTask
	}

	m.resetPhase(Work)
	m.status = Running
	m.startedAt = m.now()

	return m.transition(from, edgeStart, nil), nil
}

// Pause freezes the countdown.
func (m *Machine) Pause() (Transition, error) {
	if m.status != Running {
		return Transition{}, ErrNotRunning
	}

	from := m.step()

	m.accumulated += m.now().Sub(m.startedAt)
	m.startedAt = time.Time{}
	m.status = Paused
	m.remaining = m.remainingAfter(m.accumulated)

	return m.transition(from, edgePause, nil), nil
}

// Resume continues a paused countdown.
func (m *Machine) Resume() (Transition, error) {
	if m.status != Paused {
		return Transition{}, ErrNotPaused
	}

	from := m.step()

	m.status = Running
	m.startedAt = m.now()

	return m.transition(from, edgeResume, nil), nil
}

// Toggle pauses a running timer and starts or resumes any other.
func (m *Machine) Toggle() (Transition, error) {
	if m.status == Running {
		return m.Pause()
	}

	return m.Start()
}

// Tick recomputes the remaining time from the wall clock and advances the
// phase once it reaches zero. Ticks while not running change nothing.
func (m *Machine) Tick() Transition {
	if m.status != Running {
		return Transition{From: m.step(), To: m.step()}
	}

	from := m.step()

	m.remaining = m.remainingAfter(m.elapsed())

	if m.phase == Work {
		m.hasStarted = true
	}

	if m.remaining > 0 {
		return Transition{From: from, To: from}
	}

	if m.phase == Work {
		return m.completeWork(from)
	}

	ended := m.phase

	m.resetPhase(Work)
	m.status = Stopped

	return m.transition(from, edgeBreakDone, nil, ended)
}

// Finish ends a work phase early. Time worked since the phase began is
// recorded if at least one tick has been observed, and the cycle count is
// reset.
func (m *Machine) Finish() (Transition, error) {
	if m.phase != Work {
		return Transition{}, ErrFinishBreak
	}

	from := m.step()

	var rec *models.CompletedSession

	if m.status != Stopped {
		m.remaining = m.remainingAfter(m.elapsed())
		rec = m.pending()
	}

	m.resetPhase(Work)
	m.status = Stopped
	m.cycles = 0

	return m.transition(from, edgeFinish, rec), nil
}

// Skip abandons a break without recording anything.
func (m *Machine) Skip() (Transition, error) {
	if m.phase == Work {
		return Transition{}, ErrSkipWork
	}

	from := m.step()

	m.resetPhase(Work)
	m.status = Stopped

	return m.transition(from, edgeSkip, nil), nil
}

// Submit sets the active task name. Blank names fall back to the default
// label. Work already done in the current phase is recorded under the
// previous name first.
func (m *Machine) Submit(name string) Transition {
	name = strings.TrimSpace(name)
	if name == "" {
		name = m.defaultTask
	}

	from := m.step()

	var rec *models.CompletedSession

	if m.phase == Work && m.status != Stopped && name != m.task {
		if m.status == Running {
			m.remaining = m.remainingAfter(m.elapsed())
		}

		rec = m.pending()
		if rec != nil {
			m.flushed += rec.Duration()
		}
	}

	m.task = name

	return m.transition(from, edgeSubmit, rec)
}

func (m *Machine) completeWork(from Step) Transition {
	nominal := m.nominal(Work)

	var rec *models.CompletedSession
	if worked := nominal - m.flushed; worked > 0 {
		rec = m.record(worked)
	}

	m.cycles++

	next := Break
	if m.cycles >= m.interval {
		next = LongBreak
		m.cycles = 0
	}

	m.resetPhase(next)
	m.startedAt = m.now()

	return m.transition(from, edgeWorkDone, rec, Work)
}

// pending returns the unrecorded work of the current phase, or nil when no
// tick has been observed or nothing is owed.
func (m *Machine) pending() *models.CompletedSession {
	if !m.hasStarted || m.task == "" {
		return nil
	}

	worked := m.nominal(Work) - m.remaining - m.flushed
	if worked < time.Second {
		return nil
	}

	return m.record(worked)
}

func (m *Machine) record(worked time.Duration) *models.CompletedSession {
	return &models.CompletedSession{
		TaskName:      m.task,
		SecondsWorked: int(worked / time.Second),
		CreatedAt:     m.now(),
		OwnerID:       m.owner,
	}
}

func (m *Machine) resetPhase(p Phase) {
	m.phase = p
	m.remaining = m.nominal(p)
	m.accumulated = 0
	m.startedAt = time.Time{}
	m.flushed = 0
	m.hasStarted = false
}

// elapsed is the running time of the current phase.
func (m *Machine) elapsed() time.Duration {
	if m.status != Running {
		return m.accumulated
	}

	return m.accumulated + m.now().Sub(m.startedAt)
}

// remainingAfter computes max(0, nominal - floor(elapsed)) in whole seconds.
func (m *Machine) remainingAfter(elapsed time.Duration) time.Duration {
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := m.nominal(m.phase) - elapsed.Truncate(time.Second)
	if remaining < 0 {
		return 0
	}

	return remaining
}

func (m *Machine) nominal(p Phase) time.Duration {
	// validated in New
	d, _ := m.durations.Nominal(p)
	return d
}

func (m *Machine) step() Step {
	return Step{Phase: m.phase, Status: m.status}
}

func (m *Machine) transition(
	from Step,
	e edge,
	rec *models.CompletedSession,
	ended ...Phase,
) Transition {
	var p Phase
	if len(ended) > 0 {
		p = ended[0]
	}

	return Transition{
		From:    from,
		To:      m.step(),
		Effects: effectsFor(e, rec, p),
	}
}
