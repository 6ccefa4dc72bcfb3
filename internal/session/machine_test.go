package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
}

// shortDurations mirrors the demo timings: 25s of work, 5s breaks and a 10s
// long break.
func shortDurations() Durations {
	return Durations{
		Work:      25 * time.Second,
		Break:     5 * time.Second,
		LongBreak: 10 * time.Second,
	}
}

func newMachine(t *testing.T, clock *fakeClock, opts ...Option) *Machine {
	t.Helper()

	opts = append([]Option{WithClock(clock.Now)}, opts...)

	m, err := New(shortDurations(), opts...)
	require.NoError(t, err)

	return m
}

func kinds(tr Transition) []EffectKind {
	out := make([]EffectKind, len(tr.Effects))
	for i, e := range tr.Effects {
		out[i] = e.Kind
	}

	return out
}

func TestNewMachineIsStoppedAtWork(t *testing.T) {
	m := newMachine(t, newClock())

	s := m.State()

	assert.Equal(t, Work, s.Phase)
	assert.Equal(t, Stopped, s.Status)
	assert.Equal(t, 25*time.Second, s.Remaining)
	assert.Zero(t, s.CompletedWorkCycles)
	assert.Equal(t, DefaultLongBreakInterval, s.LongBreakInterval)
}

func TestNewRejectsIncompleteDurations(t *testing.T) {
	_, err := New(Durations{Work: time.Minute, Break: time.Minute})
	assert.ErrorIs(t, err, ErrUnknownPhase)

	_, err = New(Durations{Work: time.Minute, Break: 0, LongBreak: time.Minute})
	assert.ErrorIs(t, err, errInvalidDuration)

	_, err = New(shortDurations(), WithLongBreakInterval(0))
	assert.ErrorIs(t, err, errInvalidInterval)
}

func TestParsePhase(t *testing.T) {
	cases := map[string]Phase{
		"work":        Work,
		" Work ":      Work,
		"break":       Break,
		"short_break": Break,
		"Long Break":  LongBreak,
		"long-break":  LongBreak,
	}

	for in, want := range cases {
		got, err := ParsePhase(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePhase("nap")
	assert.ErrorIs(t, err, ErrUnknownPhase)
}

func TestStartDefaultsTaskName(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	tr, err := m.Start()
	require.NoError(t, err)

	assert.Equal(t, []EffectKind{StartTicker}, kinds(tr))
	assert.Equal(t, Step{Work, Running}, tr.To)
	assert.Equal(t, DefaultTaskName, m.State().TaskName)
	assert.Equal(t, clock.Now(), m.State().StartedAt)

	_, err = m.Start()
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestSubmitTrimsAndDefaults(t *testing.T) {
	m := newMachine(t, newClock())

	m.Submit("")
	assert.Equal(t, "Work Session", m.State().TaskName)

	m.Submit("   ")
	assert.Equal(t, "Work Session", m.State().TaskName)

	m.Submit("  write release notes ")
	assert.Equal(t, "write release notes", m.State().TaskName)

	custom := newMachine(t, newClock(), WithDefaultTask("Deep work"))
	custom.Submit("")
	assert.Equal(t, "Deep work", custom.State().TaskName)
}

func TestRemainingNeverExceedsNominal(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, err := m.Start()
	require.NoError(t, err)

	// three full work/break rounds
	for range 3 {
		for range 310 {
			clock.Advance(TickInterval)
			m.Tick()

			s := m.State()
			assert.LessOrEqual(t, s.Remaining, s.Nominal(m.Durations()))
			assert.GreaterOrEqual(t, s.Remaining, time.Duration(0))
		}

		require.Equal(t, Stopped, m.State().Status)
		assert.Equal(t, 25*time.Second, m.State().Remaining)

		_, err = m.Start()
		require.NoError(t, err)
	}
}

func TestRemainingIsWholeSeconds(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()

	clock.Advance(2*time.Second + 999*time.Millisecond)
	m.Tick()

	assert.Equal(t, 23*time.Second, m.Remaining())
}

func TestPauseResumeImmediatelyKeepsRemaining(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()

	clock.Advance(10*time.Second + 50*time.Millisecond)
	m.Tick()

	before := m.Remaining()

	tr, err := m.Pause()
	require.NoError(t, err)
	assert.Equal(t, []EffectKind{StopTicker}, kinds(tr))

	tr, err = m.Resume()
	require.NoError(t, err)
	assert.Equal(t, []EffectKind{StartTicker}, kinds(tr))

	clock.Advance(TickInterval)
	m.Tick()

	assert.LessOrEqual(t, before-m.Remaining(), time.Second)
	assert.Equal(t, 15*time.Second, m.Remaining())
}

func TestPausedTimeIsNotCounted(t *testing.T) {
	cases := []struct {
		name      string
		tickEvery time.Duration
	}{
		{"single tick", 5 * time.Second},
		{"regular ticks", TickInterval},
		{"irregular ticks", 700 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock := newClock()
			m := newMachine(t, clock)

			_, _ = m.Start()

			clock.Advance(10 * time.Second)
			m.Tick()
			require.Equal(t, 15*time.Second, m.Remaining())

			_, err := m.Pause()
			require.NoError(t, err)

			clock.Advance(time.Hour)
			m.Tick()
			assert.Equal(t, 15*time.Second, m.Remaining())
			assert.Equal(t, Paused, m.State().Status)
			assert.True(t, m.State().StartedAt.IsZero())

			_, err = m.Start()
			require.NoError(t, err)

			var advanced time.Duration
			for advanced < 5*time.Second {
				step := min(tc.tickEvery, 5*time.Second-advanced)
				clock.Advance(step)
				advanced += step
				m.Tick()
			}

			assert.Equal(t, 10*time.Second, m.Remaining())
		})
	}
}

func TestPauseRequiresRunning(t *testing.T) {
	m := newMachine(t, newClock())

	_, err := m.Pause()
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = m.Resume()
	assert.ErrorIs(t, err, ErrNotPaused)
}

func TestWorkCompletionMovesToBreak(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	m.Submit("draft chapter")
	_, _ = m.Start()

	clock.Advance(25*time.Second + 200*time.Millisecond)
	tr := m.Tick()

	assert.Equal(t, []EffectKind{Persist, Announce}, kinds(tr))
	assert.Equal(t, Work, tr.Effects[1].Ended)

	rec := tr.Effects[0].Session
	require.NotNil(t, rec)
	assert.Equal(t, "draft chapter", rec.TaskName)
	assert.Equal(t, 25, rec.SecondsWorked)

	s := m.State()
	assert.Equal(t, Break, s.Phase)
	assert.Equal(t, Running, s.Status)
	assert.Equal(t, 1, s.CompletedWorkCycles)
	assert.Equal(t, 5*time.Second, s.Remaining)
}

func TestOvershootIsClamped(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()

	clock.Advance(3 * time.Hour)
	tr := m.Tick()

	assert.Equal(t, 25, tr.Effects[0].Session.SecondsWorked)
	assert.Equal(t, 5*time.Second, m.Remaining())
}

func TestLongBreakEveryFourthCycle(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	type round struct {
		phase  Phase
		cycles int
		left   time.Duration
	}

	want := []round{
		{Break, 1, 5 * time.Second},
		{Break, 2, 5 * time.Second},
		{Break, 3, 5 * time.Second},
		{LongBreak, 0, 10 * time.Second},
		{Break, 1, 5 * time.Second},
	}

	var got []round

	for range want {
		_, err := m.Start()
		require.NoError(t, err)

		clock.Advance(25 * time.Second)
		m.Tick()

		s := m.State()
		got = append(got, round{s.Phase, s.CompletedWorkCycles, s.Remaining})

		clock.Advance(s.Remaining)
		tr := m.Tick()
		require.Equal(t, []EffectKind{StopTicker, Announce}, kinds(tr))
		require.Equal(t, s.Phase, tr.Effects[1].Ended)
	}

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(round{})); diff != "" {
		t.Fatalf("cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomLongBreakInterval(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock, WithLongBreakInterval(2))

	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	m.Tick()
	assert.Equal(t, Break, m.State().Phase)

	clock.Advance(5 * time.Second)
	m.Tick()

	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	m.Tick()
	assert.Equal(t, LongBreak, m.State().Phase)
	assert.Zero(t, m.State().CompletedWorkCycles)
}

func TestBreakEndStopsAtWork(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	m.Tick()

	clock.Advance(5 * time.Second)
	tr := m.Tick()

	assert.Equal(t, Step{Break, Running}, tr.From)
	assert.Equal(t, Step{Work, Stopped}, tr.To)

	s := m.State()
	assert.Equal(t, 25*time.Second, s.Remaining)
	assert.Equal(t, 1, s.CompletedWorkCycles)

	// a stopped timer ignores ticks
	clock.Advance(time.Minute)
	tr = m.Tick()
	assert.Empty(t, tr.Effects)
	assert.Equal(t, 25*time.Second, m.Remaining())
}

func TestFinishRecordsElapsedWork(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	m.Submit("triage inbox")
	_, _ = m.Start()

	clock.Advance(25 * time.Second)
	m.Tick()
	clock.Advance(5 * time.Second)
	m.Tick()
	require.Equal(t, 1, m.State().CompletedWorkCycles)

	_, _ = m.Start()
	clock.Advance(7*time.Second + 500*time.Millisecond)
	m.Tick()

	remaining := m.Remaining()

	tr, err := m.Finish()
	require.NoError(t, err)

	assert.Equal(t, []EffectKind{StopTicker, PersistAwait}, kinds(tr))

	rec := tr.Effects[1].Session
	assert.Equal(t, "triage inbox", rec.TaskName)
	assert.Equal(t, int((25*time.Second-remaining)/time.Second), rec.SecondsWorked)
	assert.Equal(t, 7, rec.SecondsWorked)

	s := m.State()
	assert.Equal(t, Step{Work, Stopped}, Step{s.Phase, s.Status})
	assert.Zero(t, s.CompletedWorkCycles)
	assert.Equal(t, 25*time.Second, s.Remaining)
}

func TestFinishWhilePausedRecordsRunTimeOnly(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()
	clock.Advance(4 * time.Second)
	m.Tick()
	_, _ = m.Pause()
	clock.Advance(10 * time.Minute)

	tr, err := m.Finish()
	require.NoError(t, err)
	require.True(t, tr.Has(PersistAwait))
	assert.Equal(t, 4, tr.Effects[1].Session.SecondsWorked)
}

func TestFinishBeforeFirstTickRecordsNothing(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()
	clock.Advance(10 * time.Second)

	tr, err := m.Finish()
	require.NoError(t, err)

	assert.Equal(t, []EffectKind{StopTicker}, kinds(tr))
	assert.Equal(t, Stopped, m.State().Status)
}

func TestFinishWhenStoppedRecordsNothing(t *testing.T) {
	m := newMachine(t, newClock())

	tr, err := m.Finish()
	require.NoError(t, err)
	assert.False(t, tr.Has(PersistAwait))
}

func TestFinishDuringBreakFails(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	m.Tick()

	_, err := m.Finish()
	assert.ErrorIs(t, err, ErrFinishBreak)
	assert.Equal(t, Break, m.State().Phase)
}

func TestSkip(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, err := m.Skip()
	assert.ErrorIs(t, err, ErrSkipWork)

	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	m.Tick()
	clock.Advance(2 * time.Second)
	m.Tick()

	tr, err := m.Skip()
	require.NoError(t, err)

	assert.Equal(t, []EffectKind{StopTicker}, kinds(tr))
	assert.Equal(t, Step{Work, Stopped}, tr.To)
	assert.Equal(t, 25*time.Second, m.Remaining())
	assert.Equal(t, 1, m.State().CompletedWorkCycles)

	// skipping a paused break works too
	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	m.Tick()
	_, _ = m.Pause()

	_, err = m.Skip()
	require.NoError(t, err)
	assert.Equal(t, Stopped, m.State().Status)
}

func TestSubmitFlushesPendingWork(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	m.Submit("emails")
	_, _ = m.Start()

	clock.Advance(10 * time.Second)
	m.Tick()

	tr := m.Submit("code review")
	require.Equal(t, []EffectKind{Persist}, kinds(tr))
	assert.Equal(t, "emails", tr.Effects[0].Session.TaskName)
	assert.Equal(t, 10, tr.Effects[0].Session.SecondsWorked)

	// resubmitting the same name owes nothing
	assert.Empty(t, m.Submit("code review").Effects)

	clock.Advance(15 * time.Second)
	tr = m.Tick()

	require.True(t, tr.Has(Persist))
	assert.Equal(t, "code review", tr.Effects[0].Session.TaskName)
	assert.Equal(t, 15, tr.Effects[0].Session.SecondsWorked)
}

func TestSubmitBeforeFirstTickFlushesNothing(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	_, _ = m.Start()
	clock.Advance(3 * time.Second)

	tr := m.Submit("planning")
	assert.Empty(t, tr.Effects)
	assert.Equal(t, "planning", m.State().TaskName)
}

func TestFinishAfterFlushRecordsRemainder(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock)

	m.Submit("a")
	_, _ = m.Start()
	clock.Advance(6 * time.Second)
	m.Tick()
	m.Submit("b")

	clock.Advance(4 * time.Second)
	m.Tick()

	tr, err := m.Finish()
	require.NoError(t, err)
	assert.Equal(t, "b", tr.Effects[0].Session.TaskName)
	assert.Equal(t, 4, tr.Effects[0].Session.SecondsWorked)
}

func TestRecordsCarryOwner(t *testing.T) {
	clock := newClock()
	m := newMachine(t, clock, WithOwner("user-42"))

	_, _ = m.Start()
	clock.Advance(25 * time.Second)
	tr := m.Tick()

	assert.Equal(t, "user-42", tr.Effects[0].Session.OwnerID)
	assert.Equal(t, clock.Now(), tr.Effects[0].Session.CreatedAt)
}
