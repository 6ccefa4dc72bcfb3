package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeinfocus/focus/internal/models"
)

var errBackendDown = errors.New("backend down")

type fakeRecorder struct {
	gate  chan struct{}
	err   error
	saved []models.CompletedSession
	mu    sync.Mutex
}

func (r *fakeRecorder) Create(
	_ context.Context,
	sess models.CompletedSession,
) (models.CompletedSession, error) {
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return models.CompletedSession{}, r.err
	}

	sess.ID = "id-" + sess.TaskName
	r.saved = append(r.saved, sess)

	return sess, nil
}

func (r *fakeRecorder) Saved() []models.CompletedSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]models.CompletedSession(nil), r.saved...)
}

type fakeTicker struct {
	starts, stops int
	live          bool
	mu            sync.Mutex
}

func (t *fakeTicker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.starts++
	t.live = true
}

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stops++
	t.live = false
}

func (t *fakeTicker) isLive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.live
}

type fakeAnnouncer struct {
	ended chan Phase
}

func (a *fakeAnnouncer) AnnouncePhaseEnd(p Phase) {
	a.ended <- p
}

type harness struct {
	clock     *fakeClock
	recorder  *fakeRecorder
	ticker    *fakeTicker
	announcer *fakeAnnouncer
	results   chan SaveResult
	ctrl      *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock:     newClock(),
		recorder:  &fakeRecorder{},
		ticker:    &fakeTicker{},
		announcer: &fakeAnnouncer{ended: make(chan Phase, 4)},
		results:   make(chan SaveResult, 4),
	}

	m := newMachine(t, h.clock)

	h.ctrl = NewController(
		m,
		h.recorder,
		h.announcer,
		h.ticker,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		OnSaved(func(r SaveResult) { h.results <- r }),
	)

	return h
}

func (h *harness) result(t *testing.T) SaveResult {
	t.Helper()

	select {
	case r := <-h.results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for save result")
	}

	return SaveResult{}
}

func TestControllerTickerFollowsStatus(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Start())
	assert.True(t, h.ticker.live)

	require.NoError(t, h.ctrl.Toggle())
	assert.False(t, h.ticker.live)
	assert.Equal(t, Paused, h.ctrl.State().Status)

	require.NoError(t, h.ctrl.Toggle())
	assert.True(t, h.ticker.live)
	assert.Equal(t, 2, h.ticker.starts)

	assert.ErrorIs(t, h.ctrl.Resume(), ErrNotPaused)
	assert.Equal(t, 2, h.ticker.starts)
}

func TestControllerWorkCompletionSavesInBackground(t *testing.T) {
	h := newHarness(t)
	h.recorder.gate = make(chan struct{})

	h.ctrl.Submit("outline talk")
	require.NoError(t, h.ctrl.Start())

	h.clock.Advance(25 * time.Second)

	done := make(chan Transition)
	go func() { done <- h.ctrl.Tick() }()

	var tr Transition
	select {
	case tr = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick blocked on a pending save")
	}

	assert.Equal(t, Step{Break, Running}, tr.To)
	assert.True(t, h.ticker.live)

	close(h.recorder.gate)

	res := h.result(t)
	require.NoError(t, res.Err)
	assert.False(t, res.Awaited)
	assert.Equal(t, "outline talk", res.Session.TaskName)
	assert.Equal(t, 25, res.Session.SecondsWorked)

	h.ctrl.Wait()
	assert.Len(t, h.recorder.Saved(), 1)

	select {
	case p := <-h.announcer.ended:
		assert.Equal(t, Work, p)
	case <-time.After(2 * time.Second):
		t.Fatal("phase end was not announced")
	}
}

func TestControllerBreakEndStopsTickerAndAnnounces(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Start())
	h.clock.Advance(25 * time.Second)
	h.ctrl.Tick()
	h.result(t)

	h.clock.Advance(5 * time.Second)
	tr := h.ctrl.Tick()

	assert.Equal(t, Step{Work, Stopped}, tr.To)
	assert.False(t, h.ticker.live)

	var ended []Phase
	for range 2 {
		select {
		case p := <-h.announcer.ended:
			ended = append(ended, p)
		case <-time.After(2 * time.Second):
			t.Fatal("phase end was not announced")
		}
	}

	assert.ElementsMatch(t, []Phase{Work, Break}, ended)
}

func TestControllerFinishAwaitsSave(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Submit("refactor parser")
	require.NoError(t, h.ctrl.Start())

	h.clock.Advance(12 * time.Second)
	h.ctrl.Tick()

	require.NoError(t, h.ctrl.Finish(context.Background()))

	saved := h.recorder.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, 12, saved[0].SecondsWorked)
	assert.True(t, h.result(t).Awaited)

	assert.Equal(t, Stopped, h.ctrl.State().Status)
	assert.False(t, h.ticker.live)
}

func TestControllerStartDuringPendingFinishKeepsTicker(t *testing.T) {
	h := newHarness(t)
	h.recorder.gate = make(chan struct{})

	h.ctrl.Submit("write release notes")
	require.NoError(t, h.ctrl.Start())

	h.clock.Advance(5 * time.Second)
	h.ctrl.Tick()

	done := make(chan error, 1)

	go func() {
		done <- h.ctrl.Finish(context.Background())
	}()

	require.Eventually(t, func() bool {
		return h.ctrl.State().Status == Stopped && !h.ticker.isLive()
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.ctrl.Start())
	close(h.recorder.gate)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("finish did not return")
	}

	assert.Equal(t, Running, h.ctrl.State().Status)
	assert.True(t, h.ticker.isLive())
	require.Len(t, h.recorder.Saved(), 1)
	assert.Equal(t, 5, h.recorder.Saved()[0].SecondsWorked)
}

func TestControllerSaveFailureDoesNotBlockTimer(t *testing.T) {
	h := newHarness(t)
	h.recorder.err = errBackendDown

	require.NoError(t, h.ctrl.Start())
	h.clock.Advance(25 * time.Second)
	h.ctrl.Tick()

	res := h.result(t)
	assert.ErrorIs(t, res.Err, errBackendDown)
	assert.Equal(t, 25, res.Session.SecondsWorked)

	s := h.ctrl.State()
	assert.Equal(t, Break, s.Phase)
	assert.Equal(t, 1, s.CompletedWorkCycles)

	h.clock.Advance(5 * time.Second)
	h.ctrl.Tick()
	require.NoError(t, h.ctrl.Start())

	h.clock.Advance(3 * time.Second)
	h.ctrl.Tick()

	err := h.ctrl.Finish(context.Background())
	assert.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, Stopped, h.ctrl.State().Status)
}

func TestControllerSubmitFlushesInBackground(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Submit("first")
	require.NoError(t, h.ctrl.Start())
	h.clock.Advance(8 * time.Second)
	h.ctrl.Tick()

	h.ctrl.Submit("second")
	h.ctrl.Wait()

	saved := h.recorder.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "first", saved[0].TaskName)
	assert.Equal(t, 8, saved[0].SecondsWorked)
	assert.Equal(t, "second", h.ctrl.State().TaskName)
}

func TestControllerRejectsInvalidTriggers(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.ctrl.Skip(), ErrSkipWork)
	assert.ErrorIs(t, h.ctrl.Pause(), ErrNotRunning)
	assert.Zero(t, h.ticker.starts)
	assert.Zero(t, h.ticker.stops)
}
