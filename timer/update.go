package timer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/lifeinfocus/focus/internal/session"
	"github.com/lifeinfocus/focus/internal/timeutil"
	"github.com/lifeinfocus/focus/store"
)

// Update implements tea.Model.
func (t *Timer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return t.handleTick(msg)
	case tea.KeyMsg:
		t.logger.Debug("key press", slog.String("msg", spew.Sdump(msg)))
		return t.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		t.progress.Width = min(msg.Width-padding*2, maxWidth)
		return t, nil
	case savedMsg:
		return t.handleSaved(session.SaveResult(msg))
	case recentMsg:
		if msg.err != nil {
			t.logger.Warn("unable to load recent tasks", slog.Any("error", msg.err))
			return t, nil
		}

		t.recent = msg.sessions

		return t, nil
	case finishedMsg:
		if errors.Is(msg.err, session.ErrFinishBreak) {
			t.setNotice(msg.err, true)
		}

		return t, t.afterTrigger(nil)
	case quitMsg:
		t.err = msg.err
		return t, tea.Quit
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)

	return t, cmd
}

// handleTick advances the countdown for ticks of the live loop.
func (t *Timer) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if !t.ticker.current(msg) {
		return t, nil
	}

	tr := t.ctrl.Tick()

	if tr.Changed() {
		t.logger.Debug("tick transition", slog.String("msg", spew.Sdump(tr)))

		if tr.To.Status == session.Stopped {
			t.notice = fmt.Sprintf("%s is over. Press enter to start working.", tr.From.Phase)
			t.noticeErr = false
		}
	}

	return t, tea.Batch(t.ticker.next(msg), t.afterTrigger(nil))
}

func (t *Timer) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t.quitting {
		return t, nil
	}

	if msg.Type == tea.KeyCtrlC ||
		(!t.editing && key.Matches(msg, defaultKeymap.quit)) {
		t.quitting = true
		return t, t.shutdown()
	}

	if t.editing {
		return t.handleInput(msg)
	}

	switch {
	case key.Matches(msg, defaultKeymap.enter):
		return t, t.afterTrigger(t.ctrl.Start())
	case key.Matches(msg, defaultKeymap.togglePlay):
		return t, t.afterTrigger(t.ctrl.Toggle())
	case key.Matches(msg, defaultKeymap.skip):
		return t, t.afterTrigger(t.ctrl.Skip())
	case key.Matches(msg, defaultKeymap.finish):
		if t.ctrl.State().Phase.IsBreak() {
			return t, t.afterTrigger(session.ErrFinishBreak)
		}

		return t, t.finish()
	case key.Matches(msg, defaultKeymap.rename):
		t.editing = true
		t.input.SetValue(t.ctrl.State().TaskName)
		t.input.CursorEnd()

		return t, tea.Batch(t.input.Focus(), textinput.Blink)
	}

	return t, nil
}

func (t *Timer) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, submit):
		t.ctrl.Submit(t.input.Value())
		t.stopEditing()

		return t, t.afterTrigger(nil)
	case key.Matches(msg, defaultKeymap.esc):
		t.stopEditing()
		return t, nil
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)

	return t, cmd
}

func (t *Timer) stopEditing() {
	t.editing = false
	t.input.Blur()
	t.input.Reset()
}

func (t *Timer) handleSaved(r session.SaveResult) (tea.Model, tea.Cmd) {
	worked := timeutil.Worked(r.Session.SecondsWorked)

	switch {
	case r.Err == nil:
		t.notice = fmt.Sprintf("Saved %q (%s)", r.Session.TaskName, worked)
		t.noticeErr = false
	case errors.Is(r.Err, store.ErrStoredLocally):
		t.notice = fmt.Sprintf(
			"Saved %q (%s) locally, the remote store is unavailable",
			r.Session.TaskName,
			worked,
		)
		t.noticeErr = true
	default:
		t.notice = fmt.Sprintf("Could not save %q: %v", r.Session.TaskName, r.Err)
		t.noticeErr = true
	}

	return t, tea.Batch(t.waitForSave(), t.loadRecent())
}

// afterTrigger reports err, starts a new tick loop if the controller asked
// for one and refreshes the status file and window title.
func (t *Timer) afterTrigger(err error) tea.Cmd {
	if err != nil {
		t.setNotice(err, true)
	}

	t.publishStatus()

	return tea.Batch(t.ticker.started(), t.titleCmd())
}

func (t *Timer) setNotice(err error, isErr bool) {
	t.notice = err.Error()
	t.noticeErr = isErr
}

func (t *Timer) titleCmd() tea.Cmd {
	title := windowTitleFor(t.ctrl.State())
	if title == t.title {
		return nil
	}

	t.title = title

	return tea.SetWindowTitle(title)
}

// windowTitleFor renders the terminal title, e.g. "24:59 - Work | Life in
// Focus" while the timer runs.
func windowTitleFor(s session.State) string {
	if s.Status == session.Stopped {
		return windowTitle
	}

	return fmt.Sprintf(
		"%s - %s | %s",
		timeutil.Clock(s.Remaining),
		s.Phase,
		windowTitle,
	)
}
