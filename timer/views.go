package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/lifeinfocus/focus/internal/session"
	"github.com/lifeinfocus/focus/internal/timeutil"
)

func (t *Timer) View() string {
	if t.quitting {
		return t.style.base.Render(t.style.hint.Render("Saving your progress..."))
	}

	st := t.ctrl.State()

	var s strings.Builder

	s.WriteString(t.headerView(st))
	s.WriteString("\n\n" + t.taskView(st))
	s.WriteString("\n\n" + t.style.main.Render(timeutil.Clock(st.Remaining)))
	s.WriteString("\n\n" + t.progress.ViewAs(t.elapsedFraction(st)))

	if t.notice != "" {
		notice := t.style.secondary.Render(t.notice)
		if t.noticeErr {
			notice = t.style.errorText.Render(t.notice)
		}

		s.WriteString("\n\n" + notice)
	}

	s.WriteString(t.recentView())
	s.WriteString("\n\n" + t.help.ShortHelpView(t.bindings(st)))

	return t.style.base.Render(s.String())
}

func (t *Timer) headerView(st session.State) string {
	var s strings.Builder

	s.WriteString(t.style.phase[st.Phase].Render())

	switch st.Status {
	case session.Paused:
		s.WriteString(t.style.secondary.Render("[Paused]"))
	case session.Running:
		timeFormat := "03:04:05 PM"
		if t.cfg.Settings.TwentyFourHour {
			timeFormat = "15:04:05"
		}

		end := t.now().Add(st.Remaining)
		s.WriteString(t.style.hint.Render("until " + end.Format(timeFormat)))
	case session.Stopped:
		s.WriteString(t.style.hint.Render("ready"))
	}

	if st.Phase == session.Work {
		s.WriteString(t.style.hint.Render(fmt.Sprintf(
			" (%d/%d)",
			st.CompletedWorkCycles+1,
			st.LongBreakInterval,
		)))
	}

	return s.String()
}

func (t *Timer) taskView(st session.State) string {
	if t.editing {
		return t.input.View()
	}

	if st.TaskName == "" {
		return t.style.hint.Render("No task set, " + t.cfg.Settings.DefaultTask + " will be used")
	}

	return t.style.secondary.Render(st.TaskName)
}

func (t *Timer) recentView() string {
	if len(t.recent) == 0 {
		return ""
	}

	var s strings.Builder

	s.WriteString("\n\n" + t.style.hint.Render("Recent tasks"))

	for _, sess := range t.recent {
		s.WriteString(fmt.Sprintf(
			"\n%s %s %s",
			t.style.hint.Render(sess.CreatedAt.Local().Format("Jan 02 15:04")),
			t.style.secondary.Render(sess.TaskName),
			t.style.hint.Render(timeutil.Worked(sess.SecondsWorked)),
		))
	}

	return s.String()
}

// elapsedFraction is the share of the current phase already behind us.
func (t *Timer) elapsedFraction(st session.State) float64 {
	nominal := st.Nominal(t.ctrl.Durations())
	if nominal <= 0 {
		return 0
	}

	return 1 - float64(st.Remaining)/float64(nominal)
}

func (t *Timer) bindings(st session.State) []key.Binding {
	if t.editing {
		return []key.Binding{submit, defaultKeymap.esc}
	}

	if st.Phase.IsBreak() {
		return []key.Binding{
			defaultKeymap.togglePlay,
			defaultKeymap.skip,
			defaultKeymap.quit,
		}
	}

	if st.Status == session.Stopped {
		return []key.Binding{
			defaultKeymap.enter,
			defaultKeymap.rename,
			defaultKeymap.quit,
		}
	}

	return []key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.finish,
		defaultKeymap.rename,
		defaultKeymap.quit,
	}
}
