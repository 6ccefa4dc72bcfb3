package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/timeutil"
	"github.com/lifeinfocus/focus/internal/ui"
)

type taskTotal struct {
	name     string
	seconds  int
	sessions int
}

type summary struct {
	since   time.Time
	until   time.Time
	tasks   []taskTotal
	seconds int
	count   int
}

// summarize totals the time worked per task. Tasks are ordered by time
// worked, then by name in natural order.
func summarize(sessions []models.CompletedSession) summary {
	var s summary

	byName := make(map[string]*taskTotal)

	for i := range sessions {
		sess := sessions[i]

		s.seconds += sess.SecondsWorked
		s.count++

		t, ok := byName[sess.TaskName]
		if !ok {
			t = &taskTotal{name: sess.TaskName}
			byName[sess.TaskName] = t
		}

		t.seconds += sess.SecondsWorked
		t.sessions++
	}

	for _, t := range byName {
		s.tasks = append(s.tasks, *t)
	}

	slices.SortFunc(s.tasks, func(a, b taskTotal) int {
		if a.seconds != b.seconds {
			return b.seconds - a.seconds
		}

		if natural.Less(a.name, b.name) {
			return -1
		}

		if natural.Less(b.name, a.name) {
			return 1
		}

		return 0
	})

	return s
}

func (s summary) render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(
		"Reporting period: %s - %s\n",
		ui.Highlight(s.since.Format("January 02, 2006")),
		ui.Highlight(s.until.Format("January 02, 2006")),
	))

	b.WriteString(fmt.Sprintf("\n%s\n", ui.Cyan("Summary")))
	b.WriteString(fmt.Sprintf("Time logged: %s\n", ui.Green(timeutil.Worked(s.seconds))))
	b.WriteString(fmt.Sprintf("Sessions: %s\n", ui.Green(s.count)))

	if s.count > 0 {
		b.WriteString(fmt.Sprintf(
			"Average session: %s\n",
			ui.Green(timeutil.Worked(s.seconds/s.count)),
		))
	}

	if len(s.tasks) > 0 {
		b.WriteString(fmt.Sprintf("\n%s\n", ui.Cyan("Tasks")))
	}

	for _, t := range s.tasks {
		unit := "sessions"
		if t.sessions == 1 {
			unit = "session"
		}

		b.WriteString(fmt.Sprintf(
			"%s: %s (%d %s)\n",
			t.name,
			ui.Green(timeutil.Worked(t.seconds)),
			t.sessions,
			unit,
		))
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// Summary prints the time worked in the range, in total and per task. For
// an unbounded range the reporting period starts at the oldest session.
func (m *Manager) Summary(ctx context.Context, since, until time.Time) error {
	sessions, err := m.store.List(ctx, m.filter(since, until, 0))
	if err != nil {
		return err
	}

	s := summarize(sessions)
	s.since, s.until = since, until

	if s.since.IsZero() && len(sessions) > 0 {
		// newest first
		s.since = timeutil.RoundToStart(sessions[len(sessions)-1].CreatedAt)
	}

	return s.render(m.out)
}
