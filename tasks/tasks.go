// Package tasks implements the command-line views over the task log: listing,
// summarising, adding, editing and deleting completed sessions
package tasks

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/timeutil"
	"github.com/lifeinfocus/focus/internal/ui"
	"github.com/lifeinfocus/focus/store"
)

const (
	noSessionsMsg = "No sessions found for the specified time range"
	dateFormat    = "Jan 02, 2006 03:04 PM"
)

// Manager runs task commands against a store.
type Manager struct {
	store store.TaskStore
	out   io.Writer
	in    *bufio.Reader
	owner string
	// yes skips confirmation prompts
	yes bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithOwner scopes every command to an owner id.
func WithOwner(id string) Option {
	return func(m *Manager) {
		m.owner = id
	}
}

// AssumeYes answers every confirmation prompt with yes.
func AssumeYes(yes bool) Option {
	return func(m *Manager) {
		m.yes = yes
	}
}

// New returns a Manager that prints to out and reads confirmations from in.
func New(ts store.TaskStore, out io.Writer, in io.Reader, opts ...Option) *Manager {
	m := &Manager{
		store: ts,
		out:   out,
		in:    bufio.NewReader(in),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) filter(since, until time.Time, limit int) store.Filter {
	return store.Filter{
		Since:   since,
		Until:   until,
		Limit:   limit,
		OwnerID: m.owner,
	}
}

// List prints the sessions in the given range as a table or as JSON.
func (m *Manager) List(
	ctx context.Context,
	since, until time.Time,
	limit int,
	asJSON bool,
) error {
	sessions, err := m.store.List(ctx, m.filter(since, until, limit))
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(m.out, sessions)
	}

	if len(sessions) == 0 {
		pterm.Info.WithWriter(m.out).Println(noSessionsMsg)
		return nil
	}

	printSessionsTable(m.out, sessions)

	return nil
}

// Add records a session by hand.
func (m *Manager) Add(
	ctx context.Context,
	name string,
	worked time.Duration,
	at time.Time,
) (models.CompletedSession, error) {
	if worked < time.Second {
		return models.CompletedSession{}, errInvalidWorked.Fmt(worked)
	}

	sess, err := m.store.Create(ctx, models.CompletedSession{
		TaskName:      name,
		SecondsWorked: int(worked / time.Second),
		CreatedAt:     at,
		OwnerID:       m.owner,
	})
	if err != nil && !errors.Is(err, store.ErrStoredLocally) {
		return sess, err
	}

	printSessionsTable(m.out, []models.CompletedSession{sess})

	return sess, err
}

// Edit changes the name or duration of a stored session after confirmation.
func (m *Manager) Edit(
	ctx context.Context,
	id string,
	upd models.SessionUpdate,
) (models.CompletedSession, error) {
	if upd.Empty() {
		return models.CompletedSession{}, errNoUpdate
	}

	if upd.SecondsWorked != nil && *upd.SecondsWorked < 1 {
		return models.CompletedSession{}, errInvalidWorked.Fmt(
			time.Duration(*upd.SecondsWorked) * time.Second,
		)
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return sess, err
	}

	printSessionsTable(m.out, []models.CompletedSession{sess})

	if !m.confirm("The session above will be updated. Press ENTER to proceed") {
		return sess, errAborted
	}

	updated, err := m.store.Update(ctx, id, upd)
	if err != nil {
		return sess, err
	}

	pterm.Success.WithWriter(m.out).Println("Session updated")

	return updated, nil
}

// Delete removes the sessions with the given ids, or every session in the
// range when no ids are given. It returns the number of deleted sessions.
func (m *Manager) Delete(
	ctx context.Context,
	ids []string,
	since, until time.Time,
) (int, error) {
	sessions, err := m.resolve(ctx, ids, since, until)
	if err != nil {
		return 0, err
	}

	if len(sessions) == 0 {
		pterm.Info.WithWriter(m.out).Println(noSessionsMsg)
		return 0, nil
	}

	printSessionsTable(m.out, sessions)

	if !m.confirm(
		"The above sessions will be deleted permanently. Press ENTER to proceed",
	) {
		return 0, errAborted
	}

	var (
		deleted int
		errs    []error
	)

	for i := range sessions {
		if err := m.store.Delete(ctx, sessions[i].ID); err != nil {
			errs = append(errs, errDelete.Fmt(sessions[i].ID).Wrap(err))
			continue
		}

		deleted++
	}

	pterm.Success.WithWriter(m.out).Printfln("Deleted %d session(s)", deleted)

	return deleted, errors.Join(errs...)
}

func (m *Manager) resolve(
	ctx context.Context,
	ids []string,
	since, until time.Time,
) ([]models.CompletedSession, error) {
	if len(ids) == 0 {
		return m.store.List(ctx, m.filter(since, until, 0))
	}

	sessions := make([]models.CompletedSession, 0, len(ids))

	for _, id := range ids {
		sess, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", id, err)
		}

		sessions = append(sessions, sess)
	}

	return sessions, nil
}

// confirm asks for confirmation. An empty line proceeds; "n", "no" or a
// closed input cancel.
func (m *Manager) confirm(prompt string) bool {
	if m.yes {
		return true
	}

	fmt.Fprint(m.out, pterm.Warning.Sprint(prompt))

	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return false
	}

	return true
}

// printSessionsTable prints a session table to w.
func printSessionsTable(w io.Writer, sessions []models.CompletedSession) {
	tableBody := make([][]string, len(sessions))

	for i := range sessions {
		sess := sessions[i]

		tableBody[i] = []string{
			fmt.Sprintf("%d", i+1),
			sess.ID,
			sess.TaskName,
			ui.Green(timeutil.Worked(sess.SecondsWorked)),
			sess.CreatedAt.Local().Format(dateFormat),
		}
	}

	tableBody = append([][]string{
		{"#", "ID", "TASK", "TIME WORKED", "DATE"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

func printJSON(w io.Writer, sessions []models.CompletedSession) error {
	if sessions == nil {
		sessions = []models.CompletedSession{}
	}

	b, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}
