package timer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lifeinfocus/focus/internal/osutil"
	"github.com/lifeinfocus/focus/internal/session"
	"github.com/lifeinfocus/focus/internal/timeutil"
)

// Status is the snapshot of a live timer written for `focus status` and
// shell prompts.
type Status struct {
	EndTime           time.Time `json:"end_time"`
	UpdatedAt         time.Time `json:"updated_at"`
	Phase             string    `json:"phase"`
	Status            string    `json:"status"`
	Task              string    `json:"task"`
	Remaining         int       `json:"remaining"`
	WorkCycle         int       `json:"work_cycle"`
	LongBreakInterval int       `json:"long_break_interval"`
}

func newStatus(s session.State, now time.Time) Status {
	st := Status{
		Phase:             s.Phase.String(),
		Status:            s.Status.String(),
		Task:              s.TaskName,
		Remaining:         int(s.Remaining / time.Second),
		WorkCycle:         s.CompletedWorkCycles + 1,
		LongBreakInterval: s.LongBreakInterval,
		UpdatedAt:         now,
	}

	if s.Status == session.Running {
		st.EndTime = now.Add(s.Remaining)
	}

	return st
}

// left returns the time left in the phase as of now.
func (s *Status) left(now time.Time) time.Duration {
	if s.Status != session.Running.String() {
		return time.Duration(s.Remaining) * time.Second
	}

	return s.EndTime.Sub(now).Truncate(time.Second)
}

// Text renders the status line, or an empty string when no timer is live.
// A running status whose end time has passed was left behind by a process
// that did not exit cleanly.
func (s *Status) Text(now time.Time) string {
	if s == nil || s.Status == session.Stopped.String() {
		return ""
	}

	left := s.left(now)
	if left < 0 {
		return ""
	}

	phase, err := session.ParsePhase(s.Phase)
	if err != nil {
		return ""
	}

	var label string

	switch phase {
	case session.Work:
		label = fmt.Sprintf("[Work %d/%d]", s.WorkCycle, s.LongBreakInterval)
	case session.Break:
		label = "[Short break]"
	case session.LongBreak:
		label = "[Long break]"
	}

	if s.Status == session.Paused.String() {
		label += " [Paused]"
	}

	if s.Task != "" && phase == session.Work {
		label += " " + s.Task
	}

	return fmt.Sprintf("%s: %s", label, timeutil.Clock(left))
}

// writeStatus replaces the status file atomically.
func writeStatus(path string, s Status) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errWriteStatus.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission); err != nil {
		return errWriteStatus.Wrap(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".status-*")
	if err != nil {
		return errWriteStatus.Wrap(err)
	}

	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(b); err == nil {
		err = tmp.Chmod(osutil.FilePermission)
	}

	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return errWriteStatus.Wrap(err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errWriteStatus.Wrap(err)
	}

	return nil
}

func removeStatus(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errWriteStatus.Wrap(err)
	}

	return nil
}

// ReadStatus loads the status file. A missing file yields a nil status.
func ReadStatus(path string) (*Status, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, errReadStatus.Wrap(err)
	}

	var s Status

	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errReadStatus.Wrap(err)
	}

	return &s, nil
}

// ReportStatus prints the status of the live timer, if any.
func ReportStatus(path string, w io.Writer, now time.Time) error {
	s, err := ReadStatus(path)
	if err != nil {
		return err
	}

	if text := s.Text(now); text != "" {
		_, err = fmt.Fprintln(w, text)
	}

	return err
}
