// Package session implements the focus timer: a countdown that cycles between
// work and break phases, counts completed work cycles and decides when a
// stretch of work should be recorded.
package session

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the kind of interval the timer is counting down.
type Phase int

const (
	Work Phase = iota
	Break
	LongBreak
)

var phaseNames = map[Phase]string{
	Work:      "Work",
	Break:     "Break",
	LongBreak: "Long Break",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Phase(%d)", int(p))
}

// IsBreak reports whether p is one of the rest phases.
func (p Phase) IsBreak() bool {
	return p == Break || p == LongBreak
}

// ParsePhase converts a phase name such as "work", "break" or "long_break"
// into a Phase.
func ParsePhase(s string) (Phase, error) {
	normalized := strings.NewReplacer(" ", "", "_", "", "-", "").
		Replace(strings.ToLower(strings.TrimSpace(s)))

	switch normalized {
	case "work":
		return Work, nil
	case "break", "shortbreak":
		return Break, nil
	case "longbreak":
		return LongBreak, nil
	}

	return 0, errUnknownPhase.Fmt(s)
}

// Status is the run state of the countdown.
type Status int

const (
	Stopped Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Durations is the nominal length of each phase.
type Durations map[Phase]time.Duration

// DefaultDurations returns the classic 25/5/15 minute split.
func DefaultDurations() Durations {
	return Durations{
		Work:      25 * time.Minute,
		Break:     5 * time.Minute,
		LongBreak: 15 * time.Minute,
	}
}

// Nominal returns the configured length of p, truncated to whole seconds.
func (d Durations) Nominal(p Phase) (time.Duration, error) {
	dur, ok := d[p]
	if !ok {
		return 0, errUnknownPhase.Fmt(p)
	}

	return dur.Truncate(time.Second), nil
}

func (d Durations) validate() error {
	for _, p := range []Phase{Work, Break, LongBreak} {
		dur, err := d.Nominal(p)
		if err != nil {
			return err
		}

		if dur < time.Second {
			return errInvalidDuration.Fmt(p, d[p])
		}
	}

	return nil
}
