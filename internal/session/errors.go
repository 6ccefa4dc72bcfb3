package session

import (
	"errors"

	"github.com/lifeinfocus/focus/internal/apperr"
)

var (
	// ErrUnknownPhase reports a phase missing from the duration table. It is a
	// configuration error.
	ErrUnknownPhase = errors.New("unknown session phase")

	ErrAlreadyRunning = errors.New("the timer is already running")
	ErrNotRunning     = errors.New("the timer is not running")
	ErrNotPaused      = errors.New("the timer is not paused")
	ErrSkipWork       = errors.New("only breaks can be skipped")
	ErrFinishBreak    = errors.New("breaks cannot be finished, skip them instead")
)

var (
	errUnknownPhase = (&apperr.Error{
		Message: "no duration configured for phase %v",
	}).Wrap(ErrUnknownPhase)

	errInvalidDuration = &apperr.Error{
		Message: "%v duration must be at least one second, got %v",
	}

	errInvalidInterval = &apperr.Error{
		Message: "long break interval must be at least 1, got %d",
	}
)
