package store

import (
	"errors"

	"github.com/lifeinfocus/focus/internal/apperr"
)

var (
	ErrNotFound = errors.New("session not found")

	// ErrStoredLocally is returned by Fallback when the primary store
	// rejected a session that was then written to the local store.
	ErrStoredLocally = errors.New("session saved locally")

	ErrFocusRunning = errors.New(
		"is Focus already running? Only one instance can use the local store at a time",
	)
)

var (
	errUnknownBackend = &apperr.Error{
		Message: "unknown store backend %q",
	}

	errOpenStore = &apperr.Error{
		Message: "unable to open the %s store",
	}

	errCorruptRecord = &apperr.Error{
		Message: "stored session %q could not be decoded",
	}

	errRemote = &apperr.Error{
		Message: "task API request %s %s failed",
	}
)
