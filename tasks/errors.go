package tasks

import "github.com/lifeinfocus/focus/internal/apperr"

var (
	errNoUpdate = &apperr.Error{
		Message: "provide a new task name with --task or a new duration with --time",
	}

	errInvalidWorked = &apperr.Error{
		Message: "time worked must be at least one second, got %s",
	}

	errAborted = &apperr.Error{
		Message: "operation cancelled",
	}

	errDelete = &apperr.Error{
		Message: "unable to delete session %s",
	}
)
