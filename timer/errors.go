package timer

import "github.com/lifeinfocus/focus/internal/apperr"

var (
	errUnknownSound = &apperr.Error{
		Message: "unknown alert sound %q",
	}

	errSessionCmd = &apperr.Error{
		Message: "the session command %q failed",
	}

	errReadStatus = &apperr.Error{
		Message: "unable to read the timer status",
	}

	errWriteStatus = &apperr.Error{
		Message: "unable to write the timer status",
	}
)
