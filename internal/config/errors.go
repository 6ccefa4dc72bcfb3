package config

import "github.com/lifeinfocus/focus/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errParseEnv = &apperr.Error{
		Message: "parsing environment variables failed",
	}

	errShortBreakTooLong = &apperr.Error{
		Message: "short break duration (%v) must be less than work duration (%v)",
	}

	errLongBreakTooShort = &apperr.Error{
		Message: "long break duration (%v) must not be less than short break duration (%v)",
	}

	errUnknownAlertSound = &apperr.Error{
		Message: "unknown alert sound: %s (choose bell, chime or off)",
	}

	errInvalidColor = &apperr.Error{
		Message: "%s color must be a valid hex color code (e.g. #FF0000), got %s",
	}

	errEmptyMsg = &apperr.Error{
		Message: "%s message cannot be empty",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s duration must be between %v and %v",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration",
	}

	errInvalidLongBreakInterval = &apperr.Error{
		Message: "long break interval must be between %d and %d sessions",
	}

	errUnknownBackend = &apperr.Error{
		Message: "unknown store backend %q (choose bolt, sqlite, postgres or remote)",
	}

	errMissingStoreSetting = &apperr.Error{
		Message: "the %s store requires store.%s to be set",
	}

	errInvalidRecentTasks = &apperr.Error{
		Message: "display.recent_tasks must be between 0 and %d",
	}

	errInvalidDateRange = &apperr.Error{
		Message: "the start time must be earlier than the end time",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "invalid period %q: must be one of %s",
	}

	errInvalidDate = &apperr.Error{
		Message: "unable to understand the date %q",
	}
)
