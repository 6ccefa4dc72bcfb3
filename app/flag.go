package app

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a session is completed",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each session",
	}

	workSoundFlag = &cli.StringFlag{
		Name:    "work-sound",
		Aliases: []string{"ws"},
		Usage:   "Sound to play when a break session has ended: bell, chime or off. Defaults to bell",
	}

	breakSoundFlag = &cli.StringFlag{
		Name:    "break-sound",
		Aliases: []string{"bs"},
		Usage:   "Sound to play when a work session has ended: bell, chime or off. Defaults to chime",
	}

	shortBreakFlag = &cli.StringFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration in minutes or as a duration such as 5m30s (default: 5)",
	}

	longBreakFlag = &cli.StringFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration in minutes or as a duration (default: 15)",
	}

	longBreakIntervalFlag = &cli.UintFlag{
		Name:    "long-break-interval",
		Aliases: []string{"int"},
		Usage:   "The number of work sessions before a long break (default: 4)",
	}

	workFlag = &cli.StringFlag{
		Name:    "work",
		Aliases: []string{"w"},
		Usage:   "Work duration in minutes or as a duration (default: 25)",
	}

	storeFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "Task store backend: bolt, sqlite, postgres or remote",
	}

	storeURLFlag = &cli.StringFlag{
		Name:  "store-url",
		Usage: "Base URL of the task API used by the remote store",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Show sessions for a preset period: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days or all-time",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only include sessions created after this date (e.g. '2 days ago', 2024-03-01)",
	}

	untilFlag = &cli.StringFlag{
		Name:  "until",
		Usage: "Only include sessions created before this date",
	}

	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of sessions to show",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the sessions as JSON",
	}

	taskFlag = &cli.StringFlag{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "The new task name",
	}

	timeFlag = &cli.DurationFlag{
		Name:  "time",
		Usage: "Time worked, e.g. 25m or 1h10m",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}

	addrFlag = &cli.StringFlag{
		Name:  "addr",
		Usage: "Address for the task API to listen on (default: :8080)",
	}

	ttlFlag = &cli.DurationFlag{
		Name:  "ttl",
		Usage: "How long the token stays valid. Zero means it never expires",
		Value: 30 * 24 * time.Hour,
	}
)

var filterFlags = []cli.Flag{
	periodFlag,
	sinceFlag,
	untilFlag,
}
