// Package app defines the focus command-line interface
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/lifeinfocus/focus/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the focus app instance.
func Get() *cli.App {
	focusApp := &cli.App{
		Name: "focus",
		Usage: `
		Focus is a Pomodoro timer for the command-line. Work on a task in
		focused intervals separated by short breaks, with a longer break after
		every few intervals. Completed work is logged to a task store.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "tasks",
				Aliases: []string{"list"},
				Usage:   "List completed sessions. Defaults to the last 7 days",
				Flags:   append([]cli.Flag{limitFlag, jsonFlag}, filterFlags...),
				Action:  listAction,
			},
			{
				Name:   "summary",
				Usage:  "Summarise the time worked per task. Defaults to the last 7 days",
				Flags:  filterFlags,
				Action: summaryAction,
			},
			{
				Name:      "add",
				Usage:     "Log a session by hand",
				UsageText: "focus add --time 25m <task name>",
				Flags:     []cli.Flag{timeFlag},
				Action:    addAction,
			},
			{
				Name:      "edit",
				Usage:     "Change the task name or time worked of a session",
				UsageText: "focus edit <id> [--task NAME] [--time DURATION]",
				Flags:     []cli.Flag{taskFlag, timeFlag, yesFlag},
				Action:    editAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete sessions by id, or every session in a time range",
				UsageText: "focus delete [<id>...] [--period PERIOD | --since DATE --until DATE]",
				Flags:     append([]cli.Flag{yesFlag}, filterFlags...),
				Action:    deleteAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the timer",
				Action: statusAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve the task API used by the remote store",
				Flags:  []cli.Flag{addrFlag},
				Action: serveAction,
			},
			{
				Name:      "token",
				Usage:     "Mint a bearer token for the task API",
				UsageText: "focus token <owner id> [--ttl DURATION]",
				Flags:     []cli.Flag{ttlFlag},
				Action:    tokenAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			workFlag,
			shortBreakFlag,
			longBreakFlag,
			longBreakIntervalFlag,
			disableNotificationFlag,
			workSoundFlag,
			breakSoundFlag,
			sessionCmdFlag,
			storeFlag,
			storeURLFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return focusApp
}
