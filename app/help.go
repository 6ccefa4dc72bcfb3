package app

import (
	"fmt"

	"github.com/pterm/pterm"
)

func helpText() string {
	description := fmt.Sprintf(
		"%s\n\t\t{{.Usage}}\n\n",
		pterm.Yellow("DESCRIPTION"),
	)

	usage := fmt.Sprintf(
		"%s\n\t\t{{.HelpName}} {{if .UsageText}}{{ .UsageText }}{{end}}\n\n",
		pterm.Yellow("USAGE"),
	)

	version := fmt.Sprintf(
		"{{if .Version}}%s\n\t\t{{.Version}}{{end}}\n\n",
		pterm.Yellow("VERSION"),
	)

	commands := fmt.Sprintf(
		"%s\n{{range .Commands}}{{if not .HideHelp}}   %s{{ `\t`}}{{.Usage}}{{ `\n` }}{{end}}{{end}}\n\n",
		pterm.Yellow("COMMANDS"),
		pterm.Green("{{join .Names `, `}}"),
	)

	options := fmt.Sprintf(
		"%s\n{{range .VisibleFlags}}\t\t{{if .Aliases}}{{range $element := .Aliases}}%s,{{end}}{{end}} %s\n\t\t\t\t{{.Usage}}\n\n{{end}}",
		pterm.Yellow("OPTIONS"),
		pterm.Green("-{{$element}}"),
		pterm.Green("--{{.Name}} {{.DefaultText}}"),
	)

	env := fmt.Sprintf(
		"%s\n\t\t%s\n\n",
		pterm.Yellow("ENVIRONMENTAL VARIABLES"),
		envHelp(),
	)

	return description + usage + version + commands + options + env
}

func envHelp() string {
	return `
FOCUS_NO_COLOR, NO_COLOR: set to any value to avoid printing ANSI escape sequences for color output.

FOCUS_DEBUG: set to any value to write debug logs.

FOCUS_ENV: suffix for the config, database, status and log files, e.g. "test".

FOCUS_STORE_BACKEND, FOCUS_STORE_URL, FOCUS_STORE_TOKEN, FOCUS_STORE_DSN: task store settings.

FOCUS_JWT_SECRET, FOCUS_ADDR: settings for the task API started by "focus serve".

EMAIL_USER, EMAIL_PASS, FOCUS_SMTP_HOST, FOCUS_SMTP_PORT, FOCUS_MAIL_TO: SMTP settings for the contact form relay.`
}
