package timer

import (
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/lifeinfocus/focus/internal/config"
	"github.com/lifeinfocus/focus/internal/session"
)

const sessionCmdTimeout = time.Minute

// Alert announces the end of a phase with a desktop notification, a short
// tone and the user's session command.
type Alert struct {
	cfg    *config.Config
	logger *slog.Logger
	next   func() session.Phase
	notify func(title, msg string) error
	play   func(sound string) error
	run    func(ctx context.Context, args []string) ([]byte, error)
}

// NewAlert returns an Alert configured from cfg.
func NewAlert(cfg *config.Config, logger *slog.Logger) *Alert {
	return &Alert{
		cfg:    cfg,
		logger: logger,
		notify: desktopNotify,
		play:   playSound,
		run:    runCmd,
	}
}

// Follow sets the source of the phase that comes after an announced one.
// Without it the alert assumes a short break follows work.
func (a *Alert) Follow(next func() session.Phase) {
	a.next = next
}

// AnnouncePhaseEnd implements session.Announcer. Failures are logged.
func (a *Alert) AnnouncePhaseEnd(ended session.Phase) {
	next := a.nextPhase(ended)
	settings := a.cfg.Phase(next)

	if a.cfg.Notifications.Enabled {
		title := ended.String() + " is finished"

		if err := a.notify(title, settings.Message); err != nil {
			a.logger.Warn(
				"unable to display notification",
				slog.Any("error", err),
			)
		}
	}

	if err := a.play(settings.Sound); err != nil {
		a.logger.Warn(
			"unable to play alert sound",
			slog.String("sound", settings.Sound),
			slog.Any("error", err),
		)
	}

	if err := a.runSessionCmd(); err != nil {
		a.logger.Warn("session command failed", slog.Any("error", err))
	}
}

func (a *Alert) nextPhase(ended session.Phase) session.Phase {
	if a.next != nil {
		return a.next()
	}

	if ended == session.Work {
		return session.Break
	}

	return session.Work
}

// runSessionCmd executes settings.cmd and logs its output.
func (a *Alert) runSessionCmd() error {
	args, err := splitCmd(a.cfg.Settings.Cmd)
	if err != nil || len(args) == 0 {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sessionCmdTimeout)
	defer cancel()

	out, err := a.run(ctx, args)
	if err != nil {
		return errSessionCmd.Fmt(a.cfg.Settings.Cmd).Wrap(err)
	}

	if out := strings.TrimSpace(string(out)); out != "" {
		a.logger.Info(
			"session command output",
			slog.String("cmd", a.cfg.Settings.Cmd),
			slog.String("output", out),
		)
	}

	return nil
}

func splitCmd(cmd string) ([]string, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, nil
	}

	args, err := shellquote.Split(cmd)
	if err != nil {
		return nil, errSessionCmd.Fmt(cmd).Wrap(err)
	}

	return args, nil
}

func runCmd(ctx context.Context, args []string) ([]byte, error) {
	//nolint:gosec // the command comes from the user's own config
	return exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
}

func desktopNotify(title, msg string) error {
	// empty when the icon is not installed
	icon, _ := xdg.SearchDataFile(filepath.Join("focus", "icon.png"))

	return beeep.Notify(title, msg, icon)
}
