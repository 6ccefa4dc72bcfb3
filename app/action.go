package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lifeinfocus/focus/internal/apperr"
	"github.com/lifeinfocus/focus/internal/config"
	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/pathutil"
	"github.com/lifeinfocus/focus/internal/ui"
	"github.com/lifeinfocus/focus/server"
	"github.com/lifeinfocus/focus/store"
	"github.com/lifeinfocus/focus/tasks"
	"github.com/lifeinfocus/focus/timer"
)

const (
	envNoColor      = "NO_COLOR"
	envFocusNoColor = "FOCUS_NO_COLOR"
	envDebug        = "FOCUS_DEBUG"
)

var (
	errMissingID = &apperr.Error{
		Message: "provide the id of the session, as shown by 'focus tasks'",
	}

	errMissingTask = &apperr.Error{
		Message: "provide the name of the task",
	}

	errMissingOwner = &apperr.Error{
		Message: "provide the owner id the token is issued for",
	}

	errNoJWTSecret = &apperr.Error{
		Message: "set server.jwt_secret or FOCUS_JWT_SECRET before minting tokens",
	}

	errServeRemote = &apperr.Error{
		Message: "the task API cannot be served from the remote store, choose a local or postgres backend",
	}
)

// logFile receives the application log. It is opened in beforeAction.
var logFile *lumberjack.Logger

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// loadConfig builds the configuration from the config file, the environment
// and the command-line flags. The first-run prompt is only shown when
// interactive is set.
func loadConfig(ctx *cli.Context, interactive bool) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	opts := make([]config.Option, 0, 4)

	if interactive {
		opts = append(opts, config.WithPromptConfig(path))
	}

	opts = append(
		opts,
		config.WithViperConfig(path),
		config.WithEnvConfig(),
		config.WithCLIConfig(ctx),
	)

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	return cfg, nil
}

// openStore loads the configuration and opens the configured task store.
func openStore(
	ctx *cli.Context,
	interactive bool,
) (*config.Config, store.TaskStore, error) {
	cfg, err := loadConfig(ctx, interactive)
	if err != nil {
		return nil, nil, err
	}

	ts, err := store.Open(ctx.Context, &cfg.Store, slog.Default())
	if err != nil {
		return nil, nil, err
	}

	return cfg, ts, nil
}

func taskManager(ctx *cli.Context) (*tasks.Manager, func(), error) {
	cfg, ts, err := openStore(ctx, false)
	if err != nil {
		return nil, nil, err
	}

	m := tasks.New(
		ts,
		os.Stdout,
		os.Stdin,
		tasks.WithOwner(cfg.Store.OwnerID),
		tasks.AssumeYes(ctx.Bool("yes")),
	)

	closeStore := func() {
		if err := ts.Close(); err != nil {
			slog.Warn("closing the task store failed", slog.Any("error", err))
		}
	}

	return m, closeStore, nil
}

// defaultAction starts the timer.
func defaultAction(ctx *cli.Context) error {
	cfg, ts, err := openStore(ctx, true)
	if err != nil {
		return err
	}

	defer ts.Close()

	return timer.Run(
		cfg,
		ts,
		slog.Default(),
		timer.WithStatusFile(pathutil.StatusFilePath()),
	)
}

// listAction prints the sessions created within a time period.
func listAction(ctx *cli.Context) error {
	f, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	m, done, err := taskManager(ctx)
	if err != nil {
		return err
	}

	defer done()

	return m.List(ctx.Context, f.Since, f.Until, f.Limit, ctx.Bool("json"))
}

// summaryAction prints the time worked per task within a time period.
func summaryAction(ctx *cli.Context) error {
	f, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	m, done, err := taskManager(ctx)
	if err != nil {
		return err
	}

	defer done()

	return m.Summary(ctx.Context, f.Since, f.Until)
}

// addAction logs a session that was not timed by focus.
func addAction(ctx *cli.Context) error {
	name := strings.TrimSpace(strings.Join(ctx.Args().Slice(), " "))
	if name == "" {
		return errMissingTask
	}

	m, done, err := taskManager(ctx)
	if err != nil {
		return err
	}

	defer done()

	_, err = m.Add(ctx.Context, name, ctx.Duration("time"), time.Time{})
	if errors.Is(err, store.ErrStoredLocally) {
		pterm.Warning.Println(err)
		return nil
	}

	return err
}

// editAction changes the task name or duration of a session.
func editAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return errMissingID
	}

	m, done, err := taskManager(ctx)
	if err != nil {
		return err
	}

	defer done()

	_, err = m.Edit(ctx.Context, id, sessionUpdate(ctx))

	return err
}

// sessionUpdate collects the fields set on the edit command.
func sessionUpdate(ctx *cli.Context) models.SessionUpdate {
	var upd models.SessionUpdate

	if ctx.IsSet("task") {
		name := ctx.String("task")
		upd.TaskName = &name
	}

	if ctx.IsSet("time") {
		secs := int(ctx.Duration("time") / time.Second)
		upd.SecondsWorked = &secs
	}

	return upd
}

// deleteAction deletes sessions by id or by time range.
func deleteAction(ctx *cli.Context) error {
	ids := ctx.Args().Slice()

	var since, until time.Time

	if len(ids) == 0 {
		f, err := config.Filter(ctx)
		if err != nil {
			return err
		}

		since, until = f.Since, f.Until
	}

	m, done, err := taskManager(ctx)
	if err != nil {
		return err
	}

	defer done()

	_, err = m.Delete(ctx.Context, ids, since, until)

	return err
}

// statusAction prints the status of the running timer, if any.
func statusAction(_ *cli.Context) error {
	return timer.ReportStatus(pathutil.StatusFilePath(), os.Stdout, time.Now())
}

// serveAction runs the task API until the process is interrupted.
func serveAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	if cfg.Store.Backend == config.BackendRemote {
		return errServeRemote
	}

	gin.SetMode(gin.ReleaseMode)

	logger := slog.New(slog.NewTextHandler(
		io.MultiWriter(os.Stderr, logFile),
		&slog.HandlerOptions{Level: logLevel()},
	))

	ts, err := store.Open(ctx.Context, &cfg.Store, logger)
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithLogger(logger)}

	if cfg.Server.JWTSecret != "" {
		opts = append(opts, server.WithJWTSecret(cfg.Server.JWTSecret))
	} else {
		logger.Warn("no jwt secret configured, the task API is unauthenticated")
	}

	if cfg.Mail.User != "" {
		opts = append(opts, server.WithMailer(server.NewSMTPMailer(cfg.Mail)))
	}

	srv := server.New(ts, opts...)

	code, err := srv.ListenAndServe(
		ctx.Context,
		cfg.Server.Addr,
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"task-store": func(context.Context) error {
				return ts.Close()
			},
		},
	)
	if err != nil {
		_ = ts.Close()
		return err
	}

	if code != 0 {
		return cli.Exit("", code)
	}

	return nil
}

// tokenAction prints a bearer token for the given owner.
func tokenAction(ctx *cli.Context) error {
	owner := strings.TrimSpace(ctx.Args().First())
	if owner == "" {
		return errMissingOwner
	}

	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	if cfg.Server.JWTSecret == "" {
		return errNoJWTSecret
	}

	token, err := server.NewToken(cfg.Server.JWTSecret, owner, ctx.Duration("ttl"))
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, token)

	return nil
}

// editConfigAction handles the edit-config command which opens the focus config
// file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func logLevel() slog.Level {
	if _, found := os.LookupEnv(envDebug); found {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// setupLogger sends the default slog logger to a rotating log file.
func setupLogger() {
	logFile = &lumberjack.Logger{
		Filename:   pathutil.LogFilePath(),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		logFile,
		&slog.HandlerOptions{Level: logLevel()},
	)))
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if FOCUS_NO_COLOR is set
	if _, exists := os.LookupEnv(envFocusNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	setupLogger()

	slog.DebugContext(ctx.Context, "starting focus", slog.Any("args", ctx.Args().Slice()))

	return nil
}

func afterAction(ctx *cli.Context) error {
	if logFile == nil {
		return nil
	}

	slog.DebugContext(ctx.Context, "exiting focus")

	return logFile.Close()
}
