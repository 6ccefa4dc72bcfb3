package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Work              string
	ShortBreak        string
	LongBreak         string
	SessionCmd        string
	WorkSound         string
	BreakSound        string
	Backend           string
	StoreURL          string
	Addr              string
	LongBreakInterval uint
	DisableNotify     bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Work:              ctx.String("work"),
			ShortBreak:        ctx.String("short-break"),
			LongBreak:         ctx.String("long-break"),
			LongBreakInterval: ctx.Uint("long-break-interval"),
			SessionCmd:        ctx.String("session-cmd"),
			WorkSound:         ctx.String("work-sound"),
			BreakSound:        ctx.String("break-sound"),
			DisableNotify:     ctx.Bool("disable-notification"),
			Backend:           ctx.String("store"),
			StoreURL:          ctx.String("store-url"),
			Addr:              ctx.String("addr"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if err := applyCLIDurations(c, opts); err != nil {
		return err
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	applyCLISounds(c, opts)

	setIfNotEmpty(&c.Settings.Cmd, opts.SessionCmd)
	setIfNotEmpty((*string)(&c.Store.Backend), opts.Backend)
	setIfNotEmpty(&c.Store.URL, opts.StoreURL)
	setIfNotEmpty(&c.Server.Addr, opts.Addr)

	return nil
}

// applyCLIDurations handles parsing and applying duration settings from CLI.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	durations := []struct {
		dst  *SessionConfig
		name string
		val  string
	}{
		{&c.Work, "work", opts.Work},
		{&c.ShortBreak, "short break", opts.ShortBreak},
		{&c.LongBreak, "long break", opts.LongBreak},
	}

	for _, d := range durations {
		if d.val == "" {
			continue
		}

		dur, err := parseDuration(d.val)
		if err != nil {
			return errInvalidCLIDuration.Fmt(d.name).Wrap(err)
		}

		d.dst.Duration = dur
	}

	if opts.LongBreakInterval > 0 {
		c.Settings.LongBreakInterval = int(opts.LongBreakInterval)
	}

	return nil
}

// applyCLISounds handles sound-related CLI options.
func applyCLISounds(c *Config, opts CLIOptions) {
	if opts.WorkSound != "" {
		c.Work.Sound = opts.WorkSound
	}

	if opts.BreakSound != "" {
		c.ShortBreak.Sound = opts.BreakSound
		c.LongBreak.Sound = opts.BreakSound
	}
}
