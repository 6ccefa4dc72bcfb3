// Package config assembles the focus configuration from the config file,
// environment variables, command-line flags and the first-run prompt
package config

import (
	"fmt"
	"time"

	"github.com/lifeinfocus/focus/internal/session"
)

type (
	// Config holds all configuration settings
	Config struct {
		Work          SessionConfig      `mapstructure:"work"`
		ShortBreak    SessionConfig      `mapstructure:"short_break"`
		LongBreak     SessionConfig      `mapstructure:"long_break"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Display       DisplayConfig      `mapstructure:"display"`
		Store         StoreConfig        `mapstructure:"store"`
		Server        ServerConfig       `mapstructure:"server"`
		Mail          MailConfig         `mapstructure:"-"`
	}

	// SessionConfig holds the settings of a single phase
	SessionConfig struct {
		Message  string        `mapstructure:"message"`
		Color    string        `mapstructure:"color"`
		Sound    string        `mapstructure:"sound"`
		Duration time.Duration `mapstructure:"duration"`
	}

	// SettingsConfig holds timer behaviour settings
	SettingsConfig struct {
		DefaultTask       string `mapstructure:"default_task"`
		Cmd               string `mapstructure:"cmd"`
		LongBreakInterval int    `mapstructure:"long_break_interval"`
		TwentyFourHour    bool   `mapstructure:"24hr_clock"`
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme   bool `mapstructure:"dark_theme"`
		RecentTasks int  `mapstructure:"recent_tasks"`
	}

	// StoreConfig selects and configures the task store
	StoreConfig struct {
		Backend Backend       `mapstructure:"backend"`
		Path    string        `mapstructure:"path"`
		DSN     string        `mapstructure:"dsn"`
		URL     string        `mapstructure:"url"`
		Token   string        `mapstructure:"token"`
		OwnerID string        `mapstructure:"owner_id"`
		Timeout time.Duration `mapstructure:"timeout"`
		// Fallback writes sessions to the local store when the remote store
		// rejects them.
		Fallback bool `mapstructure:"fallback"`
	}

	// ServerConfig holds settings for `focus serve`
	ServerConfig struct {
		Addr            string        `mapstructure:"addr"`
		JWTSecret       string        `mapstructure:"jwt_secret"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}

	// MailConfig holds the SMTP settings of the contact form relay. It is
	// only read from the environment.
	MailConfig struct {
		User string `env:"EMAIL_USER"`
		Pass string `env:"EMAIL_PASS"`
		Host string `env:"FOCUS_SMTP_HOST" envDefault:"smtp.gmail.com"`
		To   string `env:"FOCUS_MAIL_TO"`
		Port int    `env:"FOCUS_SMTP_PORT" envDefault:"587"`
	}

	// Option is a function that modifies Config
	Option func(*Config) error

	// Backend names a task store implementation
	Backend string
)

const Version = "v0.4.0"

const (
	BackendBolt     Backend = "bolt"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRemote   Backend = "remote"
)

var backends = []Backend{
	BackendBolt,
	BackendSQLite,
	BackendPostgres,
	BackendRemote,
}

const (
	SoundOff   = "off"
	SoundBell  = "bell"
	SoundChime = "chime"
)

var alertSounds = []string{"", SoundOff, SoundBell, SoundChime}

// New creates a new Config and applies options in order, so later options
// override earlier ones. The result is validated.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Durations returns the phase lengths in the form the timer expects.
func (c *Config) Durations() session.Durations {
	return session.Durations{
		session.Work:      c.Work.Duration,
		session.Break:     c.ShortBreak.Duration,
		session.LongBreak: c.LongBreak.Duration,
	}
}

// Phase returns the settings of the given phase.
func (c *Config) Phase(p session.Phase) SessionConfig {
	switch p {
	case session.Work:
		return c.Work
	case session.Break:
		return c.ShortBreak
	case session.LongBreak:
		return c.LongBreak
	}

	panic(fmt.Sprintf("config: no settings for %v", p))
}
