package config

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

var (
	// Minimum and maximum duration constraints.
	minSessionDuration = 1 * time.Second
	maxSessionDuration = 720 * time.Minute // 12 hours

	// Valid long break intervals.
	minLongBreakInterval = 2
	maxLongBreakInterval = 10

	maxRecentTasks = 50

	// Color format validation.
	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateSessionConfig(c.Work, "work"); err != nil {
		return err
	}

	if err := c.validateSessionConfig(c.ShortBreak, "short break"); err != nil {
		return err
	}

	if err := c.validateSessionConfig(c.LongBreak, "long break"); err != nil {
		return err
	}

	if err := c.validateSessionRelationships(); err != nil {
		return err
	}

	if err := c.validateSettings(); err != nil {
		return err
	}

	return c.validateStore()
}

// validateSessionConfig validates an individual SessionConfig.
func (c *Config) validateSessionConfig(
	sc SessionConfig,
	sessionType string,
) error {
	if sc.Duration < minSessionDuration || sc.Duration > maxSessionDuration {
		return errInvalidDuration.Fmt(
			sessionType,
			minSessionDuration,
			maxSessionDuration,
		)
	}

	if strings.TrimSpace(sc.Message) == "" {
		return errEmptyMsg.Fmt(sessionType)
	}

	if !hexColorRegex.MatchString(sc.Color) {
		return errInvalidColor.Fmt(sessionType, sc.Color)
	}

	if !slices.Contains(alertSounds, sc.Sound) {
		return errUnknownAlertSound.Fmt(sc.Sound)
	}

	return nil
}

// validateSettings validates the SettingsConfig and DisplayConfig.
func (c *Config) validateSettings() error {
	if c.Settings.LongBreakInterval < minLongBreakInterval ||
		c.Settings.LongBreakInterval > maxLongBreakInterval {
		return errInvalidLongBreakInterval.Fmt(
			minLongBreakInterval,
			maxLongBreakInterval,
		)
	}

	if c.Display.RecentTasks < 0 || c.Display.RecentTasks > maxRecentTasks {
		return errInvalidRecentTasks.Fmt(maxRecentTasks)
	}

	return nil
}

// validateSessionRelationships validates logical relationships between sessions.
func (c *Config) validateSessionRelationships() error {
	if c.ShortBreak.Duration >= c.Work.Duration {
		return errShortBreakTooLong.Fmt(c.ShortBreak.Duration, c.Work.Duration)
	}

	if c.LongBreak.Duration < c.ShortBreak.Duration {
		return errLongBreakTooShort.Fmt(
			c.LongBreak.Duration,
			c.ShortBreak.Duration,
		)
	}

	return nil
}

// validateStore checks that the selected backend has what it needs to
// connect.
func (c *Config) validateStore() error {
	s := c.Store

	if !slices.Contains(backends, s.Backend) {
		return errUnknownBackend.Fmt(s.Backend)
	}

	switch s.Backend {
	case BackendPostgres:
		if s.DSN == "" {
			return errMissingStoreSetting.Fmt(s.Backend, "dsn")
		}
	case BackendRemote:
		if s.URL == "" {
			return errMissingStoreSetting.Fmt(s.Backend, "url")
		}
	case BackendBolt, BackendSQLite:
	}

	return nil
}
