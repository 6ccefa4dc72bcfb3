package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyWorkDuration         = "work.duration"
	keyWorkMessage          = "work.message"
	keyWorkSound            = "work.sound"
	keyWorkColor            = "work.color"
	keyShortBreakDuration   = "short_break.duration"
	keyShortBreakMessage    = "short_break.message"
	keyShortBreakSound      = "short_break.sound"
	keyShortBreakColor      = "short_break.color"
	keyLongBreakDuration    = "long_break.duration"
	keyLongBreakMessage     = "long_break.message"
	keyLongBreakSound       = "long_break.sound"
	keyLongBreakColor       = "long_break.color"
	keyLongBreakInterval    = "settings.long_break_interval"
	keyDefaultTask          = "settings.default_task"
	keySessionCmd           = "settings.cmd"
	keyTwentyFourHour       = "settings.24hr_clock"
	keyNotificationsEnabled = "notifications.enabled"
	keyDarkTheme            = "display.dark_theme"
	keyRecentTasks          = "display.recent_tasks"
	keyStoreBackend         = "store.backend"
	keyStorePath            = "store.path"
	keyStoreDSN             = "store.dsn"
	keyStoreURL             = "store.url"
	keyStoreOwner           = "store.owner_id"
	keyStoreTimeout         = "store.timeout"
	keyStoreFallback        = "store.fallback"
	keyServerAddr           = "server.addr"
	keyServerShutdown       = "server.shutdown_timeout"
)

// WithViperConfig returns an Option that loads configuration from Viper.
// A config file populated with defaults is written if none exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyWorkDuration, "25m")
	v.SetDefault(keyWorkMessage, "Focus on your task")
	v.SetDefault(keyWorkColor, "#B0DB43")
	v.SetDefault(keyWorkSound, SoundBell)
	v.SetDefault(keyShortBreakDuration, "5m")
	v.SetDefault(keyShortBreakMessage, "Take a breather")
	v.SetDefault(keyShortBreakColor, "#12EAEA")
	v.SetDefault(keyShortBreakSound, SoundChime)
	v.SetDefault(keyLongBreakColor, "#C492B1")
	v.SetDefault(keyLongBreakMessage, "Take a long break")
	v.SetDefault(keyLongBreakDuration, "15m")
	v.SetDefault(keyLongBreakSound, SoundChime)
	v.SetDefault(keyLongBreakInterval, 4)
	v.SetDefault(keyDefaultTask, "Work Session")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyRecentTasks, 5)
	v.SetDefault(keyStoreBackend, string(BackendBolt))
	v.SetDefault(keyStorePath, "")
	v.SetDefault(keyStoreDSN, "")
	v.SetDefault(keyStoreURL, "")
	v.SetDefault(keyStoreOwner, "")
	v.SetDefault(keyStoreTimeout, "10s")
	v.SetDefault(keyStoreFallback, true)
	v.SetDefault(keyServerAddr, ":8080")
	v.SetDefault(keyServerShutdown, "15s")

	// values chosen in the first-run prompt are persisted to the new file
	if c.Work.Duration != 0 {
		v.Set(keyWorkDuration, c.Work.Duration.String())
	}

	if c.ShortBreak.Duration != 0 {
		v.Set(keyShortBreakDuration, c.ShortBreak.Duration.String())
	}

	if c.LongBreak.Duration != 0 {
		v.Set(keyLongBreakDuration, c.LongBreak.Duration.String())
	}

	if c.Settings.LongBreakInterval != 0 {
		v.Set(keyLongBreakInterval, c.Settings.LongBreakInterval)
	}

	if c.Store.Backend != "" {
		v.Set(keyStoreBackend, string(c.Store.Backend))
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	return nil
}

// parseDuration accepts Go duration strings and bare numbers, which are
// treated as minutes.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return mins, nil
}
