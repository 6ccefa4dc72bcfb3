package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		mutate func(c *Config)
		want   error
		name   string
	}{
		{
			name:   "defaults are valid",
			mutate: func(_ *Config) {},
		},
		{
			name:   "work too short",
			mutate: func(c *Config) { c.Work.Duration = 0 },
			want:   errInvalidDuration,
		},
		{
			name:   "work too long",
			mutate: func(c *Config) { c.Work.Duration = 13 * time.Hour },
			want:   errInvalidDuration,
		},
		{
			name:   "empty message",
			mutate: func(c *Config) { c.LongBreak.Message = "  " },
			want:   errEmptyMsg,
		},
		{
			name:   "bad color",
			mutate: func(c *Config) { c.ShortBreak.Color = "teal" },
			want:   errInvalidColor,
		},
		{
			name:   "unknown sound",
			mutate: func(c *Config) { c.Work.Sound = "gong" },
			want:   errUnknownAlertSound,
		},
		{
			name:   "sound off",
			mutate: func(c *Config) { c.Work.Sound = SoundOff },
		},
		{
			name:   "short break not shorter than work",
			mutate: func(c *Config) { c.ShortBreak.Duration = c.Work.Duration },
			want:   errShortBreakTooLong,
		},
		{
			name:   "long break shorter than short break",
			mutate: func(c *Config) { c.LongBreak.Duration = time.Minute },
			want:   errLongBreakTooShort,
		},
		{
			name:   "interval too small",
			mutate: func(c *Config) { c.Settings.LongBreakInterval = 1 },
			want:   errInvalidLongBreakInterval,
		},
		{
			name:   "interval too large",
			mutate: func(c *Config) { c.Settings.LongBreakInterval = 11 },
			want:   errInvalidLongBreakInterval,
		},
		{
			name:   "too many recent tasks",
			mutate: func(c *Config) { c.Display.RecentTasks = 500 },
			want:   errInvalidRecentTasks,
		},
		{
			name:   "unknown backend",
			mutate: func(c *Config) { c.Store.Backend = "mongo" },
			want:   errUnknownBackend,
		},
		{
			name:   "postgres without dsn",
			mutate: func(c *Config) { c.Store.Backend = BackendPostgres },
			want:   errMissingStoreSetting,
		},
		{
			name:   "remote without url",
			mutate: func(c *Config) { c.Store.Backend = BackendRemote },
			want:   errMissingStoreSetting,
		},
		{
			name: "remote with url",
			mutate: func(c *Config) {
				c.Store.Backend = BackendRemote
				c.Store.URL = "http://localhost:8080"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.want)
		})
	}
}
