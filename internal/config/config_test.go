package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeinfocus/focus/internal/session"
)

// defaultConfig returns a new Config instance with default values.
func defaultConfig() *Config {
	return &Config{
		Work: SessionConfig{
			Message:  "Focus on your task",
			Color:    "#B0DB43",
			Sound:    SoundBell,
			Duration: 25 * time.Minute,
		},
		ShortBreak: SessionConfig{
			Message:  "Take a breather",
			Color:    "#12EAEA",
			Sound:    SoundChime,
			Duration: 5 * time.Minute,
		},
		LongBreak: SessionConfig{
			Message:  "Take a long break",
			Color:    "#C492B1",
			Sound:    SoundChime,
			Duration: 15 * time.Minute,
		},
		Settings: SettingsConfig{
			DefaultTask:       "Work Session",
			LongBreakInterval: 4,
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Display: DisplayConfig{
			DarkTheme:   true,
			RecentTasks: 5,
		},
		Store: StoreConfig{
			Backend:  BackendBolt,
			Timeout:  10 * time.Second,
			Fallback: true,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
		},
	}
}

func TestViperWritesDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := New(WithViperConfig(configPath))
	require.NoError(t, err)

	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(configPath)
	require.NoError(t, err, "default config file should be written")

	// reading the written file back yields the same config
	again, err := New(WithViperConfig(configPath))
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestViperReadsExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	yml := `work:
  duration: 50m
  message: Ship it
settings:
  long_break_interval: 6
  default_task: Writing
store:
  backend: sqlite
`
	require.NoError(t, os.WriteFile(configPath, []byte(yml), 0o600))

	cfg, err := New(WithViperConfig(configPath))
	require.NoError(t, err)

	assert.Equal(t, 50*time.Minute, cfg.Work.Duration)
	assert.Equal(t, "Ship it", cfg.Work.Message)
	assert.Equal(t, "#B0DB43", cfg.Work.Color)
	assert.Equal(t, 5*time.Minute, cfg.ShortBreak.Duration)
	assert.Equal(t, 6, cfg.Settings.LongBreakInterval)
	assert.Equal(t, "Writing", cfg.Settings.DefaultTask)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
}

func TestViperPersistsPromptValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	prompted := func(c *Config) error {
		applyPromptOptions(c, PromptOptions{
			WorkDuration:       50,
			ShortBreakDuration: 10,
			LongBreakDuration:  30,
			LongBreakInterval:  6,
			Backend:            BackendSQLite,
		})

		return nil
	}

	_, err := New(prompted, WithViperConfig(configPath))
	require.NoError(t, err)

	cfg, err := New(WithViperConfig(configPath))
	require.NoError(t, err)

	assert.Equal(t, 50*time.Minute, cfg.Work.Duration)
	assert.Equal(t, 10*time.Minute, cfg.ShortBreak.Duration)
	assert.Equal(t, 30*time.Minute, cfg.LongBreak.Duration)
	assert.Equal(t, 6, cfg.Settings.LongBreakInterval)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
}

func TestInvalidConfigFileFailsValidation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(
		t,
		os.WriteFile(configPath, []byte("short_break:\n  duration: 30m\n"), 0o600),
	)

	_, err := New(WithViperConfig(configPath))
	require.Error(t, err)
	assert.ErrorIs(t, err, errConfigValidation)
	assert.ErrorIs(t, err, errShortBreakTooLong)
}

func TestDurations(t *testing.T) {
	d := defaultConfig().Durations()

	assert.Equal(t, 25*time.Minute, d[session.Work])
	assert.Equal(t, 5*time.Minute, d[session.Break])
	assert.Equal(t, 15*time.Minute, d[session.LongBreak])
	assert.Equal(t, "Take a long break", defaultConfig().Phase(session.LongBreak).Message)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("FOCUS_JWT_SECRET", "s3cret")
	t.Setenv("FOCUS_STORE_TOKEN", "tok")
	t.Setenv("FOCUS_STORE_BACKEND", "remote")
	t.Setenv("FOCUS_STORE_URL", "https://focus.example.com")
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("FOCUS_SMTP_PORT", "2525")

	cfg := defaultConfig()

	require.NoError(t, WithEnvConfig()(cfg))

	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
	assert.Equal(t, "tok", cfg.Store.Token)
	assert.Equal(t, BackendRemote, cfg.Store.Backend)
	assert.Equal(t, "https://focus.example.com", cfg.Store.URL)
	assert.Equal(t, "bot@example.com", cfg.Mail.User)
	assert.Equal(t, "app-password", cfg.Mail.Pass)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, ":8080", cfg.Server.Addr, "unset variables keep file values")
	assert.NoError(t, cfg.Validate())
}

func TestEnvConfigRejectsBadPort(t *testing.T) {
	t.Setenv("FOCUS_SMTP_PORT", "not-a-port")

	err := WithEnvConfig()(defaultConfig())
	assert.ErrorIs(t, err, errParseEnv)
}
