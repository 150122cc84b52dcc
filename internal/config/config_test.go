package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/internal/config"
)

// defaultConfig returns a new Config instance with default values.
func defaultConfig(path string) *config.Config {
	return &config.Config{
		Path: path,
		Focus: config.ModeConfig{
			Message:  "Focus on your task",
			Color:    "#B0DB43",
			Sound:    "chime",
			Duration: 25 * time.Minute,
		},
		Break: config.ModeConfig{
			Message:  "Take a breather",
			Color:    "#12EAEA",
			Sound:    "chime",
			Duration: 5 * time.Minute,
		},
		Recorder: config.RecorderConfig{
			FlushInterval: time.Minute,
			TickInterval:  500 * time.Millisecond,
			SafetyBuffer:  10 * time.Second,
			MinFlush:      time.Second,
		},
		Ledger: config.LedgerConfig{
			Driver: "bolt",
		},
		Mirror: config.MirrorConfig{
			Kind:    "off",
			Command: "task",
			Timeout: 10 * time.Second,
		},
		Settings: config.SettingsConfig{
			OnComplete: "loop",
			Project:    "default",
			Notify:     true,
			Async:      true,
		},
		Display: config.DisplayConfig{
			DarkTheme: true,
		},
	}
}

func TestViperWriteConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	require.NoError(t, err, "default config should be written on first run")

	assert.Equal(t, defaultConfig(configPath), cfg)

	// reading the written file yields the same configuration
	again, err := config.New(config.WithViperConfig(configPath))
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

const modifiedConfig = `focus:
  duration: 50
  message: Deep work
  color: "#FF0000"
  sound: "off"
break:
  duration: 10m
recorder:
  flush_interval: 30s
  safety_buffer: 5s
ledger:
  driver: sqlite
mirror:
  kind: http
  base_url: https://tasks.example.com/api
settings:
  on_complete: stop
  project: work
`

func TestViperReadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, os.WriteFile(configPath, []byte(modifiedConfig), 0o600))

	cfg, err := config.New(config.WithViperConfig(configPath))
	require.NoError(t, err)

	want := defaultConfig(configPath)
	want.Focus = config.ModeConfig{
		Message:  "Deep work",
		Color:    "#FF0000",
		Sound:    "off",
		Duration: 50 * time.Minute,
	}
	want.Break.Duration = 10 * time.Minute
	want.Recorder.FlushInterval = 30 * time.Second
	want.Recorder.SafetyBuffer = 5 * time.Second
	want.Ledger.Driver = "sqlite"
	want.Mirror.Kind = "http"
	want.Mirror.BaseURL = "https://tasks.example.com/api"
	want.Settings.OnComplete = "stop"
	want.Settings.Project = "work"

	assert.Equal(t, want, cfg)
}

func TestMirrorTokenFromEnv(t *testing.T) {
	t.Setenv("TASKTIMER_MIRROR_TOKEN", "s3cret")

	cfg, err := config.New(
		config.WithViperConfig(filepath.Join(t.TempDir(), "config.yml")),
	)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Mirror.Token)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		mutate func(c *config.Config)
		name   string
	}{
		{
			name:   "focus longer than an hour",
			mutate: func(c *config.Config) { c.Focus.Duration = 90 * time.Minute },
		},
		{
			name:   "break shorter than a minute",
			mutate: func(c *config.Config) { c.Break.Duration = 30 * time.Second },
		},
		{
			name:   "bad color",
			mutate: func(c *config.Config) { c.Focus.Color = "green" },
		},
		{
			name:   "empty message",
			mutate: func(c *config.Config) { c.Break.Message = " " },
		},
		{
			name:   "unsupported sound",
			mutate: func(c *config.Config) { c.Focus.Sound = "bell.aiff" },
		},
		{
			name:   "unknown policy",
			mutate: func(c *config.Config) { c.Settings.OnComplete = "repeat" },
		},
		{
			name:   "unknown driver",
			mutate: func(c *config.Config) { c.Ledger.Driver = "postgres" },
		},
		{
			name:   "unknown mirror",
			mutate: func(c *config.Config) { c.Mirror.Kind = "jira" },
		},
		{
			name:   "http mirror without url",
			mutate: func(c *config.Config) { c.Mirror.Kind = "http" },
		},
		{
			name:   "min flush above flush interval",
			mutate: func(c *config.Config) { c.Recorder.MinFlush = 2 * time.Minute },
		},
		{
			name:   "tick interval too small",
			mutate: func(c *config.Config) { c.Recorder.TickInterval = time.Millisecond },
		},
		{
			name:   "missing project",
			mutate: func(c *config.Config) { c.Settings.Project = "" },
		},
	}

	require.NoError(t, defaultConfig("").Validate())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := defaultConfig("")
			tc.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation), err.Error())
		})
	}
}

func TestInvalidConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, os.WriteFile(configPath, []byte("focus:\n  duration: 2h\n"), 0o600))

	_, err := config.New(config.WithViperConfig(configPath))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
