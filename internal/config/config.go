// Package config loads tasktimer settings from the config file, the first-run
// prompt and command-line flags.
package config

import (
	"io"
	"os"
	"time"

	"github.com/ayoisaiah/tasktimer/ledger"
)

type (
	// Config holds all configuration settings
	Config struct {
		Focus    ModeConfig     `mapstructure:"focus"`
		Break    ModeConfig     `mapstructure:"break"`
		Recorder RecorderConfig `mapstructure:"recorder"`
		Ledger   LedgerConfig   `mapstructure:"ledger"`
		Mirror   MirrorConfig   `mapstructure:"mirror"`
		Settings SettingsConfig `mapstructure:"settings"`
		Display  DisplayConfig  `mapstructure:"display"`
		CLI      CLIConfig      `mapstructure:"-"`
		Path     string         `mapstructure:"-"`
	}

	// ModeConfig holds the settings of a focus or break countdown.
	ModeConfig struct {
		Message  string        `mapstructure:"message"`
		Color    string        `mapstructure:"color"`
		Sound    string        `mapstructure:"sound"`
		Duration time.Duration `mapstructure:"duration"`
	}

	// RecorderConfig controls how elapsed time is flushed to the ledger.
	RecorderConfig struct {
		// FlushInterval is the cadence of periodic flushes.
		FlushInterval time.Duration `mapstructure:"flush_interval"`
		// TickInterval is the display refresh cadence.
		TickInterval time.Duration `mapstructure:"tick_interval"`
		// SafetyBuffer is the smallest trailing window recorded on stop.
		SafetyBuffer time.Duration `mapstructure:"safety_buffer"`
		// MinFlush is the smallest window a periodic flush will send.
		MinFlush time.Duration `mapstructure:"min_flush"`
	}

	// LedgerConfig selects the ledger backend.
	LedgerConfig struct {
		Driver string `mapstructure:"driver"`
		// Path overrides the default database location.
		Path string `mapstructure:"path"`
	}

	// MirrorConfig configures the external task mirror.
	MirrorConfig struct {
		Kind    string        `mapstructure:"kind"`
		Command string        `mapstructure:"command"`
		Field   string        `mapstructure:"field"`
		BaseURL string        `mapstructure:"base_url"`
		Token   string        `mapstructure:"token"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	// SettingsConfig holds general behaviour settings.
	SettingsConfig struct {
		OnComplete string  `mapstructure:"on_complete"`
		Cmd        string  `mapstructure:"cmd"`
		Project    string  `mapstructure:"project"`
		Volume     float64 `mapstructure:"volume"`
		Notify     bool    `mapstructure:"notify"`
		Async      bool    `mapstructure:"async_flush"`
		Debug      bool    `mapstructure:"debug"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme      bool `mapstructure:"dark_theme"`
		TwentyFourHour bool `mapstructure:"24hr_clock"`
	}

	// CLIConfig holds values that only come from command-line flags.
	CLIConfig struct {
		StartTime    time.Time
		VendorTaskID string
		SessionName  string
		Mode         ledger.Mode
		NewSession   bool
		Stopwatch    bool
		Headless     bool
		NoMirror     bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Durations returns the countdown length of each mode.
func (c *Config) Durations() map[ledger.Mode]time.Duration {
	return map[ledger.Mode]time.Duration{
		ledger.Focus: c.Focus.Duration,
		ledger.Break: c.Break.Duration,
	}
}

// ForMode returns the settings of mode.
func (c *Config) ForMode(mode ledger.Mode) ModeConfig {
	if mode == ledger.Break {
		return c.Break
	}

	return c.Focus
}
