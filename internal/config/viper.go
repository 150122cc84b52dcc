package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyFocusDuration         = "focus.duration"
	keyFocusMessage          = "focus.message"
	keyFocusSound            = "focus.sound"
	keyFocusColor            = "focus.color"
	keyBreakDuration         = "break.duration"
	keyBreakMessage          = "break.message"
	keyBreakSound            = "break.sound"
	keyBreakColor            = "break.color"
	keyRecorderFlushInterval = "recorder.flush_interval"
	keyRecorderTickInterval  = "recorder.tick_interval"
	keyRecorderSafetyBuffer  = "recorder.safety_buffer"
	keyRecorderMinFlush      = "recorder.min_flush"
	keyLedgerDriver          = "ledger.driver"
	keyLedgerPath            = "ledger.path"
	keyMirrorKind            = "mirror.kind"
	keyMirrorCommand         = "mirror.command"
	keyMirrorField           = "mirror.field"
	keyMirrorBaseURL         = "mirror.base_url"
	keyMirrorToken           = "mirror.token"
	keyMirrorTimeout         = "mirror.timeout"
	keyOnComplete            = "settings.on_complete"
	keySessionCmd            = "settings.cmd"
	keyProject               = "settings.project"
	keyVolume                = "settings.volume"
	keyNotify                = "settings.notify"
	keyAsyncFlush            = "settings.async_flush"
	keyDebug                 = "settings.debug"
	keyDarkTheme             = "display.dark_theme"
	keyTwentyFourHour        = "display.24hr_clock"
)

// envPrefix namespaces environment overrides, e.g. TASKTIMER_MIRROR_TOKEN.
const envPrefix = "TASKTIMER"

// WithViperConfig returns an Option that loads configuration from Viper.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		c.Path = configPath

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
	v.SetDefault(keyFocusDuration, "25m")
	v.SetDefault(keyFocusMessage, "Focus on your task")
	v.SetDefault(keyFocusColor, "#B0DB43")
	v.SetDefault(keyFocusSound, "chime")
	v.SetDefault(keyBreakDuration, "5m")
	v.SetDefault(keyBreakMessage, "Take a breather")
	v.SetDefault(keyBreakColor, "#12EAEA")
	v.SetDefault(keyBreakSound, "chime")
	v.SetDefault(keyRecorderFlushInterval, "1m")
	v.SetDefault(keyRecorderTickInterval, "500ms")
	v.SetDefault(keyRecorderSafetyBuffer, "10s")
	v.SetDefault(keyRecorderMinFlush, "1s")
	v.SetDefault(keyLedgerDriver, "bolt")
	v.SetDefault(keyLedgerPath, "")
	v.SetDefault(keyMirrorKind, "off")
	v.SetDefault(keyMirrorCommand, "task")
	v.SetDefault(keyMirrorField, "")
	v.SetDefault(keyMirrorBaseURL, "")
	v.SetDefault(keyMirrorToken, "")
	v.SetDefault(keyMirrorTimeout, "10s")
	v.SetDefault(keyOnComplete, "loop")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyProject, "default")
	v.SetDefault(keyVolume, 0)
	v.SetDefault(keyNotify, true)
	v.SetDefault(keyAsyncFlush, true)
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTwentyFourHour, false)

	// Values chosen in the first-run prompt become part of the written file.
	if c.Focus.Duration > 0 {
		v.Set(keyFocusDuration, c.Focus.Duration.String())
	}

	if c.Break.Duration > 0 {
		v.Set(keyBreakDuration, c.Break.Duration.String())
	}

	if c.Settings.OnComplete != "" {
		v.Set(keyOnComplete, c.Settings.OnComplete)
	}

	if c.Mirror.Kind != "" {
		v.Set(keyMirrorKind, c.Mirror.Kind)
	}
}

// bindEnv maps secrets to environment variables. It runs after the default
// file is written so that their values never end up in it.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv(keyMirrorToken)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	bindEnv(v)

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	// bare numbers are treated as minutes
	for key, d := range map[string]*time.Duration{
		keyFocusDuration: &c.Focus.Duration,
		keyBreakDuration: &c.Break.Duration,
	} {
		dur, err := parseDuration(v.GetString(key))
		if err != nil {
			return errInvalidConfigDuration.Fmt(key, err)
		}

		*d = dur
	}

	return nil
}

// parseDuration parses duration strings, treating a bare number as minutes.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

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
