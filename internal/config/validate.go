package config

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/tasktimer/ledger"
)

var (
	// Minimum and maximum countdown constraints.
	minModeDuration = 1 * time.Minute
	maxModeDuration = 60 * time.Minute

	minTickInterval = 50 * time.Millisecond

	validDrivers     = []string{"bolt", "sqlite"}
	validMirrorKinds = []string{"", "off", "taskwarrior", "http"}
	validPolicies    = []string{"loop", "stop"}
	validSoundExts   = []string{".mp3", ".ogg", ".flac", ".wav"}

	// Color format validation.
	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateModeConfig(c.Focus, ledger.Focus); err != nil {
		return err
	}

	if err := c.validateModeConfig(c.Break, ledger.Break); err != nil {
		return err
	}

	if err := c.validateRecorder(); err != nil {
		return err
	}

	if err := c.validateSettings(); err != nil {
		return err
	}

	return c.validateMirror()
}

// validateModeConfig validates an individual ModeConfig.
func (c *Config) validateModeConfig(mc ModeConfig, mode ledger.Mode) error {
	if mc.Duration < minModeDuration || mc.Duration > maxModeDuration {
		return errInvalidDuration.Fmt(mode, minModeDuration, maxModeDuration)
	}

	if strings.TrimSpace(mc.Message) == "" {
		return errEmptyMsg.Fmt(mode)
	}

	if !hexColorRegex.MatchString(mc.Color) {
		return errInvalidColor.Fmt(mode, mc.Color)
	}

	return validateSound(mc.Sound)
}

// validateSound accepts the built-in sounds and audio file paths.
func validateSound(sound string) error {
	switch sound {
	case "", "off", "chime":
		return nil
	}

	ext := strings.ToLower(filepath.Ext(sound))
	if !slices.Contains(validSoundExts, ext) {
		return errInvalidSoundFormat.Fmt(sound)
	}

	return nil
}

func (c *Config) validateRecorder() error {
	r := c.Recorder

	if r.FlushInterval <= 0 {
		return errInvalidInterval.Fmt("flush interval", r.FlushInterval)
	}

	if r.TickInterval < minTickInterval {
		return errInvalidInterval.Fmt("tick interval", r.TickInterval)
	}

	if r.SafetyBuffer < 0 {
		return errInvalidInterval.Fmt("safety buffer", r.SafetyBuffer)
	}

	if r.MinFlush < 0 || r.MinFlush > r.FlushInterval {
		return errInvalidMinFlush.Fmt(r.MinFlush, r.FlushInterval)
	}

	return nil
}

// validateSettings validates the SettingsConfig.
func (c *Config) validateSettings() error {
	if !slices.Contains(validPolicies, c.Settings.OnComplete) {
		return errInvalidPolicy.Fmt(c.Settings.OnComplete)
	}

	if !slices.Contains(validDrivers, c.Ledger.Driver) {
		return errInvalidDriver.Fmt(c.Ledger.Driver)
	}

	if strings.TrimSpace(c.Settings.Project) == "" {
		return errMissingProject
	}

	return nil
}

func (c *Config) validateMirror() error {
	if !slices.Contains(validMirrorKinds, c.Mirror.Kind) {
		return errInvalidMirror.Fmt(c.Mirror.Kind)
	}

	if c.Mirror.Kind == "http" && c.Mirror.BaseURL == "" {
		return errMissingBaseURL
	}

	return nil
}
