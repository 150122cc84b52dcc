package config

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tasktimer/internal/timeutil"
	"github.com/ayoisaiah/tasktimer/ledger"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Now          time.Time
	Project      string
	Task         string
	Name         string
	Mode         string
	Focus        string
	Break        string
	OnComplete   string
	SessionCmd   string
	Since        string
	Driver       string
	Mirror       string
	NewSession   bool
	Stopwatch    bool
	Headless     bool
	NoMirror     bool
	DisableNotif bool
	Debug        bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Now:          time.Now(),
			Project:      ctx.String("project"),
			Task:         ctx.String("task"),
			Name:         ctx.String("name"),
			Mode:         ctx.String("mode"),
			Focus:        ctx.String("focus"),
			Break:        ctx.String("break"),
			OnComplete:   ctx.String("on-complete"),
			SessionCmd:   ctx.String("session-cmd"),
			Since:        ctx.String("since"),
			Driver:       ctx.String("driver"),
			Mirror:       ctx.String("mirror"),
			NewSession:   ctx.Bool("new-session"),
			Stopwatch:    ctx.Bool("stopwatch"),
			Headless:     ctx.Bool("headless"),
			NoMirror:     ctx.Bool("no-mirror"),
			DisableNotif: ctx.Bool("disable-notification"),
			Debug:        ctx.Bool("debug"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if err := applyCLIDurations(c, opts); err != nil {
		return err
	}

	c.CLI.Mode = ledger.Focus

	if opts.Mode != "" {
		mode, err := ledger.ParseMode(opts.Mode)
		if err != nil {
			return err
		}

		c.CLI.Mode = mode
	}

	if opts.Project != "" {
		c.Settings.Project = strings.TrimSpace(opts.Project)
	}

	if opts.OnComplete != "" {
		c.Settings.OnComplete = opts.OnComplete
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	if opts.Driver != "" {
		c.Ledger.Driver = opts.Driver
	}

	if opts.Mirror != "" {
		c.Mirror.Kind = opts.Mirror
	}

	if opts.DisableNotif {
		c.Settings.Notify = false
	}

	if opts.Debug {
		c.Settings.Debug = true
	}

	c.CLI.VendorTaskID = strings.TrimSpace(opts.Task)
	c.CLI.SessionName = strings.TrimSpace(opts.Name)
	c.CLI.NewSession = opts.NewSession
	c.CLI.Stopwatch = opts.Stopwatch
	c.CLI.Headless = opts.Headless
	c.CLI.NoMirror = opts.NoMirror

	if opts.Since != "" {
		startTime, err := timeutil.FromStr(opts.Since, opts.Now)
		if err != nil {
			return errInvalidSince.Wrap(err)
		}

		c.CLI.StartTime = startTime
	}

	return nil
}

// applyCLIDurations handles parsing and applying duration settings from CLI.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	durations := map[ledger.Mode]struct {
		dst *time.Duration
		val string
	}{
		ledger.Focus: {&c.Focus.Duration, opts.Focus},
		ledger.Break: {&c.Break.Duration, opts.Break},
	}

	for mode, d := range durations {
		if d.val == "" {
			continue
		}

		dur, err := parseDuration(d.val)
		if err != nil {
			return errInvalidCLIDuration.Fmt(mode, err)
		}

		*d.dst = dur
	}

	return nil
}
