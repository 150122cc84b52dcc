package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm/putils"
)

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	OnComplete    string
	Mirror        string
	FocusDuration int
	BreakDuration int
}

// WithPromptConfig returns an Option that configures settings via interactive
// prompts. It only prompts when the config file does not exist yet.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		return applyPromptOptions(c, opts)
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	_ = putils.BulletListFromString(`Follow the prompts below to configure tasktimer for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'tasktimer edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Focus countdown length").
				Options(
					huh.NewOption("25 minutes", 25).Selected(true),
					huh.NewOption("35 minutes", 35),
					huh.NewOption("50 minutes", 50),
					huh.NewOption("60 minutes", 60),
				).
				Value(&opts.FocusDuration),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Break countdown length").
				Options(
					huh.NewOption("5 minutes", 5).Selected(true),
					huh.NewOption("10 minutes", 10),
					huh.NewOption("15 minutes", 15),
					huh.NewOption("20 minutes", 20),
				).
				Value(&opts.BreakDuration),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When a countdown completes").
				Options(
					huh.NewOption("Start the next mode", "loop").Selected(true),
					huh.NewOption("Stop the timer", "stop"),
				).
				Value(&opts.OnComplete),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mirror focused minutes to").
				Options(
					huh.NewOption("Nothing", "off").Selected(true),
					huh.NewOption("Taskwarrior", "taskwarrior"),
					huh.NewOption("An HTTP task API", "http"),
				).
				Value(&opts.Mirror),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) error {
	c.Focus.Duration = time.Duration(opts.FocusDuration) * time.Minute
	c.Break.Duration = time.Duration(opts.BreakDuration) * time.Minute
	c.Settings.OnComplete = opts.OnComplete
	c.Mirror.Kind = opts.Mirror

	return nil
}
