// Package app defines the tasktimer command-line application.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tasktimer/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the tasktimer app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "tasktimer",
		Usage: `
		Tasktimer is a focus/break timer for the command-line that records the
		time spent on each task to a local ledger and can mirror focused minutes
		to an external task tracker.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
			{
				Name:  "session",
				Usage: "Manage the sessions of a task",
				Subcommands: []*cli.Command{
					{
						Name:   "new",
						Usage:  "Create a new session on a task",
						Action: newSessionAction,
						Flags:  []cli.Flag{projectFlag, taskFlag, nameFlag},
					},
				},
			},
			{
				Name:   "tasks",
				Usage:  "List the tasks of a project with their focus and break totals",
				Action: tasksAction,
				Flags:  []cli.Flag{projectFlag, sinceFlag, jsonFlag},
			},
			{
				Name:   "sessions",
				Usage:  "List the sessions of a task with their focus and break totals",
				Action: sessionsAction,
				Flags:  []cli.Flag{projectFlag, taskFlag, sinceFlag, jsonFlag},
			},
			{
				Name:   "status",
				Usage:  "Print the status of the running timer",
				Action: statusAction,
				Flags:  []cli.Flag{jsonFlag},
			},
		},
		Flags: []cli.Flag{
			projectFlag,
			taskFlag,
			nameFlag,
			modeFlag,
			focusFlag,
			breakFlag,
			onCompleteFlag,
			sessionCmdFlag,
			driverFlag,
			mirrorFlag,
			newSessionFlag,
			stopwatchFlag,
			headlessFlag,
			noMirrorFlag,
			disableNotificationFlag,
			debugFlag,
			noColorFlag,
		},
		Action: startAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
