package app

import "github.com/urfave/cli/v2"

var (
	projectFlag = &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Project the task belongs to (default: settings.project)",
	}

	taskFlag = &cli.StringFlag{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "External task id. Time is recorded against a local task when omitted",
	}

	nameFlag = &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "Name of the session to create",
	}

	modeFlag = &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "Mode to start in: focus or break (default: focus)",
	}

	focusFlag = &cli.StringFlag{
		Name:    "focus",
		Aliases: []string{"f"},
		Usage:   "Focus duration in minutes (default: 25)",
	}

	breakFlag = &cli.StringFlag{
		Name:    "break",
		Aliases: []string{"b"},
		Usage:   "Break duration in minutes (default: 5)",
	}

	onCompleteFlag = &cli.StringFlag{
		Name:  "on-complete",
		Usage: "What to do when a countdown finishes: loop or stop",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each completed countdown",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only include activity since this date (e.g. '3 days ago', '2024-03-01')",
	}

	driverFlag = &cli.StringFlag{
		Name:  "driver",
		Usage: "Ledger backend: bolt or sqlite",
	}

	mirrorFlag = &cli.StringFlag{
		Name:  "mirror",
		Usage: "Mirror backend: off, taskwarrior or http",
	}

	newSessionFlag = &cli.BoolFlag{
		Name:  "new-session",
		Usage: "Start a new session instead of continuing the latest one",
	}

	stopwatchFlag = &cli.BoolFlag{
		Name:    "stopwatch",
		Aliases: []string{"sw"},
		Usage:   "Count up without a target instead of counting down",
	}

	headlessFlag = &cli.BoolFlag{
		Name:  "headless",
		Usage: "Run without the terminal UI until interrupted",
	}

	noMirrorFlag = &cli.BoolFlag{
		Name:  "no-mirror",
		Usage: "Do not mirror focused minutes to the external task",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a countdown is completed",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Write debug logs",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}
)
