package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tasktimer/internal/config"
	"github.com/ayoisaiah/tasktimer/internal/logging"
	"github.com/ayoisaiah/tasktimer/internal/osutil"
	"github.com/ayoisaiah/tasktimer/internal/pathutil"
	"github.com/ayoisaiah/tasktimer/ledger"
	"github.com/ayoisaiah/tasktimer/report"
	"github.com/ayoisaiah/tasktimer/store"
	"github.com/ayoisaiah/tasktimer/timer"
)

const (
	envNoColor          = "NO_COLOR"
	envTasktimerNoColor = "TASKTIMER_NO_COLOR"

	metaLogCloser = "log_closer"
)

// loadConfig reads the config file, prompting for the basics on first run,
// and applies command-line flags on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	return config.New(
		config.WithPromptConfig(path),
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)
}

// openLedger opens the ledger selected by cfg.
func openLedger(cfg *config.Config) (ledger.Ledger, error) {
	path := cfg.Ledger.Path
	if path == "" {
		path = pathutil.LedgerFilePath(cfg.Ledger.Driver)
	}

	return store.Open(store.Driver(cfg.Ledger.Driver), path, nil)
}

// findTask looks up a task by vendor id without creating it.
func findTask(
	ctx *cli.Context,
	l ledger.Ledger,
	projectID, vendorTaskID string,
) (*ledger.Task, error) {
	tasks, err := l.ListTasks(ctx.Context, projectID)
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		if t.VendorTaskID == vendorTaskID {
			return t, nil
		}
	}

	return nil, ledger.ErrTaskNotFound.Fmt(vendorTaskID)
}

// newSessionAction handles the session new command which explicitly starts a
// new session on a task.
func newSessionAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	l, err := openLedger(cfg)
	if err != nil {
		return err
	}

	defer l.Close()

	task, err := l.FindOrCreateTask(ctx.Context, cfg.Settings.Project, vendorTaskID(cfg))
	if err != nil {
		return err
	}

	sess, err := l.CreateSession(ctx.Context, task.ID, sessionName(cfg, time.Now()))
	if err != nil {
		return err
	}

	report.SessionCreated(sess)

	return nil
}

// tasksAction prints the totals of every task in the project.
func tasksAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	l, err := openLedger(cfg)
	if err != nil {
		return err
	}

	defer l.Close()

	tasks, err := l.ListTasks(ctx.Context, cfg.Settings.Project)
	if err != nil {
		return err
	}

	summaries := report.Summarize(tasks, cfg.CLI.StartTime)

	if ctx.Bool("json") {
		return report.WriteJSON(os.Stdout, summaries)
	}

	return report.PrintTasks(os.Stdout, summaries)
}

// sessionsAction prints the sessions of a single task.
func sessionsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.CLI.VendorTaskID == "" {
		return ledger.ErrMissingVendorTask
	}

	l, err := openLedger(cfg)
	if err != nil {
		return err
	}

	defer l.Close()

	task, err := findTask(ctx, l, cfg.Settings.Project, cfg.CLI.VendorTaskID)
	if err != nil {
		return err
	}

	sessions := report.Sessions(task, cfg.CLI.StartTime)

	if ctx.Bool("json") {
		return report.WriteJSON(os.Stdout, sessions)
	}

	return report.PrintSessions(os.Stdout, task.VendorTaskID, sessions)
}

// statusAction handles the status command and prints the status of the
// currently running timer.
func statusAction(ctx *cli.Context) error {
	s, ok, err := timer.ReadStatusFile(pathutil.StatusFilePath())
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		if !ok {
			return nil
		}

		return report.WriteJSON(os.Stdout, s)
	}

	return report.PrintStatus(os.Stdout, s, ok, time.Now())
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	editor := osutil.Editor()

	args, err := shellquote.Split(editor)
	if err != nil {
		return fmt.Errorf("unable to parse editor command %q: %w", editor, err)
	}

	if len(args) == 0 {
		return errNoEditor
	}

	args = append(args, cfg.Path)

	cmd := exec.CommandContext(ctx.Context, args[0], args[1:]...)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if TASKTIMER_NO_COLOR is set
	if _, exists := os.LookupEnv(envTasktimerNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{
		Path:  pathutil.LogFilePath(),
		Debug: ctx.Bool("debug"),
	})
	if err != nil {
		return err
	}

	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]any)
	}

	ctx.App.Metadata[metaLogCloser] = closer

	slog.SetDefault(logger.With("pid", os.Getpid()))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting tasktimer")

	if c, ok := ctx.App.Metadata[metaLogCloser].(io.Closer); ok {
		return c.Close()
	}

	return nil
}
