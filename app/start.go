package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tasktimer/internal/config"
	"github.com/ayoisaiah/tasktimer/internal/pathutil"
	"github.com/ayoisaiah/tasktimer/internal/ui"
	"github.com/ayoisaiah/tasktimer/ledger"
	"github.com/ayoisaiah/tasktimer/mirror"
	"github.com/ayoisaiah/tasktimer/report"
	"github.com/ayoisaiah/tasktimer/timer"
)

// localTaskName names the task used when no external task id is given.
const localTaskName = "inbox"

func vendorTaskID(cfg *config.Config) string {
	if cfg.CLI.VendorTaskID != "" {
		return cfg.CLI.VendorTaskID
	}

	return ledger.LocalVendorID(localTaskName)
}

func sessionName(cfg *config.Config, now time.Time) string {
	if cfg.CLI.SessionName != "" {
		return cfg.CLI.SessionName
	}

	return now.Format("2006-01-02 15:04")
}

// resolveSession finds or creates the task and returns the session to record
// into: the latest one, unless a new session was requested or the task has
// none yet.
func resolveSession(
	ctx context.Context,
	l ledger.Ledger,
	cfg *config.Config,
	now time.Time,
) (*ledger.Task, *ledger.Session, error) {
	task, err := l.FindOrCreateTask(ctx, cfg.Settings.Project, vendorTaskID(cfg))
	if err != nil {
		return nil, nil, err
	}

	if latest := task.Latest(); latest != nil && !cfg.CLI.NewSession {
		return task, latest, nil
	}

	sess, err := l.CreateSession(ctx, task.ID, sessionName(cfg, now))
	if err != nil {
		return nil, nil, err
	}

	task.Sessions = append(task.Sessions, sess)

	return task, sess, nil
}

// newMirror returns the mirror for task, or nil if it should not be mirrored.
// Local tasks have nothing to mirror to.
func newMirror(cfg *config.Config, task *ledger.Task) (mirror.Client, error) {
	if cfg.CLI.NoMirror || task.IsLocal() {
		return nil, nil
	}

	return mirror.New(mirror.Options{
		Kind:    cfg.Mirror.Kind,
		Command: cfg.Mirror.Command,
		Field:   cfg.Mirror.Field,
		BaseURL: cfg.Mirror.BaseURL,
		Token:   cfg.Mirror.Token,
		Timeout: cfg.Mirror.Timeout,
	})
}

func newPlayer(cfg *config.Config) timer.Player {
	silent := func(s string) bool {
		return s == "" || s == timer.SoundOff
	}

	if silent(cfg.Focus.Sound) && silent(cfg.Break.Sound) {
		return timer.NopPlayer()
	}

	return timer.NewSpeaker(cfg.Settings.Volume)
}

func newNotifier(cfg *config.Config, p timer.Player) *timer.Notifier {
	n := timer.NewNotifier(p)
	n.Desktop = cfg.Settings.Notify
	n.Cmd = cfg.Settings.Cmd

	for _, mode := range []ledger.Mode{ledger.Focus, ledger.Break} {
		mc := cfg.ForMode(mode)
		n.Sounds[mode] = mc.Sound
		n.Messages[mode] = mc.Message
	}

	return n
}

// recording is a timer wired to a ledger session.
type recording struct {
	task     *ledger.Task
	sess     *ledger.Session
	rec      *timer.Recorder
	ctrl     *timer.Controller
	notifier *timer.Notifier
	player   timer.Player
	log      *slog.Logger
}

// newRecording resolves the session and starts a timer recording into it.
func newRecording(
	ctx context.Context,
	l ledger.Ledger,
	cfg *config.Config,
	log *slog.Logger,
	now time.Time,
) (*recording, error) {
	task, sess, err := resolveSession(ctx, l, cfg, now)
	if err != nil {
		return nil, err
	}

	mir, err := newMirror(cfg, task)
	if err != nil {
		return nil, err
	}

	log = log.With("task", task.VendorTaskID, "session", sess.ID)

	rec, err := timer.NewRecorder(l, sess.ID, task.VendorTaskID, timer.RecorderOptions{
		Logger:       log,
		Mirror:       mir,
		MinFlush:     cfg.Recorder.MinFlush,
		SafetyBuffer: cfg.Recorder.SafetyBuffer,
		Async:        cfg.Settings.Async,
	})
	if err != nil {
		return nil, err
	}

	// Validated with the rest of the config.
	policy, _ := timer.ParsePolicy(cfg.Settings.OnComplete)

	ctrl := timer.NewController(nil, rec, timer.Options{
		Logger:     log,
		Durations:  cfg.Durations(),
		OnComplete: policy,
	})

	target := cfg.ForMode(cfg.CLI.Mode).Duration
	if cfg.CLI.Stopwatch {
		target = 0
	}

	if err := ctrl.Start(ctx, cfg.CLI.Mode, target); err != nil {
		return nil, err
	}

	player := newPlayer(cfg)

	return &recording{
		task:     task,
		sess:     sess,
		rec:      rec,
		ctrl:     ctrl,
		notifier: newNotifier(cfg, player),
		player:   player,
		log:      log,
	}, nil
}

// finish stops a timer that is still counting and waits for the final
// delivery.
func (r *recording) finish(ctx context.Context) error {
	var err error

	if st := r.ctrl.State(); st == timer.Running || st == timer.Paused {
		err = r.ctrl.Stop(context.WithoutCancel(ctx))
	}

	r.rec.Wait()

	if closeErr := r.player.Close(); closeErr != nil {
		r.log.Warn("unable to close audio device", "error", closeErr)
	}

	return err
}

func (r *recording) runTUI(ctx context.Context, cfg *config.Config) error {
	m := timer.NewModel(ctx, r.ctrl, r.rec, timer.ModelOptions{
		Logger:   r.log,
		Notifier: r.notifier,
		Colors: map[ledger.Mode]string{
			ledger.Focus: cfg.Focus.Color,
			ledger.Break: cfg.Break.Color,
		},
		StatusPath:    pathutil.StatusFilePath(),
		TaskLabel:     r.task.VendorTaskID,
		SessionName:   r.sess.Name,
		TickInterval:  cfg.Recorder.TickInterval,
		FlushInterval: cfg.Recorder.FlushInterval,
		DarkTheme:     cfg.Display.DarkTheme,
		TwentyFourHr:  cfg.Display.TwentyFourHour,
		Debug:         cfg.Settings.Debug,
	})

	_, err := tea.NewProgram(m).Run()
	if err != nil {
		r.log.Error("terminal ui exited", "error", err)
	}

	if finishErr := r.finish(ctx); err == nil {
		err = finishErr
	}

	return err
}

func (r *recording) runHeadless(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	statusPath := pathutil.StatusFilePath()

	runner := &timer.Runner{
		Controller:    r.ctrl,
		Recorder:      r.rec,
		Logger:        r.log,
		TickInterval:  cfg.Recorder.TickInterval,
		FlushInterval: cfg.Recorder.FlushInterval,
		OnTick: func(timer.TickResult) {
			s := timer.NewStatus(r.ctrl, r.rec, r.task.VendorTaskID, r.sess.Name, time.Now())

			if err := timer.WriteStatusFile(statusPath, s); err != nil {
				r.log.Debug("unable to write status file", "error", err)
			}
		},
		OnComplete: func(ctx context.Context, res timer.TickResult) {
			if err := r.notifier.Completed(ctx, res); err != nil {
				r.log.Warn("notification failed", "error", err)
			}
		},
	}

	pterm.Info.Printfln(
		"recording %s on %s, press Ctrl+C to stop",
		ui.Mode(r.ctrl.Mode(), r.ctrl.Mode()),
		r.task.VendorTaskID,
	)

	err := runner.Run(ctx)

	if rmErr := timer.RemoveStatusFile(statusPath); rmErr != nil {
		r.log.Warn("unable to remove status file", "error", rmErr)
	}

	if finishErr := r.finish(ctx); err == nil {
		err = finishErr
	}

	return err
}

// startAction handles the default command: it resolves the task and session
// and runs the timer until the user quits.
func startAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	l, err := openLedger(cfg)
	if err != nil {
		return err
	}

	defer l.Close()

	r, err := newRecording(ctx.Context, l, cfg, slog.Default(), time.Now())
	if err != nil {
		return err
	}

	if cfg.CLI.Headless {
		err = r.runHeadless(ctx.Context, cfg)
	} else {
		err = r.runTUI(ctx.Context, cfg)
	}

	if err != nil {
		return err
	}

	sess, err := l.GetSession(context.WithoutCancel(ctx.Context), r.sess.ID)
	if err != nil {
		return err
	}

	report.Recorded(sess)

	return nil
}
