package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
)

const (
	padding  = 2
	maxWidth = 80
)

type (
	tickMsg     time.Time
	flushMsg    time.Time
	notifiedMsg struct{ err error }
)

// ModelOptions configures the terminal UI.
type ModelOptions struct {
	Clock    clock.Clock
	Logger   *slog.Logger
	Notifier *Notifier
	// Colors maps each mode to a hex colour for its label.
	Colors map[ledger.Mode]string
	// StatusPath, if set, receives a status file on every tick.
	StatusPath    string
	TaskLabel     string
	SessionName   string
	TickInterval  time.Duration
	FlushInterval time.Duration
	DarkTheme     bool
	TwentyFourHr  bool
	Debug         bool
}

// Model is the bubbletea model for a running timer. The controller is only
// touched from Update, which bubbletea calls on a single goroutine.
type Model struct {
	ctx      context.Context
	ctrl     *Controller
	rec      *Recorder
	log      *slog.Logger
	err      error
	style    styles
	opts     ModelOptions
	help     help.Model
	progress progress.Model
	keys     keymap
	quitting bool
}

// NewModel returns a model driving ctrl. The recorder is optional and only
// used for the sync status line and for waiting on deliveries at exit.
func NewModel(
	ctx context.Context,
	ctrl *Controller,
	rec *Recorder,
	opts ModelOptions,
) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	opts.TickInterval = interval(opts.TickInterval, 500*time.Millisecond)
	opts.FlushInterval = interval(opts.FlushInterval, time.Minute)

	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		rec:      rec,
		log:      opts.Logger,
		opts:     opts,
		style:    newStyles(opts.DarkTheme, opts.Colors),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		keys:     defaultKeymap,
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) flush() tea.Cmd {
	return tea.Tick(m.opts.FlushInterval, func(t time.Time) tea.Msg {
		return flushMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.flush())
}

// Err returns the last error reported by a transition or a notification.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.opts.Debug {
		if _, ok := msg.(tickMsg); !ok {
			m.log.Debug("tui message", "msg", spew.Sdump(msg))
		}
	}

	switch msg := msg.(type) {
	case tickMsg:
		return m.handleTick()

	case flushMsg:
		m.ctrl.Checkpoint(m.ctx)
		return m, m.flush()

	case notifiedMsg:
		if msg.err != nil {
			m.log.Warn("notification failed", "error", msg.err)
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-padding*2-4, maxWidth)
		m.help.Width = msg.Width

		return m, nil

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	res := m.ctrl.Tick(m.ctx)

	m.writeStatus()

	var cmds []tea.Cmd

	if res.Done() && m.opts.Notifier != nil {
		n := m.opts.Notifier
		ctx := m.ctx

		cmds = append(cmds, func() tea.Msg {
			return notifiedMsg{err: n.Completed(ctx, res)}
		})
	}

	if res.State == Stopped {
		cmds = append(cmds, m.shutdown())
		return m, tea.Sequence(cmds...)
	}

	cmds = append(cmds, m.tick())

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error

	switch {
	case key.Matches(msg, m.keys.togglePlay):
		if m.ctrl.IsRunning() {
			err = m.ctrl.Pause(m.ctx)
		} else {
			err = m.ctrl.Resume()
		}

	case key.Matches(msg, m.keys.switchMode):
		err = m.ctrl.Toggle(m.ctx)

	case key.Matches(msg, m.keys.stop), key.Matches(msg, m.keys.quit):
		if st := m.ctrl.State(); st == Running || st == Paused {
			err = m.ctrl.Stop(m.ctx)
		}

		m.err = err

		return m, m.shutdown()
	}

	if err != nil {
		m.err = err
		m.log.Info("transition rejected", "key", msg.String(), "error", err)
	}

	m.writeStatus()

	return m, nil
}

// shutdown marks the model as quitting. The returned command waits for
// in-flight deliveries off the event loop and then quits the program.
func (m *Model) shutdown() tea.Cmd {
	m.quitting = true

	rec, path, logger := m.rec, m.opts.StatusPath, m.log

	return func() tea.Msg {
		if rec != nil {
			rec.Wait()
		}

		if path != "" {
			if err := RemoveStatusFile(path); err != nil {
				logger.Warn("unable to remove status file", "error", err)
			}
		}

		return tea.QuitMsg{}
	}
}

func (m *Model) writeStatus() {
	if m.opts.StatusPath == "" || m.quitting {
		return
	}

	s := NewStatus(m.ctrl, m.rec, m.opts.TaskLabel, m.opts.SessionName, m.opts.Clock.Now())

	if err := WriteStatusFile(m.opts.StatusPath, s); err != nil {
		m.log.Debug("unable to write status file", "error", err)
	}
}

type styles struct {
	modes     map[ledger.Mode]lipgloss.Style
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	warn      lipgloss.Style
}

func newStyles(dark bool, colors map[ledger.Mode]string) styles {
	fg := lipgloss.Color("#FFFFFF")
	hint := lipgloss.Color("#8A8A8A")

	if !dark {
		fg = lipgloss.Color("#1A1A1A")
		hint = lipgloss.Color("#5F5F5F")
	}

	s := styles{
		modes:     make(map[ledger.Mode]lipgloss.Style),
		base:      lipgloss.NewStyle().Padding(1, padding),
		main:      lipgloss.NewStyle().Bold(true).Foreground(fg),
		secondary: lipgloss.NewStyle().Foreground(fg),
		hint:      lipgloss.NewStyle().Foreground(hint),
		warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E")),
	}

	for _, mode := range []ledger.Mode{ledger.Focus, ledger.Break} {
		c, ok := colors[mode]
		if !ok {
			c = "#7AA2F7"
		}

		s.modes[mode] = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			MarginRight(1).
			Foreground(lipgloss.Color("#1A1B26")).
			Background(lipgloss.Color(c))
	}

	return s
}
