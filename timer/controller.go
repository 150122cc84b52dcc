// Package timer drives focus and break timers and records the time spent in
// each mode to the session ledger.
package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
)

// State is the lifecycle state of a Controller.
type State int

const (
	Idle State = iota
	Running
	Paused
	// Stopped is terminal until the controller is started again.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CompletionPolicy decides what happens when a countdown reaches its target.
type CompletionPolicy int

const (
	// CompleteLoop starts the paired mode, so focus and break alternate.
	CompleteLoop CompletionPolicy = iota
	// CompleteStop stops the timer.
	CompleteStop
)

func (p CompletionPolicy) String() string {
	if p == CompleteStop {
		return "stop"
	}

	return "loop"
}

// ParsePolicy converts "loop" or "stop" into a CompletionPolicy.
func ParsePolicy(s string) (CompletionPolicy, bool) {
	switch s {
	case "", "loop":
		return CompleteLoop, true
	case "stop":
		return CompleteStop, true
	}

	return CompleteLoop, false
}

// Options configures a Controller.
type Options struct {
	Logger *slog.Logger
	// Durations is the countdown length of each mode. It is consulted when a
	// countdown switches to another mode.
	Durations  map[ledger.Mode]time.Duration
	OnComplete CompletionPolicy
}

// TickResult describes what a tick observed.
type TickResult struct {
	// Completed is the mode whose countdown finished on this tick. It is
	// empty if nothing completed.
	Completed ledger.Mode
	// Next is the mode that was started by the loop policy, if any.
	Next ledger.Mode
	// Elapsed is the elapsed time of the active mode after the tick.
	Elapsed time.Duration
	State   State
}

// Done reports whether a countdown finished on this tick.
func (r TickResult) Done() bool {
	return r.Completed != ""
}

// Controller is the timer state machine. Elapsed time is always derived from
// the clock, never from the number of ticks observed.
//
// A Controller is not safe for concurrent use. It is meant to be driven from
// a single event loop.
type Controller struct {
	clk     clock.Clock
	flusher Flusher
	log     *slog.Logger
	opts    Options
	// startEpoch is the instant the active run would have started had it
	// never been paused.
	startEpoch  time.Time
	mode        ledger.Mode
	accumulated time.Duration
	target      time.Duration
	run         uint64
	state       State
}

// NewController returns an idle controller. Flushes are sent to f, which may
// be nil when nothing needs recording.
func NewController(clk clock.Clock, f Flusher, opts Options) *Controller {
	if clk == nil {
		clk = clock.Real{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		clk:     clk,
		flusher: f,
		log:     opts.Logger,
		opts:    opts,
	}
}

// Start begins mode from zero. A positive target makes the run a countdown,
// otherwise it is a stopwatch.
func (c *Controller) Start(
	ctx context.Context,
	mode ledger.Mode,
	target time.Duration,
) error {
	if c.state != Idle && c.state != Stopped {
		return errInvalidTransition.Fmt("start", c.state)
	}

	if !mode.Valid() {
		return errInvalidMode.Fmt(mode)
	}

	if target < 0 {
		return errNegativeTarget.Fmt(target)
	}

	c.begin(mode, target)

	c.log.InfoContext(ctx, "timer started", "mode", mode, "target", target)

	return nil
}

// begin starts a new run of mode at the current instant.
func (c *Controller) begin(mode ledger.Mode, target time.Duration) {
	c.run++
	c.mode = mode
	c.target = target
	c.accumulated = 0
	c.startEpoch = c.clk.Now()
	c.state = Running
}

// Pause freezes the elapsed time and flushes it.
func (c *Controller) Pause(ctx context.Context) error {
	if c.state != Running {
		return errInvalidTransition.Fmt("pause", c.state)
	}

	c.accumulated = c.Elapsed()
	c.state = Paused

	c.flush(ctx, ReasonPause)

	c.log.InfoContext(ctx, "timer paused", "mode", c.mode, "elapsed", c.accumulated)

	return nil
}

// Resume continues a paused run. The watermark is not reset, so time already
// flushed before the pause is not recorded again.
func (c *Controller) Resume() error {
	if c.state != Paused {
		return errInvalidTransition.Fmt("resume", c.state)
	}

	c.startEpoch = c.clk.Now().Add(-c.accumulated)
	c.state = Running

	c.log.Info("timer resumed", "mode", c.mode, "elapsed", c.accumulated)

	return nil
}

// SwitchMode ends the active run and starts next from zero. A countdown
// switches to next's configured duration; a stopwatch stays a stopwatch.
func (c *Controller) SwitchMode(ctx context.Context, next ledger.Mode) error {
	if c.state != Running && c.state != Paused {
		return errInvalidTransition.Fmt("switch", c.state)
	}

	if !next.Valid() {
		return errInvalidMode.Fmt(next)
	}

	c.flush(ctx, ReasonSwitch)

	prev := c.mode

	c.begin(next, c.targetFor(next))

	c.log.InfoContext(ctx, "timer switched", "from", prev, "to", next)

	return nil
}

// Toggle switches to the paired mode.
func (c *Controller) Toggle(ctx context.Context) error {
	return c.SwitchMode(ctx, c.mode.Paired())
}

// targetFor returns the countdown length for next, keeping the current target
// when no duration is configured for it.
func (c *Controller) targetFor(next ledger.Mode) time.Duration {
	if c.target <= 0 {
		return 0
	}

	if d, ok := c.opts.Durations[next]; ok && d > 0 {
		return d
	}

	return c.target
}

// Stop ends the timer after a final flush. Stopping an idle timer is allowed
// and records nothing.
func (c *Controller) Stop(ctx context.Context) error {
	switch c.state {
	case Stopped:
		return errInvalidTransition.Fmt("stop", c.state)
	case Idle:
		c.state = Stopped
		return nil
	}

	c.accumulated = c.Elapsed()
	c.state = Stopped

	c.flush(ctx, ReasonStop)

	c.log.InfoContext(ctx, "timer stopped", "mode", c.mode, "elapsed", c.accumulated)

	return nil
}

// Elapsed returns the elapsed time of the active run. A countdown never
// reports more than its target, even if the process was suspended past the
// end of the run.
func (c *Controller) Elapsed() time.Duration {
	var d time.Duration

	switch c.state {
	case Running:
		d = max(c.clk.Now().Sub(c.startEpoch), 0)
	case Paused, Stopped:
		d = c.accumulated
	case Idle:
		return 0
	}

	if c.target > 0 {
		d = min(d, c.target)
	}

	return d
}

// Remaining returns the time left on a countdown, or zero for a stopwatch.
func (c *Controller) Remaining() time.Duration {
	if c.target <= 0 {
		return 0
	}

	return max(c.target-c.Elapsed(), 0)
}

// IsRunning reports whether the timer is counting.
func (c *Controller) IsRunning() bool {
	return c.state == Running
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the mode of the active or last run.
func (c *Controller) Mode() ledger.Mode {
	return c.mode
}

// Target returns the countdown length of the active run. It is zero for a
// stopwatch.
func (c *Controller) Target() time.Duration {
	return c.target
}

// Snapshot captures the active run for a Flusher.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Mode:    c.mode,
		Run:     c.run,
		Elapsed: c.Elapsed(),
	}
}

// Tick refreshes the timer and handles countdown completion. It is meant to
// be called at the display cadence.
func (c *Controller) Tick(ctx context.Context) TickResult {
	if c.state != Running || c.target <= 0 ||
		c.clk.Now().Sub(c.startEpoch) < c.target {
		return TickResult{Elapsed: c.Elapsed(), State: c.state}
	}

	done := c.mode

	c.flush(ctx, ReasonComplete)

	res := TickResult{Completed: done}

	switch c.opts.OnComplete {
	case CompleteStop:
		c.accumulated = c.target
		c.state = Stopped
	default:
		res.Next = done.Paired()
		c.begin(res.Next, c.targetFor(res.Next))
	}

	c.log.InfoContext(
		ctx,
		"countdown completed",
		"mode", done,
		"next", res.Next,
		"policy", c.opts.OnComplete,
	)

	res.Elapsed = c.Elapsed()
	res.State = c.state

	return res
}

// Checkpoint issues a periodic flush. It also retries windows whose earlier
// flushes failed, so it is useful in every state but Idle.
func (c *Controller) Checkpoint(ctx context.Context) {
	switch c.state {
	case Idle:
		return
	case Paused:
		c.flush(ctx, ReasonPause)
	default:
		c.flush(ctx, ReasonTick)
	}
}

func (c *Controller) flush(ctx context.Context, reason Reason) {
	if c.flusher == nil {
		return
	}

	c.flusher.Flush(ctx, c.Snapshot(), reason)
}
