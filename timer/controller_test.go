package timer

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/internal/clock"
	"github.com/ayoisaiah/tasktimer/ledger"
)

const sessionID = "s1"

var epoch = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

type harness struct {
	clk  *clock.Fake
	led  *memLedger
	mir  *memMirror
	rec  *Recorder
	ctrl *Controller
}

func newHarness(t *testing.T, recOpts RecorderOptions, opts Options) *harness {
	t.Helper()

	h := &harness{
		clk: clock.NewFake(epoch),
		led: newMemLedger(sessionID),
	}

	if recOpts.Logger == nil {
		recOpts.Logger = slog.New(slog.DiscardHandler)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if recOpts.Mirror != nil {
		h.mir, _ = recOpts.Mirror.(*memMirror)
	}

	rec, err := NewRecorder(h.led, sessionID, "v1", recOpts)
	require.NoError(t, err)

	h.rec = rec
	h.ctrl = NewController(h.clk, rec, opts)

	return h
}

func TestElapsedIsDriftFree(t *testing.T) {
	h := newHarness(t, RecorderOptions{}, Options{})
	ctx := context.Background()

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, 0))

	// Irregular tick cadence must not affect elapsed time.
	for _, step := range []time.Duration{
		700 * time.Millisecond,
		3 * time.Second,
		1300 * time.Millisecond,
	} {
		h.clk.Advance(step)
		h.ctrl.Tick(ctx)
	}

	assert.Equal(t, 5*time.Second, h.ctrl.Elapsed())

	require.NoError(t, h.ctrl.Pause(ctx))
	h.clk.Advance(10 * time.Minute)
	assert.Equal(t, 5*time.Second, h.ctrl.Elapsed(), "paused time is not counted")

	require.NoError(t, h.ctrl.Resume())
	h.clk.Advance(2 * time.Second)

	require.NoError(t, h.ctrl.Pause(ctx))
	require.NoError(t, h.ctrl.Resume())
	h.clk.Advance(3 * time.Second)

	assert.Equal(t, 10*time.Second, h.ctrl.Elapsed())
	assert.True(t, h.ctrl.IsRunning())
}

func TestElapsedNeverNegative(t *testing.T) {
	h := newHarness(t, RecorderOptions{}, Options{})

	require.NoError(t, h.ctrl.Start(context.Background(), ledger.Focus, 0))

	h.clk.Set(epoch.Add(-time.Minute))

	assert.Equal(t, time.Duration(0), h.ctrl.Elapsed())
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{}, Options{})

	assertValidation := func(err error) {
		t.Helper()
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}

	assertValidation(h.ctrl.Pause(ctx))
	assertValidation(h.ctrl.Resume())
	assertValidation(h.ctrl.SwitchMode(ctx, ledger.Break))
	assert.Equal(t, Idle, h.ctrl.State())

	assertValidation(h.ctrl.Start(ctx, "NAP", 0))
	assertValidation(h.ctrl.Start(ctx, ledger.Focus, -time.Second))
	assert.Equal(t, Idle, h.ctrl.State())

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, 0))
	assertValidation(h.ctrl.Start(ctx, ledger.Focus, 0))
	assertValidation(h.ctrl.Resume())
	assertValidation(h.ctrl.SwitchMode(ctx, "NAP"))
	assert.Equal(t, Running, h.ctrl.State())
	assert.Equal(t, ledger.Focus, h.ctrl.Mode())

	require.NoError(t, h.ctrl.Stop(ctx))
	assertValidation(h.ctrl.Stop(ctx))
	assertValidation(h.ctrl.Pause(ctx))
	assert.Equal(t, Stopped, h.ctrl.State())

	// A stopped timer can be started again.
	require.NoError(t, h.ctrl.Start(ctx, ledger.Break, 0))
	assert.Equal(t, Running, h.ctrl.State())
}

func TestStopIdle(t *testing.T) {
	h := newHarness(t, RecorderOptions{}, Options{})

	require.NoError(t, h.ctrl.Stop(context.Background()))
	assert.Equal(t, Stopped, h.ctrl.State())
	assert.Empty(t, h.led.calls())
}

func TestSwitchModeResetsElapsed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{SafetyBuffer: 10 * time.Second}, Options{})

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, 0))
	h.clk.Advance(90 * time.Second)

	require.NoError(t, h.ctrl.SwitchMode(ctx, ledger.Break))

	assert.Equal(t, time.Duration(0), h.ctrl.Elapsed())
	assert.Equal(t, ledger.Break, h.ctrl.Mode())
	assert.Equal(t, Running, h.ctrl.State())
	assert.Equal(t, 90*time.Second, h.led.total(sessionID, ledger.Focus))

	h.clk.Advance(30 * time.Second)
	require.NoError(t, h.ctrl.Toggle(ctx))

	assert.Equal(t, ledger.Focus, h.ctrl.Mode())
	assert.Equal(t, 30*time.Second, h.led.total(sessionID, ledger.Break))
	assert.Equal(t, 90*time.Second, h.led.total(sessionID, ledger.Focus),
		"switching leaves the previous total untouched")

	h.clk.Advance(20 * time.Second)
	require.NoError(t, h.ctrl.Stop(ctx))

	assert.Equal(t, 110*time.Second, h.led.total(sessionID, ledger.Focus))
}

func TestSwitchModeFromPaused(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{}, Options{
		Durations: map[ledger.Mode]time.Duration{
			ledger.Focus: 25 * time.Minute,
			ledger.Break: 5 * time.Minute,
		},
	})

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, 25*time.Minute))
	h.clk.Advance(4 * time.Minute)
	require.NoError(t, h.ctrl.Pause(ctx))
	h.clk.Advance(time.Hour)

	require.NoError(t, h.ctrl.SwitchMode(ctx, ledger.Break))

	assert.Equal(t, 5*time.Minute, h.ctrl.Target(), "a countdown stays a countdown")
	assert.Equal(t, 5*time.Minute, h.ctrl.Remaining())
	assert.Equal(t, 4*time.Minute, h.led.total(sessionID, ledger.Focus))
	assert.Len(t, h.led.calls(), 1, "the pause already flushed the focus run")
}

func TestStopwatchSwitchStaysStopwatch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{}, Options{
		Durations: map[ledger.Mode]time.Duration{ledger.Break: 5 * time.Minute},
	})

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, 0))
	require.NoError(t, h.ctrl.Toggle(ctx))

	assert.Equal(t, time.Duration(0), h.ctrl.Target())
	assert.Equal(t, time.Duration(0), h.ctrl.Remaining())
}

func TestCompletionLoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{MinFlush: time.Second}, Options{
		Durations: map[ledger.Mode]time.Duration{
			ledger.Focus: 15 * time.Minute,
			ledger.Break: 5 * time.Minute,
		},
		OnComplete: CompleteLoop,
	})

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, 15*time.Minute))

	// The process was suspended past the end of the countdown.
	h.clk.Advance(15*time.Minute + 40*time.Second)

	res := h.ctrl.Tick(ctx)

	assert.True(t, res.Done())
	assert.Equal(t, ledger.Focus, res.Completed)
	assert.Equal(t, ledger.Break, res.Next)
	assert.Equal(t, Running, res.State)

	assert.Equal(t, 15*time.Minute, h.led.total(sessionID, ledger.Focus),
		"a countdown records exactly its target")
	assert.Equal(t, ledger.Break, h.ctrl.Mode())
	assert.Equal(t, 5*time.Minute, h.ctrl.Target())
	assert.Equal(t, time.Duration(0), h.ctrl.Elapsed())

	// The next tick does not complete again.
	assert.False(t, h.ctrl.Tick(ctx).Done())
}

func TestCompletionStop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{}, Options{OnComplete: CompleteStop})

	require.NoError(t, h.ctrl.Start(ctx, ledger.Break, 5*time.Minute))

	h.clk.Advance(4 * time.Minute)
	assert.False(t, h.ctrl.Tick(ctx).Done())
	assert.Equal(t, time.Minute, h.ctrl.Remaining())

	h.clk.Advance(time.Minute)
	res := h.ctrl.Tick(ctx)

	assert.Equal(t, ledger.Break, res.Completed)
	assert.Equal(t, ledger.Mode(""), res.Next)
	assert.Equal(t, Stopped, res.State)
	assert.Equal(t, 5*time.Minute, h.ctrl.Elapsed())
	assert.Equal(t, 5*time.Minute, h.led.total(sessionID, ledger.Break))
}

func TestRoundTripWithFlushCadence(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, RecorderOptions{MinFlush: time.Second}, Options{
		OnComplete: CompleteStop,
	})

	const (
		target   = 15 * time.Minute
		tick     = 500 * time.Millisecond
		flushing = time.Minute
	)

	require.NoError(t, h.ctrl.Start(ctx, ledger.Focus, target))

	var since time.Duration

	for h.ctrl.State() == Running {
		h.clk.Advance(tick)
		h.ctrl.Tick(ctx)

		since += tick
		if since >= flushing {
			since = 0
			h.ctrl.Checkpoint(ctx)
		}
	}

	var sum time.Duration
	for _, c := range h.led.calls() {
		sum += c.delta
	}

	assert.Equal(t, target, sum)
	assert.Equal(t, target, h.led.total(sessionID, ledger.Focus))
}

func TestParsePolicy(t *testing.T) {
	p, ok := ParsePolicy("stop")
	assert.True(t, ok)
	assert.Equal(t, CompleteStop, p)

	p, ok = ParsePolicy("")
	assert.True(t, ok)
	assert.Equal(t, CompleteLoop, p)

	_, ok = ParsePolicy("repeat")
	assert.False(t, ok)
}

func TestControllerWithoutFlusher(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(epoch)
	c := NewController(clk, nil, Options{Logger: slog.New(slog.DiscardHandler)})

	require.NoError(t, c.Start(ctx, ledger.Focus, 0))
	clk.Advance(time.Minute)
	c.Checkpoint(ctx)
	require.NoError(t, c.Stop(ctx))

	assert.Equal(t, time.Minute, c.Elapsed())
}
