package timer

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tasktimer/ledger"
)

func TestRunnerCancelStopsAndFlushes(t *testing.T) {
	h := newHarness(t, RecorderOptions{Async: true}, Options{})

	require.NoError(t, h.ctrl.Start(context.Background(), ledger.Focus, 0))
	h.clk.Advance(30 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{
		Controller:    h.ctrl,
		Recorder:      h.rec,
		Logger:        slog.New(slog.DiscardHandler),
		TickInterval:  time.Hour,
		FlushInterval: time.Hour,
	}

	require.NoError(t, r.Run(ctx))

	assert.Equal(t, Stopped, h.ctrl.State())
	assert.Equal(t, 30*time.Second, h.led.total(sessionID, ledger.Focus),
		"the final flush is not cancelled with the context")
}

func TestRunnerExitsOnCompletion(t *testing.T) {
	h := newHarness(t, RecorderOptions{}, Options{OnComplete: CompleteStop})

	require.NoError(t, h.ctrl.Start(context.Background(), ledger.Focus, 10*time.Minute))
	h.clk.Advance(11 * time.Minute)

	var completed []TickResult

	r := &Runner{
		Controller:    h.ctrl,
		Recorder:      h.rec,
		Logger:        slog.New(slog.DiscardHandler),
		TickInterval:  5 * time.Millisecond,
		FlushInterval: time.Hour,
		OnComplete: func(_ context.Context, res TickResult) {
			completed = append(completed, res)
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, r.Run(ctx))

	require.Len(t, completed, 1)
	assert.Equal(t, ledger.Focus, completed[0].Completed)
	assert.Equal(t, Stopped, h.ctrl.State())
	assert.Equal(t, 10*time.Minute, h.led.total(sessionID, ledger.Focus))
}

func TestInterval(t *testing.T) {
	assert.Equal(t, time.Second, interval(0, time.Second))
	assert.Equal(t, time.Second, interval(-time.Minute, time.Second))
	assert.Equal(t, time.Minute, interval(time.Minute, time.Second))
}
