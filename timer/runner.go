package timer

import (
	"context"
	"log/slog"
	"time"
)

// Runner drives a Controller without a terminal UI. It ticks at the display
// cadence, flushes at the flush cadence and stops the timer when its context
// is cancelled.
type Runner struct {
	Controller *Controller
	// Recorder, if set, is waited on before Run returns.
	Recorder *Recorder
	Logger   *slog.Logger
	// OnTick is called after every display tick.
	OnTick func(TickResult)
	// OnComplete is called when a countdown finishes.
	OnComplete    func(ctx context.Context, res TickResult)
	TickInterval  time.Duration
	FlushInterval time.Duration
}

// Run blocks until ctx is cancelled or the controller stops. On cancellation
// it issues one final flush that is detached from ctx, then waits for
// in-flight deliveries.
func (r *Runner) Run(ctx context.Context) error {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	tick := time.NewTicker(interval(r.TickInterval, 500*time.Millisecond))
	defer tick.Stop()

	flush := time.NewTicker(interval(r.FlushInterval, time.Minute))
	defer flush.Stop()

	defer func() {
		if r.Recorder != nil {
			r.Recorder.Wait()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			final := context.WithoutCancel(ctx)

			switch r.Controller.State() {
			case Running, Paused:
				err := r.Controller.Stop(final)
				if err != nil {
					return err
				}
			case Stopped:
				r.Controller.Checkpoint(final)
			}

			log.Info("runner cancelled", "cause", context.Cause(ctx))

			return nil

		case <-tick.C:
			res := r.Controller.Tick(ctx)

			if r.OnTick != nil {
				r.OnTick(res)
			}

			if res.Done() && r.OnComplete != nil {
				r.OnComplete(ctx, res)
			}

			if res.State == Stopped {
				r.Controller.Checkpoint(ctx)
				return nil
			}

		case <-flush.C:
			r.Controller.Checkpoint(ctx)
		}
	}
}

func interval(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}

	return d
}
