package timer

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/ledger"
	"github.com/ayoisaiah/tasktimer/mirror"
)

// Reason identifies what triggered a flush.
type Reason int

const (
	// ReasonTick is a periodic flush.
	ReasonTick Reason = iota
	ReasonPause
	// ReasonSwitch closes the current run because the mode changed.
	ReasonSwitch
	// ReasonComplete closes the current run because its countdown finished.
	ReasonComplete
	// ReasonStop closes the current run because the timer stopped.
	ReasonStop
)

func (r Reason) String() string {
	switch r {
	case ReasonTick:
		return "tick"
	case ReasonPause:
		return "pause"
	case ReasonSwitch:
		return "switch"
	case ReasonComplete:
		return "complete"
	case ReasonStop:
		return "stop"
	default:
		return "unknown"
	}
}

func (r Reason) closesRun() bool {
	return r == ReasonSwitch || r == ReasonComplete || r == ReasonStop
}

// Snapshot is the controller state handed to a Flusher. Run changes every
// time a mode starts, and Elapsed restarts from zero with it.
type Snapshot struct {
	Mode    ledger.Mode
	Run     uint64
	Elapsed time.Duration
}

// Flusher converts elapsed time into ledger increments.
type Flusher interface {
	Flush(ctx context.Context, snap Snapshot, reason Reason)
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	Logger *slog.Logger
	// Mirror receives focused minutes after each successful append. Nil
	// disables mirroring.
	Mirror mirror.Client
	// MinFlush is the smallest unflushed amount a periodic flush will send.
	MinFlush time.Duration
	// SafetyBuffer is the smallest trailing amount worth sending on stop.
	SafetyBuffer time.Duration
	// Async delivers flushes on a separate goroutine so that callers never
	// wait on the ledger or the mirror.
	Async bool
}

// run tracks what has been persisted for one mode run.
type run struct {
	mode ledger.Mode
	// flushed is the watermark: elapsed time confirmed by the ledger.
	flushed time.Duration
	// inflight is elapsed time handed to the ledger but not yet confirmed.
	inflight time.Duration
	// seen is the latest elapsed value reported for the run. Once the run
	// is closed it is the run's final length.
	seen time.Duration
	// owed is the end of the furthest window the ledger rejected. Time up
	// to owed is always retried.
	owed   time.Duration
	id     uint64
	closed bool
}

func (r *run) unflushed() time.Duration {
	return (r.seen - r.flushed - r.inflight).Truncate(time.Millisecond)
}

func (r *run) settled() bool {
	return r.closed && r.inflight == 0 && r.unflushed() <= 0
}

type delivery struct {
	mode  ledger.Mode
	run   uint64
	delta time.Duration
}

// SyncStatus is a passive summary of the recorder's progress, suitable for a
// status line.
type SyncStatus struct {
	LedgerErr error
	MirrorErr error
	// Recorded is the total confirmed by the ledger.
	Recorded time.Duration
	// Pending is elapsed time not yet confirmed by the ledger.
	Pending time.Duration
	// MirrorBacklog is focused time confirmed by the ledger but not yet
	// mirrored.
	MirrorBacklog time.Duration
}

// OK reports whether the last ledger and mirror calls succeeded.
func (s SyncStatus) OK() bool {
	return s.LedgerErr == nil && s.MirrorErr == nil
}

// Recorder owns the ledger writes for a single session. It keeps the
// watermark of every mode run as internal state and only advances it after
// the ledger confirms an append, so a failed append is resent on the next
// flush and a successful one is never sent twice.
//
// Appends are delivered one at a time, which keeps the session to a single
// writer even when several flushes are in flight.
type Recorder struct {
	ledger       ledger.Ledger
	mirror       mirror.Client
	log          *slog.Logger
	runs         map[uint64]*run
	status       SyncStatus
	sessionID    string
	vendorTaskID string
	opts         RecorderOptions
	wg           sync.WaitGroup
	// backlog is focused time awaiting the mirror.
	backlog   time.Duration
	current   uint64
	mu        sync.Mutex
	deliverMu sync.Mutex
}

// NewRecorder returns a recorder that appends to sessionID and, if a mirror
// is configured, mirrors focused minutes to vendorTaskID.
func NewRecorder(
	l ledger.Ledger,
	sessionID, vendorTaskID string,
	opts RecorderOptions,
) (*Recorder, error) {
	if sessionID == "" {
		return nil, errMissingSession
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Recorder{
		ledger:       l,
		mirror:       opts.Mirror,
		log:          opts.Logger.With("session", sessionID),
		runs:         make(map[uint64]*run),
		sessionID:    sessionID,
		vendorTaskID: vendorTaskID,
		opts:         opts,
	}, nil
}

// Flush sends the unflushed part of snap's run, plus any window that an
// earlier flush failed to deliver, to the ledger.
func (r *Recorder) Flush(ctx context.Context, snap Snapshot, reason Reason) {
	r.mu.Lock()
	batch := r.collect(snap, reason)
	mirrorDue := r.mirror != nil && r.backlog > 0
	r.mu.Unlock()

	if len(batch) == 0 && !mirrorDue {
		return
	}

	if !r.opts.Async {
		r.deliver(ctx, batch)
		return
	}

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		r.deliver(ctx, batch)
	}()
}

// threshold returns the smallest amount worth sending for the run that
// triggered the flush.
func (r *Recorder) threshold(reason Reason) time.Duration {
	switch reason {
	case ReasonTick:
		return max(r.opts.MinFlush, time.Millisecond)
	case ReasonStop:
		return max(r.opts.SafetyBuffer, time.Millisecond)
	default:
		return time.Millisecond
	}
}

// collect updates run bookkeeping for snap and marks the deliveries it
// returns as in flight. It must be called with r.mu held.
func (r *Recorder) collect(snap Snapshot, reason Reason) []delivery {
	cur, ok := r.runs[snap.Run]
	if !ok {
		cur = &run{id: snap.Run, mode: snap.Mode}
		r.runs[snap.Run] = cur
	}

	r.current = snap.Run

	if !cur.closed {
		cur.seen = max(cur.seen, snap.Elapsed)
		cur.closed = reason.closesRun()

		// A trailing window shorter than the safety buffer is dropped on
		// stop. Windows in flight or awaiting a retry are kept.
		floor := max(cur.flushed+cur.inflight, cur.owed)
		if reason == ReasonStop && (cur.seen-floor).Truncate(time.Millisecond) < r.threshold(reason) {
			cur.seen = min(cur.seen, floor)
		}
	}

	ids := make([]uint64, 0, len(r.runs))
	for id := range r.runs {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	var batch []delivery

	for _, id := range ids {
		rn := r.runs[id]

		if rn.settled() {
			if id != snap.Run {
				delete(r.runs, id)
			}

			continue
		}

		delta := rn.unflushed()
		if delta <= 0 {
			continue
		}

		if id == snap.Run && !rn.closed && delta < r.threshold(reason) {
			continue
		}

		rn.inflight += delta

		batch = append(batch, delivery{run: id, mode: rn.mode, delta: delta})
	}

	return batch
}

// deliver appends each delivery in order and then pushes the mirror backlog.
func (r *Recorder) deliver(ctx context.Context, batch []delivery) {
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	for _, d := range batch {
		_, err := r.ledger.AppendDuration(ctx, r.sessionID, d.mode, d.delta)
		r.complete(d, err)

		if err != nil {
			r.log.Warn(
				"ledger append failed, will retry",
				"mode", d.mode,
				"delta", d.delta,
				"kind", apperr.KindOf(err).String(),
				"error", err,
			)

			continue
		}

		r.log.Debug("ledger append", "mode", d.mode, "delta", d.delta)
	}

	r.syncMirror(ctx)
}

// complete settles a delivery. The watermark moves only on success.
func (r *Recorder) complete(d delivery, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rn, ok := r.runs[d.run]
	if !ok {
		return
	}

	if err != nil {
		rn.owed = max(rn.owed, rn.flushed+rn.inflight)
		rn.inflight -= d.delta
		r.status.LedgerErr = err
		return
	}

	rn.inflight -= d.delta
	rn.flushed += d.delta
	r.status.LedgerErr = nil
	r.status.Recorded += d.delta

	if d.mode == ledger.Focus && r.mirror != nil {
		r.backlog += d.delta
	}

	if rn.settled() && d.run != r.current {
		delete(r.runs, d.run)
	}
}

// syncMirror pushes the focused backlog to the mirror. Failures leave the
// backlog in place for the next flush and never affect the ledger.
func (r *Recorder) syncMirror(ctx context.Context) {
	if r.mirror == nil {
		return
	}

	r.mu.Lock()
	backlog := r.backlog
	r.mu.Unlock()

	if backlog <= 0 {
		return
	}

	err := mirror.Increment(ctx, r.mirror, r.vendorTaskID, backlog.Minutes())

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.status.MirrorErr = err
		r.log.Warn(
			"mirror increment failed",
			"vendor_task", r.vendorTaskID,
			"minutes", backlog.Minutes(),
			"error", err,
		)

		return
	}

	r.backlog -= backlog
	r.status.MirrorErr = nil
}

// Wait blocks until every in-flight delivery has completed.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Watermark returns the confirmed elapsed time of the most recently flushed
// run.
func (r *Recorder) Watermark() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rn, ok := r.runs[r.current]; ok {
		return rn.flushed
	}

	return 0
}

// Status returns a snapshot of the recorder's sync state.
func (r *Recorder) Status() SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.status
	s.MirrorBacklog = r.backlog

	for _, rn := range r.runs {
		s.Pending += max(rn.seen-rn.flushed, 0)
	}

	return s
}

var _ Flusher = (*Recorder)(nil)
