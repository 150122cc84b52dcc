package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/ledger"
)

var errStoreDown = errors.New("store unavailable")

type appendCall struct {
	mode  ledger.Mode
	delta time.Duration
}

// memLedger is an in-memory ledger that can be told to fail or block.
type memLedger struct {
	sessions map[string]*ledger.Session
	// gate, when set, blocks every append until it is closed.
	gate    chan struct{}
	appends []appendCall
	// failures is the number of upcoming appends that fail.
	failures int
	mu       sync.Mutex
}

func newMemLedger(sessionIDs ...string) *memLedger {
	m := &memLedger{sessions: make(map[string]*ledger.Session)}

	for i, id := range sessionIDs {
		m.sessions[id] = &ledger.Session{ID: id, TaskID: "t1", Name: id, Order: i + 1}
	}

	return m
}

func (m *memLedger) failNext(n int) {
	m.mu.Lock()
	m.failures = n
	m.mu.Unlock()
}

func (m *memLedger) FindOrCreateTask(
	_ context.Context,
	projectID, vendorTaskID string,
) (*ledger.Task, error) {
	return &ledger.Task{ID: "t1", ProjectID: projectID, VendorTaskID: vendorTaskID}, nil
}

func (m *memLedger) CreateSession(_ context.Context, taskID, name string) (*ledger.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &ledger.Session{ID: name, TaskID: taskID, Name: name, Order: len(m.sessions) + 1}
	m.sessions[name] = s

	return s, nil
}

func (m *memLedger) AppendDuration(
	_ context.Context,
	sessionID string,
	mode ledger.Mode,
	delta time.Duration,
) (*ledger.Session, error) {
	if m.gate != nil {
		<-m.gate
	}

	if err := ledger.ValidateAppend(sessionID, mode, delta); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failures > 0 {
		m.failures--
		return nil, apperr.ErrPersistence.Wrap(errStoreDown)
	}

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ledger.ErrSessionNotFound.Fmt(sessionID)
	}

	s.AddDuration(mode, delta.Milliseconds(), time.Time{})
	m.appends = append(m.appends, appendCall{mode: mode, delta: delta})

	cp := *s

	return &cp, nil
}

func (m *memLedger) GetTask(context.Context, string) (*ledger.Task, error) {
	return nil, ledger.ErrTaskNotFound.Fmt("t1")
}

func (m *memLedger) GetSession(_ context.Context, id string) (*ledger.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ledger.ErrSessionNotFound.Fmt(id)
	}

	cp := *s

	return &cp, nil
}

func (m *memLedger) ListTasks(context.Context, string) ([]*ledger.Task, error) {
	return nil, nil
}

func (m *memLedger) Close() error {
	return nil
}

func (m *memLedger) total(sessionID string, mode ledger.Mode) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions[sessionID].Total(mode)
}

func (m *memLedger) calls() []appendCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]appendCall(nil), m.appends...)
}

// memMirror is an in-memory mirror client.
type memMirror struct {
	err     error
	minutes map[string]float64
	mu      sync.Mutex
}

func newMemMirror() *memMirror {
	return &memMirror{minutes: make(map[string]float64)}
}

func (m *memMirror) setErr(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *memMirror) ReadMinutes(_ context.Context, id string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.minutes[id], m.err
}

func (m *memMirror) WriteMinutes(_ context.Context, id string, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.minutes[id] = v

	return nil
}

func (m *memMirror) get(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.minutes[id]
}

// recordingPlayer remembers the sounds it was asked to play.
type recordingPlayer struct {
	played []string
	mu     sync.Mutex
}

func (p *recordingPlayer) Play(sound string) error {
	p.mu.Lock()
	p.played = append(p.played, sound)
	p.mu.Unlock()

	return nil
}

func (p *recordingPlayer) Close() error {
	return nil
}
