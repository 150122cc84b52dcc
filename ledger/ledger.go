package ledger

import (
	"context"
	"strings"
	"time"
)

// Ledger is the store contract consumed by the duration recorder. It is
// storage agnostic; see package store for implementations.
//
// AppendDuration is a read-modify-write of a single segment. Implementations
// may make it atomic, but callers must not rely on that and should keep at
// most one writer per session.
type Ledger interface {
	// FindOrCreateTask returns the task keyed by (projectID, vendorTaskID),
	// creating it if necessary. Concurrent calls with the same key resolve to
	// the same task.
	FindOrCreateTask(ctx context.Context, projectID, vendorTaskID string) (*Task, error)
	// CreateSession appends a session to the task with order max+1.
	CreateSession(ctx context.Context, taskID, name string) (*Session, error)
	// AppendDuration adds delta to the session's segment for mode and returns
	// the updated session.
	AppendDuration(ctx context.Context, sessionID string, mode Mode, delta time.Duration) (*Session, error)
	GetTask(ctx context.Context, taskID string) (*Task, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	// ListTasks returns every task recorded for projectID.
	ListTasks(ctx context.Context, projectID string) ([]*Task, error)
	Close() error
}

// ValidateTaskKey checks the inputs of FindOrCreateTask.
func ValidateTaskKey(projectID, vendorTaskID string) error {
	if strings.TrimSpace(projectID) == "" {
		return ErrMissingProject
	}

	if strings.TrimSpace(vendorTaskID) == "" {
		return ErrMissingVendorTask
	}

	return nil
}

// ValidateNewSession checks the inputs of CreateSession.
func ValidateNewSession(taskID, name string) error {
	if strings.TrimSpace(taskID) == "" {
		return ErrMissingTask
	}

	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}

	return nil
}

// ValidateAppend checks the inputs of AppendDuration. Deltas are recorded in
// whole milliseconds, so anything below 1ms is rejected.
func ValidateAppend(sessionID string, mode Mode, delta time.Duration) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrMissingSession
	}

	if !mode.Valid() {
		return errInvalidMode.Fmt(mode)
	}

	if delta < time.Millisecond {
		return ErrNonPositiveDelta.Fmt(delta)
	}

	return nil
}
