// Package apperr defines the error kinds shared across tasktimer and a message
// template type for constructing them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how callers are expected to recover from it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks missing or invalid input. Only the triggering call
	// is aborted.
	KindValidation
	// KindNotFound marks a reference to a task, session or project that does
	// not exist in the ledger.
	KindNotFound
	// KindPersistence marks a failed ledger write. The same delta is retried
	// on the next tick.
	KindPersistence
	// KindExternalSync marks a failed mirror read or write.
	KindExternalSync
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindPersistence:
		return "persistence"
	case KindExternalSync:
		return "external sync"
	default:
		return "unknown"
	}
}

// Error is an application error with a message template and an optional
// underlying cause.
type Error struct {
	Cause   error
	Message string
	Kind    Kind
}

var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation error"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrPersistence  = &Error{Kind: KindPersistence, Message: "persistence error"}
	ErrExternalSync = &Error{Kind: KindExternalSync, Message: "external sync error"}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports a match when target is an *Error of the same kind whose message
// is either identical or one of the kind sentinels above.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.isSentinel() || t.Message == e.Message
}

func (e *Error) isSentinel() bool {
	return e == ErrValidation || e == ErrNotFound || e == ErrPersistence ||
		e == ErrExternalSync
}

// Fmt returns a copy of the error with its message formatted with args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
	}
}

// Wrap returns a copy of the error with err attached as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Cause:   err,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
