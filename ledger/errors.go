package ledger

import "github.com/ayoisaiah/tasktimer/internal/apperr"

var (
	errInvalidMode = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid mode %q: must be FOCUS or BREAK",
	}

	ErrMissingProject = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "project id is required",
	}

	ErrMissingVendorTask = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "vendor task id is required",
	}

	ErrMissingTask = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "task id is required",
	}

	ErrMissingSession = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "session id is required",
	}

	ErrMissingName = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "session name is required",
	}

	ErrNonPositiveDelta = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "duration delta must be at least 1ms, got %v",
	}

	ErrTaskNotFound = &apperr.Error{
		Kind:    apperr.KindNotFound,
		Message: "task %s not found",
	}

	ErrSessionNotFound = &apperr.Error{
		Kind:    apperr.KindNotFound,
		Message: "session %s not found",
	}
)
