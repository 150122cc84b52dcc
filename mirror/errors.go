package mirror

import "github.com/ayoisaiah/tasktimer/internal/apperr"

var (
	errMissingVendorTask = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "mirror: vendor task id is required",
	}

	errUnknownKind = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "unknown mirror kind %q: must be taskwarrior or http",
	}

	errTaskNotFound = &apperr.Error{
		Kind:    apperr.KindExternalSync,
		Message: "vendor task %s not found",
	}

	errFieldNotNumeric = &apperr.Error{
		Kind:    apperr.KindExternalSync,
		Message: "field %q of vendor task %s is not numeric",
	}

	errUnexpectedStatus = &apperr.Error{
		Kind:    apperr.KindExternalSync,
		Message: "unexpected response status %d from %s",
	}
)
