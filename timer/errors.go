package timer

import "github.com/ayoisaiah/tasktimer/internal/apperr"

var (
	errInvalidTransition = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "cannot %s a timer that is %s",
	}

	errInvalidMode = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid timer mode %q",
	}

	errNegativeTarget = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "countdown duration must not be negative, got %v",
	}

	errMissingSession = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "a recorder needs a session id",
	}

	errInvalidSoundFormat = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "sound file must be in mp3, ogg, flac, or wav format: %s",
	}
)
