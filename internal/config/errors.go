package config

import "github.com/ayoisaiah/tasktimer/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidConfigDuration = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid %s in config file: %v",
	}

	errInvalidCLIDuration = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid %s duration: %v",
	}

	errInvalidSince = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid since time",
	}

	errInvalidSoundFormat = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid sound file format: %s (must be mp3, ogg, flac, or wav)",
	}

	errInvalidColor = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "%s color must be a valid hex color code (e.g. #FF0000), got %s",
	}

	errEmptyMsg = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "%s message cannot be empty",
	}

	errInvalidDuration = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "%s duration must be between %v and %v",
	}

	errInvalidInterval = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "recorder %s is out of range: %v",
	}

	errInvalidMinFlush = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "recorder min flush (%v) must be between 0 and the flush interval (%v)",
	}

	errInvalidPolicy = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "on_complete must be 'loop' or 'stop', got %q",
	}

	errInvalidDriver = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "ledger driver must be 'bolt' or 'sqlite', got %q",
	}

	errInvalidMirror = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "mirror kind must be 'off', 'taskwarrior' or 'http', got %q",
	}

	errMissingBaseURL = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "the http mirror requires mirror.base_url",
	}

	errMissingProject = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "a project is required",
	}
)
