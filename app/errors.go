package app

import "github.com/ayoisaiah/tasktimer/internal/apperr"

var errNoEditor = &apperr.Error{
	Kind:    apperr.KindValidation,
	Message: "no editor configured: set $VISUAL or $EDITOR",
}
