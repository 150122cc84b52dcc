package mirror

import "time"

// Options selects and configures a mirror backend.
type Options struct {
	Kind    string
	Command string
	Field   string
	BaseURL string
	Token   string
	Timeout time.Duration
}

// New returns the client described by opts, or nil when no mirror is
// configured.
func New(opts Options) (Client, error) {
	switch opts.Kind {
	case "", "off":
		return nil, nil
	case "taskwarrior":
		return NewTaskwarrior(opts.Command, opts.Field), nil
	case "http":
		return NewHTTP(opts.BaseURL, opts.Field, opts.Token, opts.Timeout), nil
	default:
		return nil, errUnknownKind.Fmt(opts.Kind)
	}
}
