// Package logging configures the structured logger. Logs are written to a
// rotating file because stdout belongs to the terminal UI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/tasktimer/internal/osutil"
)

// Options configures the logger.
type Options struct {
	// Path is the log file. An empty path discards all logs.
	Path  string
	Debug bool
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB  int
	MaxBackups int
}

// New returns a JSON logger writing to a rotating file, along with the writer
// that must be closed when the program exits.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}

	err := os.MkdirAll(filepath.Dir(opts.Path), osutil.DirPermission)
	if err != nil {
		return nil, nil, err
	}

	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    max(opts.MaxSizeMB, 5),
		MaxBackups: max(opts.MaxBackups, 3),
		Compress:   true,
	}

	return slog.New(NewHandler(w, opts.Debug)), w, nil
}

// NewHandler returns the JSON handler used for every log destination.
func NewHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	})
}
