// Package ledger defines the session ledger: tasks, their ordered sessions and
// the per-mode duration segments accumulated within each session.
package ledger

import (
	"strings"
	"time"
)

// Mode is the type of a duration segment.
type Mode string

const (
	Focus Mode = "FOCUS"
	Break Mode = "BREAK"
)

// localPrefix marks a synthetic vendor id for tasks that have no external
// source.
const localPrefix = "local:"

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Focus || m == Break
}

// Paired returns the mode that follows m in a focus/break loop.
func (m Mode) Paired() Mode {
	if m == Focus {
		return Break
	}

	return Focus
}

// ParseMode converts user input such as "focus" or "BREAK" to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", errInvalidMode.Fmt(s)
	}

	return m, nil
}

// Segment is the accumulated time spent in one mode within a session.
type Segment struct {
	Type          Mode  `json:"type"`
	AccumulatedMs int64 `json:"accumulated_ms"`
}

// Accumulated returns the segment total as a duration.
func (s Segment) Accumulated() time.Duration {
	return time.Duration(s.AccumulatedMs) * time.Millisecond
}

// Session is one continuous work episode on a task.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Name      string    `json:"name"`
	Segments  []Segment `json:"segments"`
	Order     int       `json:"order"`
}

// Segment returns the segment for mode, if one has been created.
func (s *Session) Segment(mode Mode) (Segment, bool) {
	for _, seg := range s.Segments {
		if seg.Type == mode {
			return seg, true
		}
	}

	return Segment{}, false
}

// Total returns the accumulated time for mode, or zero if nothing has been
// recorded for it yet.
func (s *Session) Total(mode Mode) time.Duration {
	seg, _ := s.Segment(mode)

	return seg.Accumulated()
}

// AddDuration increments the segment for mode by deltaMs, creating it at zero
// first if absent. It is the only way a segment changes.
func (s *Session) AddDuration(mode Mode, deltaMs int64, now time.Time) {
	s.UpdatedAt = now

	for i := range s.Segments {
		if s.Segments[i].Type == mode {
			s.Segments[i].AccumulatedMs += deltaMs
			return
		}
	}

	s.Segments = append(s.Segments, Segment{
		Type:          mode,
		AccumulatedMs: deltaMs,
	})
}

// Task is a unit of work being timed.
type Task struct {
	CreatedAt    time.Time  `json:"created_at"`
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	VendorTaskID string     `json:"vendor_task_id"`
	Sessions     []*Session `json:"sessions"`
}

// Latest returns the session with the highest order, or nil if the task has
// none.
func (t *Task) Latest() *Session {
	var latest *Session

	for _, s := range t.Sessions {
		if latest == nil || s.Order > latest.Order {
			latest = s
		}
	}

	return latest
}

// Total sums the accumulated time for mode across all sessions.
func (t *Task) Total(mode Mode) time.Duration {
	var total time.Duration

	for _, s := range t.Sessions {
		total += s.Total(mode)
	}

	return total
}

// IsLocal reports whether the task has no external source.
func (t *Task) IsLocal() bool {
	return strings.HasPrefix(t.VendorTaskID, localPrefix)
}

// LocalVendorID returns the synthetic vendor id for a task named name that
// does not originate in an external system.
func LocalVendorID(name string) string {
	return localPrefix + strings.TrimSpace(name)
}
