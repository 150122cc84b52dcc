package report

import (
	"slices"
	"time"

	"github.com/maruel/natural"

	"github.com/ayoisaiah/tasktimer/ledger"
)

// Totals is the accumulated time per mode, in milliseconds to match the
// ledger's storage unit.
type Totals struct {
	FocusMs int64 `json:"focus_ms"`
	BreakMs int64 `json:"break_ms"`
}

func (t Totals) Focus() time.Duration {
	return time.Duration(t.FocusMs) * time.Millisecond
}

func (t Totals) Break() time.Duration {
	return time.Duration(t.BreakMs) * time.Millisecond
}

func (t *Totals) add(s *ledger.Session) {
	t.FocusMs += s.Total(ledger.Focus).Milliseconds()
	t.BreakMs += s.Total(ledger.Break).Milliseconds()
}

// TaskSummary aggregates every session of a task.
type TaskSummary struct {
	LastActive   time.Time `json:"last_active"`
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	VendorTaskID string    `json:"vendor_task_id"`
	Sessions     int       `json:"sessions"`
	Local        bool      `json:"local"`
	Totals
}

// SessionSummary is one session of a task.
type SessionSummary struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	Totals
}

// lastActive returns the most recent write to t, or its creation time if it
// has no sessions.
func lastActive(t *ledger.Task) time.Time {
	last := t.CreatedAt

	for _, s := range t.Sessions {
		if s.UpdatedAt.After(last) {
			last = s.UpdatedAt
		}
	}

	return last
}

// Summarize totals each task active at or after since. A zero since includes
// every task. The result is in natural order of vendor task id, so "task-2"
// sorts before "task-10".
func Summarize(tasks []*ledger.Task, since time.Time) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))

	for _, t := range tasks {
		last := lastActive(t)
		if !since.IsZero() && last.Before(since) {
			continue
		}

		sum := TaskSummary{
			LastActive:   last,
			ID:           t.ID,
			ProjectID:    t.ProjectID,
			VendorTaskID: t.VendorTaskID,
			Sessions:     len(t.Sessions),
			Local:        t.IsLocal(),
		}

		for _, s := range t.Sessions {
			sum.add(s)
		}

		out = append(out, sum)
	}

	slices.SortStableFunc(out, func(a, b TaskSummary) int {
		switch {
		case natural.Less(a.VendorTaskID, b.VendorTaskID):
			return -1
		case natural.Less(b.VendorTaskID, a.VendorTaskID):
			return 1
		default:
			return 0
		}
	})

	return out
}

// Sessions lists the sessions of t updated at or after since, by order.
func Sessions(t *ledger.Task, since time.Time) []SessionSummary {
	out := make([]SessionSummary, 0, len(t.Sessions))

	for _, s := range t.Sessions {
		if !since.IsZero() && s.UpdatedAt.Before(since) {
			continue
		}

		sum := SessionSummary{
			UpdatedAt: s.UpdatedAt,
			ID:        s.ID,
			Name:      s.Name,
			Order:     s.Order,
		}

		sum.add(s)

		out = append(out, sum)
	}

	slices.SortFunc(out, func(a, b SessionSummary) int {
		return a.Order - b.Order
	})

	return out
}
