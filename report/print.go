package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/tasktimer/internal/timeutil"
	"github.com/ayoisaiah/tasktimer/internal/ui"
	"github.com/ayoisaiah/tasktimer/ledger"
	"github.com/ayoisaiah/tasktimer/timer"
)

const (
	noTasksMsg    = "No tasks found for the specified time range"
	noSessionsMsg = "No sessions found for the specified time range"
	noTimerMsg    = "No timer is running"
	dateFormat    = "Jan 02, 2006 03:04 PM"
)

// staleAfter is how old a status file can be before it is assumed to belong
// to a timer that exited without cleaning up.
const staleAfter = time.Minute

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

// PrintTasks prints a table of task totals.
func PrintTasks(w io.Writer, tasks []TaskSummary) error {
	if len(tasks) == 0 {
		pterm.Info.Println(noTasksMsg)
		return nil
	}

	body := [][]string{
		{"#", "TASK", "SESSIONS", "FOCUS", "BREAK", "LAST ACTIVE"},
	}

	var total Totals

	for i, t := range tasks {
		name := t.VendorTaskID
		if t.Local {
			name = ui.Magenta(name)
		}

		body = append(body, []string{
			strconv.Itoa(i + 1),
			name,
			strconv.Itoa(t.Sessions),
			ui.Mode(ledger.Focus, timeutil.HoursMins(t.Focus())),
			ui.Mode(ledger.Break, timeutil.HoursMins(t.Break())),
			t.LastActive.Local().Format(dateFormat),
		})

		total.FocusMs += t.FocusMs
		total.BreakMs += t.BreakMs
	}

	body = append(body, []string{
		"",
		ui.Highlight("TOTAL"),
		"",
		ui.Highlight(timeutil.HoursMins(total.Focus())),
		ui.Highlight(timeutil.HoursMins(total.Break())),
		"",
	})

	return ui.PrintTable(body, w)
}

// PrintSessions prints a table of the sessions of a task.
func PrintSessions(w io.Writer, vendorTaskID string, sessions []SessionSummary) error {
	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	body := [][]string{
		{"#", "NAME", "FOCUS", "BREAK", "UPDATED"},
	}

	for _, s := range sessions {
		updated := ""
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format(dateFormat)
		}

		body = append(body, []string{
			strconv.Itoa(s.Order),
			s.Name,
			ui.Mode(ledger.Focus, timeutil.HoursMins(s.Focus())),
			ui.Mode(ledger.Break, timeutil.HoursMins(s.Break())),
			updated,
		})
	}

	_, err := fmt.Fprintln(w, ui.Highlight(vendorTaskID))
	if err != nil {
		return err
	}

	return ui.PrintTable(body, w)
}

// PrintStatus prints the status of a running timer. ok is false when no
// status file was found.
func PrintStatus(w io.Writer, s timer.Status, ok bool, now time.Time) error {
	if !ok {
		_, err := fmt.Fprintln(w, noTimerMsg)
		return err
	}

	state := ui.State(s.State)
	if now.Sub(s.UpdatedAt) > staleAfter {
		state += " (stale)"
	}

	clock := timeutil.Clock(s.Elapsed)
	if s.Target > 0 {
		clock = timeutil.Clock(s.Remaining) + " remaining"
	}

	_, err := fmt.Fprintf(
		w,
		"%s %s: %s [%s]\n",
		ui.Mode(s.Mode, s.Mode),
		s.VendorTaskID,
		clock,
		state,
	)
	if err != nil {
		return err
	}

	if s.LedgerError != "" {
		_, err = fmt.Fprintf(
			w,
			"%s %s (%s pending)\n",
			ui.Red("ledger:"),
			s.LedgerError,
			timeutil.Clock(s.Pending),
		)
		if err != nil {
			return err
		}
	}

	if s.MirrorError != "" {
		_, err = fmt.Fprintf(w, "%s %s\n", ui.Red("mirror:"), s.MirrorError)
	}

	return err
}
