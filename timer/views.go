package timer

import (
	"strings"

	"github.com/ayoisaiah/tasktimer/internal/timeutil"
)

// clockView returns the remaining time of a countdown or the elapsed time of
// a stopwatch.
func (m *Model) clockView() string {
	if m.ctrl.Target() > 0 {
		return timeutil.Clock(m.ctrl.Remaining())
	}

	return timeutil.Clock(m.ctrl.Elapsed())
}

func (m *Model) headerView() string {
	var s strings.Builder

	s.WriteString(m.style.modes[m.ctrl.Mode()].Render(displayName(m.ctrl.Mode())))

	switch {
	case m.ctrl.State() == Paused:
		s.WriteString(m.style.secondary.Render("[Paused]"))
	case m.ctrl.Target() > 0:
		timeFormat := "03:04:05 PM"
		if m.opts.TwentyFourHr {
			timeFormat = "15:04:05"
		}

		end := m.opts.Clock.Now().Add(m.ctrl.Remaining())

		s.WriteString(m.style.hint.Render("until " + end.Format(timeFormat)))
	default:
		s.WriteString(m.style.hint.Render("stopwatch"))
	}

	if m.opts.TaskLabel != "" {
		label := m.opts.TaskLabel
		if m.opts.SessionName != "" {
			label += " / " + m.opts.SessionName
		}

		s.WriteString(m.style.hint.Render("  " + label))
	}

	return s.String()
}

// syncView is a passive indicator of ledger and mirror failures. It never
// blocks the timer.
func (m *Model) syncView() string {
	if m.rec == nil {
		return ""
	}

	st := m.rec.Status()
	if st.OK() {
		return ""
	}

	var parts []string

	if st.LedgerErr != nil {
		parts = append(parts, "ledger sync failing, retrying ("+
			timeutil.Clock(st.Pending)+" pending)")
	}

	if st.MirrorErr != nil {
		parts = append(parts, "mirror sync failing, retrying")
	}

	return "\n\n" + m.style.warn.Render(strings.Join(parts, " · "))
}

func (m *Model) timerView() string {
	var s strings.Builder

	s.WriteString(m.headerView())
	s.WriteString("\n\n")
	s.WriteString(m.style.main.Render(m.clockView()))

	if target := m.ctrl.Target(); target > 0 {
		percent := float64(m.ctrl.Elapsed()) / float64(target)

		s.WriteString("\n\n")
		s.WriteString(m.progress.ViewAs(percent))
	}

	s.WriteString(m.syncView())

	if m.err != nil {
		s.WriteString("\n\n" + m.style.hint.Render(m.err.Error()))
	}

	s.WriteString("\n\n" + m.help.View(m.keys))

	return s.String()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	return m.style.base.Render(m.timerView())
}
