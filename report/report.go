// Package report prints ledger summaries and user-facing messages.
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/tasktimer/internal/osutil"
	"github.com/ayoisaiah/tasktimer/internal/timeutil"
	"github.com/ayoisaiah/tasktimer/ledger"
)

// SessionCreated announces a newly created session.
func SessionCreated(s *ledger.Session) {
	pterm.Info.Printfln("session %q (#%d) created", s.Name, s.Order)
}

func Error(err error) {
	pterm.Error.Println(err)
}

func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(int(osutil.ExitError))
}

// Recorded prints the totals of a session once its timer has exited.
func Recorded(s *ledger.Session) {
	pterm.Info.Printfln(
		"session %q: %s focus, %s break",
		s.Name,
		timeutil.HoursMins(s.Total(ledger.Focus)),
		timeutil.HoursMins(s.Total(ledger.Break)),
	)
}
