// Package ui holds the colour and table helpers used by command output.
package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/tasktimer/ledger"
)

// DarkTheme selects the light variant of each colour.
var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Mode colours a value by the mode it belongs to.
func Mode(mode ledger.Mode, a any) string {
	if mode == ledger.Break {
		return Cyan(a)
	}

	return Green(a)
}

// State colours a timer state name.
func State(state string) string {
	switch state {
	case "running":
		return Green(state)
	case "paused":
		return Magenta(state)
	default:
		return Red(state)
	}
}
