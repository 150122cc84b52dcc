package ui

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tasktimer/ledger"
)

func TestPrintTable(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	var buf bytes.Buffer

	err := PrintTable([][]string{
		{"TASK", "FOCUS"},
		{"v1", "25m"},
	}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "TASK")
	assert.Contains(t, out, "25m")
}

func TestColoursWithoutStyling(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	assert.Equal(t, "running", State("running"))
	assert.Equal(t, "25m", Mode(ledger.Break, "25m"))
}
