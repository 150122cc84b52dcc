package osutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "vim")

	assert.Equal(t, "vim", Editor())

	t.Setenv("VISUAL", "code --wait")

	assert.Equal(t, "code --wait", Editor())
}
