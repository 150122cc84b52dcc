// Package osutil holds platform constants and helpers.
package osutil

import (
	"os"
	"runtime"
)

const Windows = "windows"

type ExitCode int

const ExitError ExitCode = 1

const DirPermission = 0o755

// Editor returns the user's preferred editor from $VISUAL or $EDITOR, falling
// back to a platform default.
func Editor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}

	if runtime.GOOS == Windows {
		return `C:\Windows\system32\notepad.exe`
	}

	return "nano"
}
