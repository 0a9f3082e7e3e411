package output

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stderr is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// IsStdoutTTY reports whether stdout is attached to a terminal. Commands use
// it to decide whether diff output is colorized.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
