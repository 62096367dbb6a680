package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ResolveColorMode applies --color to a detected terminal. "never" and
// "always" override; "auto" and anything unrecognised follow isTTY.
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	}
	return isTTY
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
