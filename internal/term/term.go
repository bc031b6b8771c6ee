// Package term holds ANSI colour state and terminal detection.
//
// [Configure] runs once at startup. When colours are disabled every code is
// the empty string, so [Paint] returns its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/directscan/internal/config"
)

// ANSI colour codes. Empty when colours are disabled.
var (
	Red     = ""
	Green   = ""
	Magenta = ""
	Bold    = ""
	NC      = "" // Reset sequence.
)

// Configure resolves mode against stdout and sets the package-level codes.
func Configure(mode config.ColorMode) {
	set(resolve(mode, os.Stdout))
}

func set(enable bool) {
	if enable {
		Red = "\033[1;91m"
		Green = "\033[1;92m"
		Magenta = "\033[1;95m"
		Bold = "\033[1m"
		NC = "\033[0m"
		return
	}
	Red, Green, Magenta, Bold, NC = "", "", "", "", ""
}

// Enabled reports whether ANSI colours are currently active.
func Enabled() bool { return NC != "" }

// Paint wraps s in color and a reset when colours are enabled.
func Paint(color, s string) string {
	if color == "" || !Enabled() {
		return s
	}
	return color + s + NC
}

// resolve honours the explicit mode, then TTY detection, NO_COLOR
// (https://no-color.org) and TERM=dumb.
func resolve(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(out) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
