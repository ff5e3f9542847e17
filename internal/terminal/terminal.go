// Package terminal detects what the attached terminal can render.
//
// Scripts inherit the bridge's stdout, so detection looks at the real file
// descriptors rather than at whatever writer a caller injects.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Info holds terminal capability information.
type Info struct {
	IsTTY       bool
	StderrIsTTY bool
	NoColor     bool
	ForceFlag   bool // Set when --no-color flag or output.color=false is used
}

// Detect returns terminal information for the current environment.
func Detect() *Info {
	// Check NO_COLOR environment variable (https://no-color.org/)
	_, noColor := os.LookupEnv("NO_COLOR")

	// Treat TERM=dumb as no-color (terminals that don't support escape sequences)
	if os.Getenv("TERM") == "dumb" {
		noColor = true
	}

	return &Info{
		IsTTY:       isTerminal(os.Stdout),
		StderrIsTTY: isTerminal(os.Stderr),
		NoColor:     noColor,
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// ColorEnabled returns true if colored output should be used on stdout.
func (t *Info) ColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.IsTTY && !t.NoColor
}

// ErrColorEnabled returns true if colored output should be used on stderr.
func (t *Info) ErrColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.StderrIsTTY && !t.NoColor
}
