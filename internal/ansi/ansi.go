// Package ansi sanitizes terminal control sequences out of script text
// before it reaches log records.
package ansi

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const ellipsis = "..."

// Strip removes terminal escape sequences from s.
func Strip(s string) string {
	return xansi.Strip(s)
}

// Preview renders script as a single line for logs and span attributes.
// Escape sequences are dropped, whitespace runs collapse to one space and
// the result is cut to maxWidth terminal cells with a trailing ellipsis.
// A maxWidth of zero or less disables truncation.
func Preview(script string, maxWidth int) string {
	clean := strings.Join(strings.Fields(Strip(script)), " ")

	if maxWidth <= 0 || xansi.StringWidth(clean) <= maxWidth {
		return clean
	}

	if maxWidth <= len(ellipsis) {
		return xansi.Truncate(clean, maxWidth, "")
	}

	return xansi.Truncate(clean, maxWidth, ellipsis)
}
