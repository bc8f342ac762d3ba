package components

import "strings"

// spaces covers the common padding widths without allocating.
var spaces = strings.Repeat(" ", 160)

// Pad returns a string of n spaces.
func Pad(n int) string {
	switch {
	case n <= 0:
		return ""
	case n <= len(spaces):
		return spaces[:n]
	default:
		return strings.Repeat(" ", n)
	}
}
