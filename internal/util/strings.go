// Package util provides small string helpers shared across the codebase.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to at most maxLen runes, appending "..." when it
// cuts anything. Plain text only; styled terminal output goes through
// TruncateANSI so escape sequences are not sliced apart.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI shortens s to at most maxWidth visual columns, appending
// "..." when it cuts anything. ANSI escape sequences and wide characters
// are measured by rendered width, so styled cells keep their styling.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate counts the tail toward the final width.
	return ansi.Truncate(s, maxWidth, "...")
}
