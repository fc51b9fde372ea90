package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/showrunner/showrunner/internal/pipeline"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// renderStatus colors a pipeline status for terminal output.
func renderStatus(s pipeline.Status) string {
	switch s {
	case pipeline.StatusComplete:
		return okStyle.Render(string(s))
	case pipeline.StatusPartial:
		return warnStyle.Render(string(s))
	case pipeline.StatusCancelled:
		return dimStyle.Render(string(s))
	default:
		return failStyle.Render(string(s))
	}
}

// formatSeconds renders a duration in seconds with trailing zeros trimmed.
func formatSeconds(seconds float64) string {
	s := fmt.Sprintf("%.2f", seconds)
	s = trimTrailing(s)
	return s + "s"
}

func trimTrailing(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
