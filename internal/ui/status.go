// Package ui provides the CLI's visual styling: colorized BehaviorStatus
// rendering and an indented tree view of a running behavior hierarchy.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"dimasbt/internal/behavior"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorFailure = lipgloss.Color("#e53935")
	colorRunning = lipgloss.Color("#FFC107")
	colorSkipped = lipgloss.Color("#2196F3")
	colorIdle    = lipgloss.Color("#4db6ac")

	statusStyles = map[behavior.Status]lipgloss.Style{
		behavior.Success: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		behavior.Failure: lipgloss.NewStyle().Foreground(colorFailure).Bold(true),
		behavior.Running: lipgloss.NewStyle().Foreground(colorRunning),
		behavior.Skipped: lipgloss.NewStyle().Foreground(colorSkipped),
		behavior.Idle:    lipgloss.NewStyle().Foreground(colorIdle),
	}
)

// StatusString renders s through its semantic color: green for Success,
// red for Failure, yellow for Running, blue for Skipped, and cyan for
// Idle.
func StatusString(s behavior.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return s.String()
	}
	return style.Render(s.String())
}
