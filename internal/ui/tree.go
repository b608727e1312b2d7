package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dimasbt/internal/behavior"
)

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	typeStyle = lipgloss.NewStyle().Faint(true)
)

// RenderTree renders a behavior tree as an indented outline, one node per
// line: the instance name, the registered type when it differs, and the
// node's current status in its semantic color. Used by the validate and
// watch commands.
func RenderTree(root behavior.Behavior) string {
	var sb strings.Builder
	renderNode(&sb, root, 0)
	return sb.String()
}

func renderNode(sb *strings.Builder, b behavior.Behavior, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(nameStyle.Render(b.Name()))
	if m := b.Config().Manifest; m != nil && m.RegistrationID != b.Name() {
		sb.WriteString(" " + typeStyle.Render("["+m.RegistrationID+"]"))
	}
	sb.WriteString(" " + StatusString(b.Status()))
	sb.WriteString("\n")
	for _, c := range b.Children() {
		renderNode(sb, c, depth+1)
	}
}
