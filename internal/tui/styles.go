package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	buttonStyle         = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	buttonFocusedStyle  = buttonStyle.BorderForeground(lipgloss.Color("12")).Bold(true).Reverse(true)
	buttonDisabledStyle = buttonStyle.Faint(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func checkbox(on bool) string {
	if on {
		return successStyle.Render(boxChecked)
	}
	return mutedStyle.Render(boxUnchecked)
}

func button(label string, focused, disabled bool) string {
	switch {
	case disabled:
		return buttonDisabledStyle.Render(label)
	case focused:
		return buttonFocusedStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

// fieldError renders an inline message, or nothing.
func fieldError(msg string) string {
	if msg == "" {
		return ""
	}
	return "\n" + errorStyle.Render(msg)
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

// joinBlocks stacks blocks one per line. An empty block is a blank line;
// runs of them collapse to one and none lead or trail.
func joinBlocks(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, b)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
