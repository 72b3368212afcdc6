package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	PassStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	FailStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	Warn = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffaa00"))

	Selected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

// Verdict renders PASS or FAIL.
func Verdict(pass bool) string {
	if pass {
		return PassStyle.Render("PASS")
	}
	return FailStyle.Render("FAIL")
}

// KV renders a "label: value" line.
func KV(label string, value any) string {
	return Label.Render(label+":") + " " + Value.Render(fmt.Sprint(value))
}
