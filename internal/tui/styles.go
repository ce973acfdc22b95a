package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/riskmap/internal/diagrams"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Footer      lipgloss.Style
	Error       lipgloss.Style
	Tooltip     lipgloss.Style
	Cursor      lipgloss.Style
	Highlighted lipgloss.Style
	Collapsed   lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	Tooltip: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Italic(true),

	Cursor: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		Background(lipgloss.Color("236")),

	Highlighted: lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color(diagrams.DefaultStylesheet.Highlight.Stroke)),

	Collapsed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),
}

// statusBadge renders st in the same colors the diagrams use.
func statusBadge(st hierarchy.Status) string {
	if st == "" {
		st = hierarchy.StatusUnknown
	}
	ns := diagrams.DefaultStylesheet.For(st)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ns.Text)).
		Background(lipgloss.Color(ns.Fill)).
		Padding(0, 1).
		Render(string(st))
}
