package tui

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/riskmap/internal/view"
)

const helpText = "/ search • ↑/↓ move • enter toggle • s refresh • r reset • q quit"

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	var sections []string
	sections = append(sections, m.renderHeader())

	if m.mode == modeSearch {
		sections = append(sections, m.input.View())
	}

	switch m.state.Screen {
	case view.Disambiguation:
		sections = append(sections, m.renderMatches())
	case view.Viewing:
		sections = append(sections, m.renderTree())
	default:
		sections = append(sections, styles.Subtitle.Render("Press / to search for a component."))
	}

	if tip := m.events.Tooltip(); tip != "" {
		sections = append(sections, styles.Tooltip.Render(tip))
	}
	if m.message != "" {
		sections = append(sections, styles.Error.Render(m.message))
	}
	sections = append(sections, styles.Footer.Render(helpText))

	return strings.Join(sections, "\n\n")
}

func (m model) renderHeader() string {
	header := styles.Title.Render("riskmap")
	if am := m.state.ActiveMap; am != nil {
		header += "  " + styles.Title.Render(am.Name)
		if am.Description != "" {
			header += "  " + styles.Subtitle.Render(am.Description)
		}
	}
	if m.fetching {
		header += "  " + m.spinner.View() + styles.Subtitle.Render(" fetching statuses")
	}
	return header
}

func (m model) renderMatches() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s appears in %d maps. Choose one:\n", m.state.Highlighted, len(m.state.Matches))
	for i, match := range m.state.Matches {
		line := match.Name
		if match.Description != "" {
			line += " " + styles.Subtitle.Render("("+match.Description+")")
		}
		if i == m.cursor {
			line = styles.Cursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}

func (m model) renderTree() string {
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		marker := "  "
		switch {
		case r.collapsed:
			marker = "▸ "
		case len(r.node.Children) > 0:
			marker = "▾ "
		}

		label := string(r.node.ID)
		if r.node.Highlighted {
			label = styles.Highlighted.Render(label)
		}
		if i == m.cursor {
			label = styles.Cursor.Render(string(r.node.ID))
		}

		line := strings.Repeat("  ", r.depth) + marker + label
		if !r.node.Synthetic {
			line += " " + statusBadge(r.node.Status)
		}
		if r.collapsed {
			line += styles.Collapsed.Render(fmt.Sprintf(" +%d", r.hidden))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
