package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// keyBinding represents a keyboard shortcut
type keyBinding struct {
	Key         string
	Description string
}

func globalKeys() []keyBinding {
	return []keyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit (saves the workspace)"},
		{"Tab / Shift+Tab", "Next / previous tab"},
		{"Ctrl+W", "Close tab"},
		{"r", "Reload tab from disk"},
	}
}

func queryKeys() []keyBinding {
	return []keyBinding{
		{"e", "Edit the query"},
		{"Enter", "Apply, back to the grid"},
		{"Esc", "Discard edits"},
		{"s", "Cycle sort on column: asc, desc, off"},
		{"S", "Clear sort"},
	}
}

func navigationKeys() []keyBinding {
	return []keyBinding{
		{"↑/k, ↓/j", "Move up / down"},
		{"←/h, →/l", "Move across columns"},
		{"Ctrl+U, Ctrl+D", "Page up / down"},
		{"g, G", "First / last row"},
	}
}

func dataKeys() []keyBinding {
	return []keyBinding{
		{"/", "Find in the view"},
		{"n, N", "Next / previous match"},
		{"m", "Mark row"},
		{"M", "Clear marks"},
		{"y", "Copy row as TSV"},
		{"Y", "Copy view (marked rows first) as TSV"},
		{"p", "Column profile"},
	}
}

// renderHelp creates the help overlay.
func renderHelp(width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75"))
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	section := func(b *strings.Builder, title string, keys []keyBinding) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, kb := range keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("gridline - Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Global", globalKeys())
	section(&b, "Query & Sort", queryKeys())
	section(&b, "Navigation", navigationKeys())
	section(&b, "Data", dataKeys())
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(b.String()),
	)
}
