package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is a single label/value line inside a panel.
type Row struct {
	Label string
	Value string
}

// RenderPanel draws a rounded box with a title line followed by aligned
// label/value rows, using the current panel theme.
func RenderPanel(title string, rows []Row) string {
	theme := GetCurrentPanelTheme()
	labelStyle := lipgloss.NewStyle().Foreground(theme.Dim)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Text)
	titleStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	width := 0
	for _, r := range rows {
		width = max(width, len(r.Label))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, r := range rows {
		label := r.Label + strings.Repeat(" ", width-len(r.Label))
		lines = append(lines, labelStyle.Render(label)+"  "+valueStyle.Render(r.Value))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	return box.Render(strings.Join(lines, "\n"))
}
