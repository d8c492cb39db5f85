package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/nphdash/internal/theme"
)

// NewTable returns a focused table styled with the application theme.
func NewTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.SelectedStyle
	t.SetStyles(s)
	return t
}

// TableHeight is the number of rows a table gets inside a page of the
// given height, leaving room for the title and status lines.
func TableHeight(height int) int {
	h := height - 7
	if h < 3 {
		h = 3
	}
	return h
}

// ClampCursor keeps the table cursor inside a list of n rows.
func ClampCursor(t *table.Model, n int) {
	if n == 0 {
		t.SetCursor(0)
		return
	}
	if t.Cursor() >= n {
		t.SetCursor(n - 1)
	}
}
