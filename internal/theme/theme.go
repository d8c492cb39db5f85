package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/nphdash/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Shared styles, rebuilt by Apply.
var (
	// HeaderStyle is used for the application title bar.
	HeaderStyle lipgloss.Style
	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style
	// PanelStyle wraps overlays and cards.
	PanelStyle lipgloss.Style
	// TitleStyle is used for page titles.
	TitleStyle lipgloss.Style
	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style
	// ErrorStyle renders gateway and validation failures.
	ErrorStyle lipgloss.Style
	// NoticeStyle renders success messages.
	NoticeStyle lipgloss.Style
	// SelectedStyle highlights the table cursor row.
	SelectedStyle lipgloss.Style
)

func init() { build() }

func build() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(ColorBlue).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorSubtle).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	HelpStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	NoticeStyle = lipgloss.NewStyle().Foreground(ColorYellow).Italic(true)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Background(ColorBlue)
}

// Apply switches the palette. "default" keeps the colors above and
// "mono" drops every accent color.
func Apply(name string) error {
	switch name {
	case "", "default":
		return nil
	case "mono":
		plain := lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
		dim := lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
		ColorBlue, ColorGreen, ColorYellow, ColorRed, ColorMagenta = dim, plain, plain, plain, plain
		ColorGray, ColorSubtle, ColorBorder = dim, dim, dim
		build()
		return nil
	default:
		return fmt.Errorf("unknown theme %q (want default or mono)", name)
	}
}

// StatusStyle returns a color-coded style for a record status.
func StatusStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case model.StatusActive:
		return base.Foreground(ColorGreen)
	case model.StatusInactive:
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorMagenta)
	}
}

// ActionStyle returns a color-coded style for a journal action.
func ActionStyle(action string, failed bool) lipgloss.Style {
	base := lipgloss.NewStyle()
	if failed {
		return base.Foreground(ColorRed)
	}

	switch action {
	case model.ActionCreate:
		return base.Foreground(ColorGreen)
	case model.ActionDelete:
		return base.Foreground(ColorYellow)
	case model.ActionRestore:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorWhite)
	}
}
