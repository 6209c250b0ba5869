package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all reusable Lipgloss styles for the TUI.
type Styles struct {
	// Header
	Title    lipgloss.Style
	Version  lipgloss.Style
	Exercise lipgloss.Style

	// Panes
	Editor        lipgloss.Style
	EditorFocused lipgloss.Style
	Panel         lipgloss.Style
	PanelTitle    lipgloss.Style

	// Status line
	StatusOK      lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusRunning lipgloss.Style

	// Text
	Muted lipgloss.Style
	Bold  lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles using the current theme.
func DefaultStyles() Styles {
	theme := CurrentTheme

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Version: lipgloss.NewStyle().
			Foreground(theme.TextMuted),
		Exercise: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Editor:        pane,
		EditorFocused: pane.BorderForeground(theme.Primary),
		Panel:         pane.BorderForeground(theme.Secondary),
		PanelTitle: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true),

		StatusOK: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(theme.Info),
		StatusRunning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.TextMuted),
		Bold: lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true),
	}
}
