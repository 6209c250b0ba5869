// Package tui contains the Bubble Tea playground.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Surface lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	Text      lipgloss.AdaptiveColor
	TextMuted lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
}

// DefaultTheme is the SQLGram color scheme.
var DefaultTheme = Theme{
	Primary:   lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}, // Blue
	Secondary: lipgloss.AdaptiveColor{Light: "#6B3FA0", Dark: "#A78BFA"}, // Violet
	Accent:    lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1C40F"}, // Gold

	Surface: lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1A1A1A"},
	Border:  lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#3F3F46"},

	Text:      lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E5E5E5"},
	TextMuted: lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#6B6B6B"},

	Success: lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"},
	Warning: lipgloss.AdaptiveColor{Light: "#CC5500", Dark: "#F59E0B"},
	Error:   lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"},
	Info:    lipgloss.AdaptiveColor{Light: "#0088CC", Dark: "#00D4FF"},
}

// CurrentTheme is the active theme.
var CurrentTheme = DefaultTheme
