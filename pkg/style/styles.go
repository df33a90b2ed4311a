// Package style centralizes the lipgloss styles used by the skel CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	HeadingColor = lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e0e0ff"}
	TextColor    = lipgloss.AdaptiveColor{Light: "#2d2d2d", Dark: "#d0d0d0"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#6c6c6c"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#66bb6a"}
	AccentColor  = lipgloss.AdaptiveColor{Light: "#4527a0", Dark: "#9575cd"}
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// Identifiers: template short names, mount ids
	NameStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Italic(true)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
