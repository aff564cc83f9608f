// Package ui renders nestify's console output: step progress, warnings and
// the closing summary. Every component has an interactive rendition for
// terminals and a plain-text one for pipes and CI logs.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Brand colors.
const (
	ColorPrimary   = "#E0234E"
	ColorSecondary = "#EA2845"
	ColorSuccess   = "#2E7D32"
	ColorWarning   = "#ED6C02"
	ColorError     = "#D32F2F"
	ColorMuted     = "#8A8A8A"
)

// ThemeConfig selects how a Theme is built.
type ThemeConfig struct {
	// NoColor disables all styling. NO_COLOR in the environment forces it.
	NoColor bool
}

// Colors groups the palette a Theme uses.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme carries the palette and the derived lipgloss styles.
type Theme struct {
	Colors  Colors
	NoColor bool

	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme builds a Theme from cfg.
func NewTheme(cfg ThemeConfig) *Theme {
	noColor := cfg.NoColor || os.Getenv("NO_COLOR") != ""
	t := &Theme{
		Colors: Colors{
			Primary:   ColorPrimary,
			Secondary: ColorSecondary,
			Success:   ColorSuccess,
			Warning:   ColorWarning,
			Error:     ColorError,
			Muted:     ColorMuted,
		},
		NoColor: noColor,
	}

	plain := lipgloss.NewStyle()
	if noColor {
		t.Title, t.Success, t.Warning, t.Error, t.Muted = plain, plain, plain, plain, plain
		return t
	}
	t.Title = plain.Bold(true).Foreground(lipgloss.Color(t.Colors.Primary))
	t.Success = plain.Foreground(lipgloss.Color(t.Colors.Success))
	t.Warning = plain.Foreground(lipgloss.Color(t.Colors.Warning))
	t.Error = plain.Bold(true).Foreground(lipgloss.Color(t.Colors.Error))
	t.Muted = plain.Foreground(lipgloss.Color(t.Colors.Muted))
	return t
}
