// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#3B82F6") // Blue
	ColorSuccess   = lipgloss.Color("#22C55E") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorCritical  = lipgloss.Color("#DB2777") // Pink
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Dark gray
	ColorBg        = lipgloss.Color("#1F2937") // Dark background
	ColorBgActive  = lipgloss.Color("#374151") // Active background
	ColorText      = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted = lipgloss.Color("#9CA3AF") // Muted text
)

// Log level colors
var LogLevelColors = map[client.Level]lipgloss.Color{
	client.LevelCritical: ColorCritical,
	client.LevelError:    ColorError,
	client.LevelWarning:  ColorWarning,
	client.LevelInfo:     ColorSuccess,
	client.LevelDebug:    ColorSecondary,
}

// Styles contains all UI styles
type Styles struct {
	Header    lipgloss.Style
	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style

	// Tab styles
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabBar      lipgloss.Style

	// Status tab
	Dashboard lipgloss.Style

	// Search input styles
	SearchPrompt lipgloss.Style
	SearchInput  lipgloss.Style
	SearchIdle   lipgloss.Style
	Chip         lipgloss.Style
	ChipOn       lipgloss.Style
}

// DefaultStyles creates the default style set
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorText).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorTextMuted).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorMuted).
			Padding(0, 1),

		// Tabs
		TabActive: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 2).
			MarginRight(1),

		TabInactive: lipgloss.NewStyle().
			Background(ColorBorder).
			Foreground(ColorTextMuted).
			Padding(0, 2).
			MarginRight(1),

		TabBar: lipgloss.NewStyle().
			Background(ColorBg).
			Padding(0, 1),

		Dashboard: lipgloss.NewStyle().
			Padding(1, 2),

		// Search
		SearchPrompt: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		SearchInput: lipgloss.NewStyle().
			Foreground(ColorText),

		SearchIdle: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Chip: lipgloss.NewStyle().
			Background(ColorMuted).
			Foreground(ColorBg).
			Padding(0, 1).
			MarginRight(1),

		ChipOn: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(ColorBg).
			Padding(0, 1).
			MarginRight(1),
	}
}

// GetLevelStyle returns a style for the given log level
func GetLevelStyle(level client.Level) lipgloss.Style {
	color, ok := LogLevelColors[level]
	if !ok {
		color = ColorMuted
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true)
}

// StyleLevel colors the padded level column of a log line.
func StyleLevel(level client.Level, padded string) string {
	return GetLevelStyle(level).Render(padded)
}
