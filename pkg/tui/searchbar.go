// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchBar edits the free-text search and shows the active filters as
// chips.
type SearchBar struct {
	TextInput textinput.Model
	Styles    Styles
	Width     int
	Focused   bool
}

// NewSearchBar creates a new search bar with default settings
func NewSearchBar(styles Styles) SearchBar {
	ti := textinput.New()
	ti.Placeholder = "message or logger..."
	ti.Prompt = ""
	ti.CharLimit = 256

	return SearchBar{
		TextInput: ti,
		Styles:    styles,
		Width:     80,
	}
}

// Focus activates the search bar
func (s *SearchBar) Focus() tea.Cmd {
	s.Focused = true
	s.TextInput.Focus()
	return textinput.Blink
}

// Blur deactivates the search bar
func (s *SearchBar) Blur() {
	s.Focused = false
	s.TextInput.Blur()
}

// Clear empties the input.
func (s *SearchBar) Clear() {
	s.TextInput.SetValue("")
}

func (s SearchBar) Value() string {
	return s.TextInput.Value()
}

func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	var cmd tea.Cmd
	s.TextInput, cmd = s.TextInput.Update(msg)
	return s, cmd
}

// View renders the chips followed by the input.
func (s SearchBar) View(filter client.FilterState) string {
	parts := []string{s.Styles.SearchPrompt.Render("/ ")}

	levelChip := s.Styles.Chip
	if filter.Level != client.LevelAll && filter.Level != "" {
		levelChip = s.Styles.ChipOn
	}
	parts = append(parts, levelChip.Render("level:"+string(filter.Level)))

	switch {
	case s.Focused:
		parts = append(parts, s.Styles.SearchInput.Render(s.TextInput.View()))
	case filter.Search != "":
		parts = append(parts, s.Styles.ChipOn.Render("search:"+filter.Search))
	default:
		parts = append(parts, s.Styles.SearchIdle.Render("Press / to search..."))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
