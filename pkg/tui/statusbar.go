// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"
	"strings"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/status"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarStyles defines the styles for the status bar
type StatusBarStyles struct {
	Container      lipgloss.Style
	Label          lipgloss.Style
	Value          lipgloss.Style
	Separator      lipgloss.Style
	FollowActive   lipgloss.Style
	FollowInactive lipgloss.Style
	Reconnecting   lipgloss.Style
	Message        lipgloss.Style
}

// DefaultStatusBarStyles returns the default styles for the status bar
func DefaultStatusBarStyles() StatusBarStyles {
	return StatusBarStyles{
		Container: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderBottom(true).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Value: lipgloss.NewStyle().
			Foreground(ColorText),
		Separator: lipgloss.NewStyle().
			Foreground(ColorMuted),
		FollowActive: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		FollowInactive: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Reconnecting: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),
		Message: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
	}
}

// StatusBar shows the backend badge and the log tab state between the main
// view and the search input.
type StatusBar struct {
	Width  int
	Styles StatusBarStyles

	Badge       status.Badge
	StreamState stream.State
	Streaming   bool
	Level       client.Level
	AutoScroll  bool
	EntryCount  int
	Visible     int
	Cursor      int64
	Failures    int
	Message     string
}

// NewStatusBar creates a new status bar with default styles
func NewStatusBar() StatusBar {
	return StatusBar{
		Width:  80,
		Styles: DefaultStatusBarStyles(),
		Level:  client.LevelAll,
	}
}

// SetMessage shows a transient message on the second line.
func (s *StatusBar) SetMessage(message string) {
	s.Message = message
}

func (s *StatusBar) ClearMessage() {
	s.Message = ""
}

// View renders the status bar
func (s StatusBar) View() string {
	if s.Width < 20 {
		return ""
	}

	sep := s.Styles.Separator.Render(" | ")

	line1Parts := []string{
		s.Styles.Label.Render("Backend: ") + status.BadgeStyle(s.Badge).Render(s.Badge.String()),
		s.Styles.Label.Render("Feed: ") + s.feedView(),
		s.Styles.Label.Render("Level: ") + s.Styles.Value.Render(string(s.Level)),
	}
	if s.AutoScroll {
		line1Parts = append(line1Parts, s.Styles.FollowActive.Render("Autoscroll: ON"))
	} else {
		line1Parts = append(line1Parts, s.Styles.FollowInactive.Render("Autoscroll: OFF"))
	}

	var line2Parts []string
	if s.Visible != s.EntryCount {
		line2Parts = append(line2Parts,
			s.Styles.Label.Render("Entries: ")+s.Styles.Value.Render(fmt.Sprintf("%d/%d", s.Visible, s.EntryCount)))
	} else {
		line2Parts = append(line2Parts,
			s.Styles.Label.Render("Entries: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.EntryCount)))
	}
	if s.Cursor > 0 {
		line2Parts = append(line2Parts,
			s.Styles.Label.Render("Last id: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.Cursor)))
	}
	if s.Failures > 0 {
		line2Parts = append(line2Parts,
			s.Styles.Reconnecting.Render(fmt.Sprintf("%d connection failures", s.Failures)))
	}
	if s.Message != "" {
		line2Parts = append(line2Parts, s.Styles.Message.Render(s.Message))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(line1Parts, sep),
		strings.Join(line2Parts, sep))

	return s.Styles.Container.Width(s.Width).Render(content)
}

func (s StatusBar) feedView() string {
	if !s.Streaming {
		return s.Styles.FollowInactive.Render("paused")
	}
	switch s.StreamState {
	case stream.StateConnected:
		return s.Styles.FollowActive.Render("LIVE")
	case stream.StateReconnecting:
		return s.Styles.Reconnecting.Render("reconnecting")
	case stream.StateConnecting:
		return s.Styles.Value.Render("connecting")
	}
	return s.Styles.FollowInactive.Render("closed")
}

// Height returns the height of the status bar in lines
func (s StatusBar) Height() int {
	return 4 // two lines of content plus the borders
}
