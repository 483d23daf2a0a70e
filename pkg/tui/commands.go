// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"context"
	"time"

	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/logtab"
	"github.com/bascanada/admintail/pkg/status"
	tea "github.com/charmbracelet/bubbletea"
)

// BacklogMsg carries the result of the log tab's backlog fetch.
type BacklogMsg logtab.BacklogResult

// StreamEventMsg delivers one live entry.
type StreamEventMsg stream.Event

// StreamErrorMsg reports a transport failure of the live feed.
type StreamErrorMsg struct {
	Err error
}

// StreamStateMsg reports a live feed state change.
type StreamStateMsg stream.StateChange

// StatusMsg carries a status poll result. Dashboard results belong to the
// status tab refresh identified by Seq.
type StatusMsg struct {
	Result    status.Result
	Dashboard bool
	Seq       uint64
}

// ReinitMsg is the backend's answer to a reinitialize request.
type ReinitMsg struct {
	Result *status.ReinitResult
	Err    error
}

// ConfigReloadedMsg is sent when the config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// ClearStatusMsg is sent to clear status messages
type ClearStatusMsg struct{}

type activateMsg struct {
	Tab Tab
}

type badgeTickMsg struct{}

type dashboardTickMsg struct {
	Seq uint64
}

// waitForStreamEvent blocks on the feed and returns the next entry. The
// handler re-arms it, so exactly one reader exists and order is preserved.
func waitForStreamEvent(src EventSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		return StreamEventMsg(<-src.Events())
	}
}

func waitForStreamError(src EventSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		return StreamErrorMsg{Err: <-src.Errors()}
	}
}

func waitForStreamState(src EventSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		return StreamStateMsg(<-src.States())
	}
}

func runBacklog(fetch logtab.Fetch) tea.Cmd {
	if fetch == nil {
		return nil
	}
	return func() tea.Msg {
		return BacklogMsg(fetch())
	}
}

func fetchStatus(ctx context.Context, src StatusSource, dashboard bool, seq uint64) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		report, err := src.Fetch(ctx)
		return StatusMsg{
			Result:    status.Result{Report: report, Err: err, At: time.Now()},
			Dashboard: dashboard,
			Seq:       seq,
		}
	}
}

func reinitialize(ctx context.Context, src StatusSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		res, err := src.Reinitialize(ctx)
		return ReinitMsg{Result: res, Err: err}
	}
}

func badgeTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return badgeTickMsg{}
	})
}

func dashboardTick(d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return dashboardTickMsg{Seq: seq}
	})
}
