// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bascanada/admintail/pkg/log/printer"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/logtab"
	"github.com/bascanada/admintail/pkg/status"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Tab identifies a top level view.
type Tab int

const (
	TabStatus Tab = iota
	TabLogs
)

var tabNames = []string{"Status", "Logs"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "unknown"
}

// ParseTab resolves a tab name, case-insensitively.
func ParseTab(s string) (Tab, bool) {
	for i, name := range tabNames {
		if strings.EqualFold(name, s) {
			return Tab(i), true
		}
	}
	return TabLogs, false
}

// FocusMode represents which component has focus
type FocusMode int

const (
	FocusList FocusMode = iota
	FocusSearch
)

// EventSource is the live feed as consumed by the shell.
type EventSource interface {
	Events() <-chan stream.Event
	Errors() <-chan error
	States() <-chan stream.StateChange
}

// StatusSource reads and acts on the backend status.
type StatusSource interface {
	Fetch(ctx context.Context) (*status.Report, error)
	Reinitialize(ctx context.Context) (*status.ReinitResult, error)
}

type Options struct {
	Context           context.Context
	Logs              *logtab.Controller
	Surface           *printer.Surface
	Feed              EventSource
	Status            StatusSource
	BadgeInterval     time.Duration
	DashboardInterval time.Duration
	InitialTab        Tab
	Logger            *slog.Logger
}

// Model is the main TUI state
type Model struct {
	// Window dimensions
	Width  int
	Height int

	ActiveTab Tab
	Focus     FocusMode
	ShowHelp  bool

	// Components
	SearchBar SearchBar
	StatusBar StatusBar
	Viewport  viewport.Model

	// Styling
	Styles Styles
	Keys   KeyMap

	logs    *logtab.Controller
	surface *printer.Surface
	feed    EventSource
	status  StatusSource
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	badgeInterval     time.Duration
	dashboardInterval time.Duration
	dashboardSeq      uint64
	report            *status.Report
	reportErr         error

	renderedVersion uint64
}

// New creates a new TUI model
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.BadgeInterval <= 0 {
		opts.BadgeInterval = status.BadgeInterval
	}
	if opts.DashboardInterval <= 0 {
		opts.DashboardInterval = status.DashboardInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Surface == nil {
		opts.Surface, _ = opts.Logs.Surface().(*printer.Surface)
	}
	ctx, cancel := context.WithCancel(opts.Context)

	vp := viewport.New(80, 20)
	vp.SetContent("")

	styles := DefaultStyles()
	statusBar := NewStatusBar()
	statusBar.AutoScroll = opts.Logs.AutoScroll()
	statusBar.Level = opts.Logs.Filter().Level

	return Model{
		ActiveTab:         opts.InitialTab,
		SearchBar:         NewSearchBar(styles),
		StatusBar:         statusBar,
		Viewport:          vp,
		Styles:            styles,
		Keys:              DefaultKeyMap(),
		logs:              opts.Logs,
		surface:           opts.Surface,
		feed:              opts.Feed,
		status:            opts.Status,
		logger:            opts.Logger,
		ctx:               ctx,
		cancel:            cancel,
		badgeInterval:     opts.BadgeInterval,
		dashboardInterval: opts.DashboardInterval,
	}
}

// NewRenderer builds the log line renderer used by the shell.
func NewRenderer(template string) (*printer.Renderer, error) {
	f, err := printer.NewFormatter(printer.Options{
		Format:   printer.FormatText,
		Template: template,
		Styler:   StyleLevel,
	})
	if err != nil {
		return nil, err
	}
	return printer.NewRenderer(f), nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return activateMsg{Tab: m.ActiveTab} },
	}
	if m.feed != nil {
		cmds = append(cmds,
			waitForStreamEvent(m.feed),
			waitForStreamError(m.feed),
			waitForStreamState(m.feed))
	}
	if m.status != nil {
		cmds = append(cmds, badgeTick(m.badgeInterval))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.updateViewportSizes()
		m.syncViewport(true)

	case tea.KeyMsg:
		if m.Focus == FocusSearch {
			return m.handleSearchInput(msg)
		}
		return m.handleKeyPress(msg)

	case activateMsg:
		cmds = append(cmds, m.activate(msg.Tab))

	case BacklogMsg:
		m.logs.BacklogLoaded(logtab.BacklogResult(msg))
		m.syncViewport(false)

	case StreamEventMsg:
		m.logs.EntryReceived(stream.Event(msg))
		m.syncViewport(false)
		cmds = append(cmds, waitForStreamEvent(m.feed))

	case StreamErrorMsg:
		var terr *stream.TransportError
		if errors.As(msg.Err, &terr) {
			m.StatusBar.Failures = terr.Attempt
		}
		m.logger.Debug("live feed error", "err", msg.Err)
		cmds = append(cmds, waitForStreamError(m.feed))

	case StreamStateMsg:
		m.StatusBar.StreamState = msg.State
		if msg.State == stream.StateConnected {
			m.StatusBar.Failures = 0
		}
		cmds = append(cmds, waitForStreamState(m.feed))

	case StatusMsg:
		if msg.Dashboard {
			if msg.Seq != m.dashboardSeq {
				break
			}
			m.report, m.reportErr = msg.Result.Report, msg.Result.Err
		}
		m.StatusBar.Badge = msg.Result.Badge()

	case badgeTickMsg:
		cmds = append(cmds,
			fetchStatus(m.ctx, m.status, false, 0),
			badgeTick(m.badgeInterval))

	case dashboardTickMsg:
		if msg.Seq == m.dashboardSeq && m.ActiveTab == TabStatus {
			cmds = append(cmds,
				fetchStatus(m.ctx, m.status, true, msg.Seq),
				dashboardTick(m.dashboardInterval, msg.Seq))
		}

	case ReinitMsg:
		var text string
		switch {
		case msg.Err != nil:
			text = "Failed: " + msg.Err.Error()
		case msg.Result.Success:
			text = msg.Result.Message
		default:
			text = "Failed: " + msg.Result.Message
		}
		cmds = append(cmds, m.showStatusMessage(text))
		if m.ActiveTab == TabStatus {
			cmds = append(cmds, fetchStatus(m.ctx, m.status, true, m.dashboardSeq))
		}

	case ConfigReloadedMsg:
		cmds = append(cmds, m.applyConfig(msg))

	case ClearStatusMsg:
		m.StatusBar.ClearMessage()
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.cleanup()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil

	case key.Matches(msg, m.Keys.NextTab), key.Matches(msg, m.Keys.PrevTab):
		// two tabs, both directions land on the other one
		return m, m.switchTab(1 - m.ActiveTab)

	case key.Matches(msg, m.Keys.StatusTab):
		return m, m.switchTab(TabStatus)

	case key.Matches(msg, m.Keys.LogsTab):
		return m, m.switchTab(TabLogs)
	}

	if m.ActiveTab == TabStatus {
		switch {
		case key.Matches(msg, m.Keys.Refresh):
			return m, fetchStatus(m.ctx, m.status, true, m.dashboardSeq)
		case key.Matches(msg, m.Keys.Reinit):
			return m, tea.Batch(m.showStatusMessage("Reinitializing..."), reinitialize(m.ctx, m.status))
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Search):
		m.Focus = FocusSearch
		return m, m.SearchBar.Focus()

	case key.Matches(msg, m.Keys.ClearSearch):
		m.SearchBar.Clear()
		m.logs.SetSearch("")
		m.syncViewport(false)
		return m, nil

	case key.Matches(msg, m.Keys.CycleLevel):
		m.logs.SetLevel(m.logs.Filter().Level.Next())
		m.syncViewport(false)
		return m, nil

	case key.Matches(msg, m.Keys.AutoScroll):
		m.logs.SetAutoScroll(!m.logs.AutoScroll())
		m.syncViewport(false)
		return m, nil

	case key.Matches(msg, m.Keys.Clear):
		m.logs.Clear()
		m.syncViewport(false)
		return m, m.showStatusMessage("Logs cleared")

	case key.Matches(msg, m.Keys.Copy):
		return m, m.copyVisibleToClipboard()

	case key.Matches(msg, m.Keys.Home):
		m.Viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.Keys.End):
		m.Viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// handleSearchInput edits the search text, filtering as the user types.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.SearchBar.Clear()
		m.SearchBar.Blur()
		m.Focus = FocusList
		m.logs.SetSearch("")
		m.syncViewport(false)
		return m, nil

	case tea.KeyEnter:
		m.SearchBar.Blur()
		m.Focus = FocusList
		return m, nil

	case tea.KeyCtrlC:
		m.cleanup()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.SearchBar, cmd = m.SearchBar.Update(msg)
	if value := m.SearchBar.Value(); value != m.logs.Filter().Search {
		m.logs.SetSearch(value)
		m.syncViewport(false)
	}
	return m, cmd
}

// switchTab deactivates the current tab and activates target.
func (m *Model) switchTab(target Tab) tea.Cmd {
	if target == m.ActiveTab {
		return nil
	}
	m.deactivate(m.ActiveTab)
	m.ActiveTab = target
	return m.activate(target)
}

func (m *Model) activate(t Tab) tea.Cmd {
	switch t {
	case TabLogs:
		fetch := m.logs.Activate(m.ctx)
		m.StatusBar.Streaming = true
		m.syncViewport(true)
		return runBacklog(fetch)

	case TabStatus:
		if m.status == nil {
			return nil
		}
		m.dashboardSeq++
		return tea.Batch(
			fetchStatus(m.ctx, m.status, true, m.dashboardSeq),
			dashboardTick(m.dashboardInterval, m.dashboardSeq))
	}
	return nil
}

func (m *Model) deactivate(t Tab) {
	switch t {
	case TabLogs:
		if m.Focus == FocusSearch {
			m.SearchBar.Blur()
			m.Focus = FocusList
		}
		m.logs.Deactivate()
		m.StatusBar.Streaming = false
	case TabStatus:
		// pending ticks of the old refresh cycle are ignored
		m.dashboardSeq++
	}
}

func (m *Model) applyConfig(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		return m.showStatusMessage("Config reload failed: " + msg.Err.Error())
	}

	renderer, err := NewRenderer(msg.Config.Printer.Template.Or(""))
	if err != nil {
		return m.showStatusMessage("Config reload failed: " + err.Error())
	}
	m.logs.SetRenderer(renderer)
	m.syncViewport(true)
	return m.showStatusMessage("Config reloaded")
}

// copyVisibleToClipboard copies the displayed log lines as plain text.
func (m *Model) copyVisibleToClipboard() tea.Cmd {
	var lines []string
	if m.surface != nil {
		lines = m.surface.Lines()
	}
	if len(lines) == 0 {
		return m.showStatusMessage("Nothing to copy")
	}

	if err := clipboard.WriteAll(ansi.Strip(strings.Join(lines, "\n"))); err != nil {
		return m.showStatusMessage(fmt.Sprintf("Clipboard error: %v", err))
	}
	return m.showStatusMessage(fmt.Sprintf("%d lines copied to clipboard", len(lines)))
}

// showStatusMessage temporarily shows a message in the status bar
// Returns a command that will clear the message after a delay
func (m *Model) showStatusMessage(message string) tea.Cmd {
	m.StatusBar.SetMessage(message)
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// cleanup closes the live feed and cancels pending requests.
func (m *Model) cleanup() {
	m.logs.Deactivate()
	m.cancel()
}

// updateViewportSizes recalculates component sizes
func (m *Model) updateViewportSizes() {
	headerHeight := 1 // Tab bar
	statusHeight := m.StatusBar.Height()
	footerHeight := 2 // Search bar + help
	mainHeight := m.Height - headerHeight - statusHeight - footerHeight

	if mainHeight < 1 {
		mainHeight = 1
	}

	m.StatusBar.Width = m.Width
	m.SearchBar.Width = m.Width
	m.SearchBar.TextInput.Width = max(m.Width-30, 10)

	m.Viewport.Width = m.Width
	m.Viewport.Height = mainHeight
}

// syncViewport copies the log surface into the viewport when it changed
// and honours pending scroll requests.
func (m *Model) syncViewport(force bool) {
	if m.surface == nil {
		return
	}
	if force || m.surface.Version() != m.renderedVersion {
		m.Viewport.SetContent(m.surface.Content())
		m.renderedVersion = m.surface.Version()
	}
	if m.surface.TakeScroll() {
		m.Viewport.GotoBottom()
	}

	filter := m.logs.Filter()
	m.StatusBar.Level = filter.Level
	m.StatusBar.AutoScroll = m.logs.AutoScroll()
	m.StatusBar.EntryCount = m.logs.Len()
	m.StatusBar.Visible = len(m.logs.Visible())
	m.StatusBar.Cursor = m.logs.Cursor()
}

func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	sections := []string{m.renderTabs(), m.renderMainArea(), m.StatusBar.View(), m.renderFooter()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.ActiveTab {
			tabs = append(tabs, m.Styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.Styles.TabInactive.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.Styles.TabBar.Width(m.Width).Render(tabRow)
}

func (m Model) renderMainArea() string {
	if m.ActiveTab == TabStatus {
		return m.Styles.Dashboard.
			Width(m.Width).
			Height(m.Viewport.Height).
			MaxHeight(m.Viewport.Height).
			Render(status.Render(m.report, m.reportErr))
	}
	return m.Viewport.View()
}

func (m Model) renderFooter() string {
	var parts []string

	if m.ActiveTab == TabLogs {
		parts = append(parts, m.SearchBar.View(m.logs.Filter()))
	} else {
		parts = append(parts, "")
	}

	helpText := "/ search • l level • a autoscroll • c clear • y copy • Tab switch • ? help • q quit"
	if m.ActiveTab == TabStatus {
		helpText = "r refresh • R reinitialize • Tab switch • ? help • q quit"
	}
	if m.ShowHelp {
		helpText = "↑↓/jk scroll • PgUp/PgDn page • g/G top/bottom • 1 status • 2 logs • / search • Esc clear search • l level • a autoscroll • c clear • y copy • r refresh • R reinit • q quit"
	}
	parts = append(parts, m.Styles.HelpBar.Render(helpText))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Logs exposes the log tab controller, mostly for tests.
func (m Model) Logs() *logtab.Controller {
	return m.logs
}

// Report returns the last dashboard report and its error.
func (m Model) Report() (*status.Report, error) {
	return m.report, m.reportErr
}
