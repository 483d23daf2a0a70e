// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/bascanada/admintail/pkg/logtab"
	"github.com/bascanada/admintail/pkg/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var initialTab string

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"live", "ui"},
	Short:   "Launch the interactive console",
	Long: `Launch an interactive Terminal User Interface with two tabs.

The Logs tab loads the recent backlog and follows the live stream:
  - Level filter with l, free-text search with /
  - Autoscroll toggle with a, clear with c, copy with y

The Status tab shows the backend status and its endpoint request counts.

Examples:
  # Launch against the configured backend
  admintail tui

  # Launch against another backend, only errors
  admintail tui --url http://localhost:8000 --level ERROR

  # Start on the status tab
  admintail tui --tab status`,
	PreRun: onCommandStart,
	Run:    runTUI,
}

func init() {
	addBackendFlags(tuiCmd)
	addLogFlags(tuiCmd)
	tuiCmd.Flags().BoolVar(&noAutoScroll, "no-autoscroll", false, "Start with autoscroll disabled")
	tuiCmd.Flags().StringVar(&initialTab, "tab", "logs", "Tab to open first (logs, status)")

	_ = tuiCmd.RegisterFlagCompletionFunc("tab", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"logs", "status"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runTUI(cmd *cobra.Command, args []string) {
	settings, overrides, path, err := loadSettings(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	tab, ok := tui.ParseTab(initialTab)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown tab %q\n", initialTab)
		os.Exit(1)
	}

	renderer, err := tui.NewRenderer(settings.Template)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBackend(settings)
	feed := b.subscriber(settings)
	defer feed.Close()

	logs := logtab.New(logtab.Options{
		Fetcher:    b.admin,
		Feed:       feed,
		Renderer:   renderer,
		Backlog:    settings.Backlog,
		Filter:     initialFilter(settings),
		AutoScroll: settings.AutoScroll,
		Logger:     appLogger,
	})

	model := tui.New(tui.Options{
		Context:       ctx,
		Logs:          logs,
		Feed:          feed,
		Status:        b.status,
		BadgeInterval: settings.StatusInterval,
		InitialTab:    tab,
		Logger:        appLogger,
	})

	// Create the bubbletea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := os.Stat(path); err == nil {
		watcher, err := config.NewWatcher(path, appLogger, func(cfg *config.Config, err error) {
			if cfg != nil {
				cfg.Merge(overrides)
			}
			p.Send(tui.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			appLogger.Warn("config live reload disabled", "err", err)
		} else if err := watcher.Start(ctx); err != nil {
			appLogger.Warn("config live reload disabled", "err", err)
		} else {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
