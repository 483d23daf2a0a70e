// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/bascanada/admintail/pkg/log/printer"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/logtab"
	"github.com/spf13/cobra"
)

var outputFormat string

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the recent logs then follow the live stream",
	Long: `Print the recent backlog and keep printing new entries as they arrive,
reconnecting when the stream drops. Stop with Ctrl+C.

Examples:
  admintail tail
  admintail tail --level ERROR --search gemini
  admintail tail --format json | jq .message`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runTail(ctx, cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	addBackendFlags(tailCmd)
	addLogFlags(tailCmd)
	addFormatFlag(tailCmd)
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "format", "o", string(printer.FormatText), "Output format (text, html, json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "html", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// newOutputRenderer builds the renderer for plain stdout output.
func newOutputRenderer(settings config.Settings) (*printer.Renderer, error) {
	f, err := printer.NewFormatter(printer.Options{
		Format:   printer.Format(outputFormat),
		Template: settings.Template,
		Color:    printer.ResolveColor(settings.Color, os.Stdout),
	})
	if err != nil {
		return nil, err
	}
	return printer.NewRenderer(f), nil
}

func runTail(ctx context.Context, cmd *cobra.Command) error {
	settings, _, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	renderer, err := newOutputRenderer(settings)
	if err != nil {
		return err
	}

	b := newBackend(settings)
	feed := b.subscriber(settings)
	display := printer.NewWriterDisplay(os.Stdout, os.Stderr)

	logs := logtab.New(logtab.Options{
		Fetcher:  b.admin,
		Feed:     feed,
		Renderer: renderer,
		Display:  display,
		Backlog:  settings.Backlog,
		Filter:   initialFilter(settings),
		Logger:   appLogger,
	})
	defer logs.Deactivate()

	if fetch := logs.Activate(ctx); fetch != nil {
		logs.BacklogLoaded(fetch())
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-feed.Events():
			logs.EntryReceived(ev)
			if err := display.Err(); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

		case err := <-feed.Errors():
			var terr *stream.TransportError
			if errors.As(err, &terr) {
				appLogger.Warn("live stream unavailable, retrying", "attempt", terr.Attempt, "err", terr.Err)
			}

		case change := <-feed.States():
			appLogger.Debug("live stream state", "state", change.State.String())
		}
	}
}
