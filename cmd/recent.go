// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bascanada/admintail/pkg/log/printer"
	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recent logs once",
	Long: `Fetch the last entries of the backend log buffer, apply the level and
search filters and print them, oldest first.

Examples:
  admintail recent -n 500
  admintail recent --level WARNING --format html > logs.html`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRecent(cmd.Context(), cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	addBackendFlags(recentCmd)
	addLogFlags(recentCmd)
	addFormatFlag(recentCmd)
}

func runRecent(ctx context.Context, cmd *cobra.Command) error {
	settings, _, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	renderer, err := newOutputRenderer(settings)
	if err != nil {
		return err
	}

	entries, err := newBackend(settings).admin.Recent(ctx, settings.Backlog)
	if err != nil {
		return err
	}

	display := printer.NewWriterDisplay(os.Stdout, os.Stderr)
	display.Apply(renderer.RenderAll(entries, initialFilter(settings), false)...)
	return display.Err()
}
