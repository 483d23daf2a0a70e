// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bascanada/admintail/pkg/status"
	"github.com/spf13/cobra"
)

var watchStatus bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend status and its request counts",
	Long: `Print the backend status: connection state, current model, request
counters, uptime and the requests per endpoint, busiest first.

With --watch the report is printed again every status interval.`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _, _, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		client := newBackend(settings).status

		if !watchStatus {
			report, err := client.Fetch(cmd.Context())
			fmt.Println(status.Render(report, err))
			if err != nil {
				os.Exit(1)
			}
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		poller := &status.Poller{
			Fetcher:  client,
			Interval: settings.StatusInterval,
			Logger:   appLogger,
		}
		poller.Run(ctx, func(res status.Result) {
			fmt.Printf("%s  %s\n", res.At.Format("15:04:05"), res.Badge())
			fmt.Println(status.Render(res.Report, res.Err))
			fmt.Println(strings.Repeat("─", 40))
		})
	},
}

var reinitCmd = &cobra.Command{
	Use:    "reinit",
	Short:  "Ask the backend to reinitialize its model client",
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _, _, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		res, err := newBackend(settings).status.Reinitialize(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !res.Success {
			fmt.Fprintf(os.Stderr, "Reinitialization failed: %s\n", res.Message)
			os.Exit(1)
		}
		fmt.Println(res.Message)
	},
}

func init() {
	addBackendFlags(statusCmd)
	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Keep polling and printing the status")
	addBackendFlags(reinitCmd)
}
