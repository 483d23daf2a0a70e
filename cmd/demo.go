// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bascanada/admintail/pkg/server"
	"github.com/spf13/cobra"
)

var (
	demoPort     int
	demoHost     string
	demoInterval time.Duration
	demoRetry    time.Duration
	demoQuiet    bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Start a local admin backend producing simulated traffic",
	Long: `Starts an HTTP server exposing the admin endpoints (recent logs, log
stream, status and reinitialize) fed by simulated proxy traffic.

Point the console at it with --url http://localhost:8000.`,
	PreRun: onCommandStart,
	Run: func(_ *cobra.Command, _ []string) {
		var logger *slog.Logger
		if demoQuiet {
			logger = appLogger
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
		}

		s := server.NewServer(demoHost, strconv.Itoa(demoPort), logger, server.Options{Retry: demoRetry})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if demoInterval > 0 {
			gen := &server.Generator{Server: s, Interval: demoInterval}
			go gen.Run(ctx)
		}

		if err := s.Start(ctx); err != nil {
			logger.Error("server failed to start", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	demoCmd.Flags().IntVarP(&demoPort, "port", "p", 8000, "Port to listen on")
	demoCmd.Flags().StringVar(&demoHost, "host", "127.0.0.1", "Host to bind to")
	demoCmd.Flags().DurationVar(&demoInterval, "interval", server.DefaultGeneratorInterval, "Mean delay between simulated requests, 0 disables the traffic")
	demoCmd.Flags().DurationVar(&demoRetry, "retry", 0, "Reconnect delay advertised to stream clients")
	demoCmd.Flags().BoolVarP(&demoQuiet, "quiet", "q", false, "Do not print the server logs to stdout")
}
