// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"io"
		"os"
	"strings"

	httpPkg "github.com/bascanada/admintail/pkg/http"
	"github.com/bascanada/admintail/pkg/log"
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/ty"
	"github.com/spf13/cobra"
)

var (
	// backend options
	backendURL string
	headers    []string

	// log tab options
	backlog      int
	level        string
	search       string
	noColor      bool
	template     string
	noAutoScroll bool

	logger log.MyLoggerOptions

	debugHttp bool

	logCloser io.Closer

	appLogger = log.Discard()
)

func onCommandStart(cmd *cobra.Command, args []string) {
	l, closer, err := log.ConfigureMyLogger(&logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	appLogger = l
	logCloser = closer
	cobra.OnFinalize(func() {
		_ = logCloser.Close()
	})
	// enable HTTP debug logs when requested
	httpPkg.SetDebug(debugHttp)
}

// parseHeaders turns repeated name=value flags into a header map.
func parseHeaders(values []string) (ty.MS, error) {
	out := ty.MS{}
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected name=value", v)
		}
		out[name] = value
	}
	return out, nil
}

// addBackendFlags registers the flags shared by every command talking to the
// backend.
func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&backendURL, "url", "u", "", "Base URL of the backend, e.g. http://localhost:8000")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Extra request header name=value, repeatable")
	cmd.Flags().BoolVar(&debugHttp, "debug-http", false, "enable HTTP debug logs (prints request bodies and masked headers)")
}

// addLogFlags registers the log filtering and formatting flags.
func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&backlog, "backlog", "n", 0, "Number of recent entries to load first (default 100)")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Only show entries of this level (ALL DEBUG INFO WARNING ERROR CRITICAL)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show entries whose message or logger contains this text")
	cmd.Flags().StringVar(&template, "template", "", "Go template for text lines, e.g. '{{.Time}} {{.Level}} {{.Message}}'")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	_ = cmd.RegisterFlagCompletionFunc("level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var levels []string
		for _, l := range client.Levels {
			levels = append(levels, string(l))
		}
		return levels, cobra.ShellCompDirectiveNoFileComp
	})
}
