// SPDX-License-Identifier: GPL-3.0-only
package log

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog's debug level for per-event stream chatter.
const LevelTrace = slog.LevelDebug - 4

type MyLoggerOptions struct {
	// if we output to  stdout
	Stdout bool
	// Path of the file , if present log to it
	Path string
	// What level to log
	Level string
}

// ParseLevel maps the --logging-level flag to a slog level. Unknown values
// fall back to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigureMyLogger points the std logger and a slog text logger at the
// configured destination. With neither Stdout nor Path set, logs are
// discarded so they never corrupt the terminal UI.
func ConfigureMyLogger(options *MyLoggerOptions) (*slog.Logger, io.Closer, error) {
	var writer io.Writer = io.Discard
	var closer io.Closer = nopCloser{}

	if options.Path != "" {
		logfile, err := os.OpenFile(options.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", options.Path, err)
		}
		closer = logfile
		if options.Stdout {
			writer = io.MultiWriter(logfile, os.Stdout)
		} else {
			writer = logfile
		}
	} else if options.Stdout {
		writer = os.Stdout
	}

	log.SetOutput(writer)

	logger := NewLogger(writer, ParseLevel(options.Level))
	slog.SetDefault(logger)
	return logger, closer, nil
}

// NewLogger builds the text logger used across the application.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}))
}

// Discard returns a logger that drops everything, for tests and defaults.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
