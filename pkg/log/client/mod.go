// SPDX-License-Identifier: GPL-3.0-only
package client

import (
	"context"
	"strings"
)

// Level is the severity name the backend attaches to each entry.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"

	// LevelAll is the filter sentinel matching every level.
	LevelAll Level = "ALL"
)

// Levels lists the filter choices in display order, LevelAll first.
var Levels = []Level{LevelAll, LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}

// ParseLevel resolves a user supplied filter level. Matching is
// case-insensitive here since it comes from flags and config; comparison
// against entries stays exact.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if strings.EqualFold(string(l), s) {
			return l, true
		}
	}
	if strings.EqualFold(s, "WARN") {
		return LevelWarning, true
	}
	return LevelAll, false
}

// Next cycles through Levels, wrapping back to LevelAll.
func (l Level) Next() Level {
	for i, lvl := range Levels {
		if lvl == l {
			return Levels[(i+1)%len(Levels)]
		}
	}
	return LevelAll
}

// LogEntry is one record of the backend's log feed. Entries are never
// mutated once decoded.
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Logger    string `json:"logger"`
	Message   string `json:"message"`
}

// LastID returns the id of the last entry, or 0 for an empty slice.
func LastID(entries []LogEntry) int64 {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].ID
}

// BacklogFetcher retrieves the most recent entries, oldest first.
type BacklogFetcher interface {
	Recent(ctx context.Context, count int) ([]LogEntry, error)
}
