// SPDX-License-Identifier: GPL-3.0-only
package client

import (
	"strings"
)

// FilterState is the user's current level and search selection.
type FilterState struct {
	Level  Level  `json:"level" yaml:"level"`
	Search string `json:"search" yaml:"search"`
}

// DefaultFilter matches every entry.
func DefaultFilter() FilterState {
	return FilterState{Level: LevelAll}
}

// IsZero reports whether the filter lets everything through.
func (f FilterState) IsZero() bool {
	return (f.Level == LevelAll || f.Level == "") && f.Search == ""
}

// Match evaluates the filter against a LogEntry.
//
// A level other than LevelAll must equal the entry level exactly. A non-empty
// search must appear, case-insensitively, in the message or the logger name.
func (f FilterState) Match(entry LogEntry) bool {
	if f.Level != LevelAll && f.Level != "" && entry.Level != f.Level {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(entry.Message), needle) &&
			!strings.Contains(strings.ToLower(entry.Logger), needle) {
			return false
		}
	}

	return true
}

// Apply returns the entries passing the filter, preserving order.
func (f FilterState) Apply(entries []LogEntry) []LogEntry {
	filtered := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
