// SPDX-License-Identifier: GPL-3.0-only

// Package buffer holds the client-side log history of the log tab.
package buffer

import "github.com/bascanada/admintail/pkg/log/client"

const (
	// MaxEntries is the hard cap on retained entries.
	MaxEntries = 1000
	// RetainEntries is what survives a batch eviction.
	RetainEntries = 500
)

// History is an ordered, bounded sequence of entries. Once an append pushes
// the length past MaxEntries, only the RetainEntries most recent survive.
// Not safe for concurrent use; the log tab owns it from a single goroutine.
type History struct {
	entries []client.LogEntry
}

func NewHistory() *History {
	return &History{entries: make([]client.LogEntry, 0, MaxEntries+1)}
}

// Append adds entry at the tail. Ids are not validated. It reports whether
// the append triggered an eviction.
func (h *History) Append(entry client.LogEntry) bool {
	h.entries = append(h.entries, entry)
	if len(h.entries) <= MaxEntries {
		return false
	}

	// compact in place so the backing array does not grow without bound
	n := copy(h.entries, h.entries[len(h.entries)-RetainEntries:])
	clear(h.entries[n:])
	h.entries = h.entries[:n]
	return true
}

// Replace swaps the whole content, applying the same cap as Append.
func (h *History) Replace(entries []client.LogEntry) {
	h.Clear()
	for _, e := range entries {
		h.Append(e)
	}
}

func (h *History) Clear() {
	clear(h.entries)
	h.entries = h.entries[:0]
}

// All returns the current sequence. The slice aliases internal storage and
// is only valid until the next Append, Replace or Clear.
func (h *History) All() []client.LogEntry {
	return h.entries
}

func (h *History) Len() int {
	return len(h.entries)
}
