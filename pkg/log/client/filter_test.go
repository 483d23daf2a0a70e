// SPDX-License-Identifier: GPL-3.0-only
package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleEntries() []LogEntry {
	return []LogEntry{
		{ID: 1, Level: LevelInfo, Logger: "a", Message: "hello"},
		{ID: 2, Level: LevelError, Logger: "b", Message: "world"},
	}
}

func TestFilterMatch(t *testing.T) {
	entries := sampleEntries()

	t.Run("level filter keeps exact level", func(t *testing.T) {
		f := FilterState{Level: LevelError}
		assert.Equal(t, []LogEntry{entries[1]}, f.Apply(entries))
	})

	t.Run("search matches message prefix", func(t *testing.T) {
		f := FilterState{Level: LevelAll, Search: "hel"}
		assert.Equal(t, []LogEntry{entries[0]}, f.Apply(entries))
	})

	t.Run("default matches everything", func(t *testing.T) {
		assert.Equal(t, entries, DefaultFilter().Apply(entries))
	})

	t.Run("empty level behaves like ALL", func(t *testing.T) {
		assert.True(t, FilterState{}.Match(entries[0]))
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		f := FilterState{Level: LevelAll, Search: "WoRLd"}
		assert.True(t, f.Match(entries[1]))
		assert.False(t, f.Match(entries[0]))
	})

	t.Run("search matches logger name", func(t *testing.T) {
		e := LogEntry{Level: LevelInfo, Logger: "uvicorn.access", Message: "GET /"}
		assert.True(t, FilterState{Level: LevelAll, Search: "UVICORN"}.Match(e))
	})

	t.Run("level comparison is case-sensitive", func(t *testing.T) {
		e := LogEntry{Level: "error", Message: "lower"}
		assert.False(t, FilterState{Level: LevelError}.Match(e))
	})

	t.Run("both checks must pass", func(t *testing.T) {
		f := FilterState{Level: LevelInfo, Search: "world"}
		assert.Empty(t, f.Apply(entries))
	})

	t.Run("unknown wire level only matches ALL", func(t *testing.T) {
		e := LogEntry{Level: "NOTICE", Message: "x"}
		assert.True(t, DefaultFilter().Match(e))
		for _, l := range Levels[1:] {
			assert.False(t, FilterState{Level: l}.Match(e), l)
		}
	})
}

func TestFilterIsZero(t *testing.T) {
	assert.True(t, DefaultFilter().IsZero())
	assert.True(t, FilterState{}.IsZero())
	assert.False(t, FilterState{Level: LevelError}.IsZero())
	assert.False(t, FilterState{Level: LevelAll, Search: "x"}.IsZero())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  Level
		valid bool
	}{
		{"ERROR", LevelError, true},
		{"error", LevelError, true},
		{"all", LevelAll, true},
		{"warn", LevelWarning, true},
		{"Critical", LevelCritical, true},
		{"verbose", LevelAll, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
	}
}

func TestLevelNext(t *testing.T) {
	l := LevelAll
	seen := []Level{l}
	for i := 0; i < len(Levels); i++ {
		l = l.Next()
		seen = append(seen, l)
	}
	assert.Equal(t, append(append([]Level{}, Levels...), LevelAll), seen)
	assert.Equal(t, LevelAll, Level("NOTICE").Next())
}

func TestLastID(t *testing.T) {
	assert.Equal(t, int64(0), LastID(nil))
	assert.Equal(t, int64(2), LastID(sampleEntries()))
}
