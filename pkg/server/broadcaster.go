package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bascanada/admintail/pkg/log/client"
)

// DefaultCapacity is how many entries the broadcaster keeps for replay.
const DefaultCapacity = 500

// LevelCritical sits above slog's error level.
const LevelCritical = slog.LevelError + 4

// TimestampLayout is the ISO-8601 layout used for entry timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Broadcaster keeps the most recent log entries and wakes subscribers when
// new ones arrive. Ids start at 1 and increase by one per entry.
type Broadcaster struct {
	mu       sync.RWMutex
	entries  []client.LogEntry
	capacity int
	counter  int64
	clients  map[chan struct{}]struct{}
}

// NewBroadcaster creates a broadcaster retaining capacity entries.
func NewBroadcaster(capacity int) *Broadcaster {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Broadcaster{
		capacity: capacity,
		clients:  make(map[chan struct{}]struct{}),
	}
}

// Push records a new entry and wakes every subscriber.
func (b *Broadcaster) Push(level client.Level, logger, message string, at time.Time) client.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counter++
	entry := client.LogEntry{
		ID:        b.counter,
		Timestamp: at.Format(TimestampLayout),
		Level:     level,
		Logger:    logger,
		Message:   message,
	}
	b.entries = append(b.entries, entry)
	if len(b.entries) > b.capacity {
		b.entries = append([]client.LogEntry(nil), b.entries[len(b.entries)-b.capacity:]...)
	}

	for c := range b.clients {
		// wake-ups coalesce, the subscriber reads everything past its cursor
		select {
		case c <- struct{}{}:
		default:
		}
	}
	return entry
}

// Recent returns up to count of the newest entries, oldest first.
func (b *Broadcaster) Recent(count int) []client.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := 0
	if count >= 0 && count < len(b.entries) {
		start = len(b.entries) - count
	}
	return append([]client.LogEntry{}, b.entries[start:]...)
}

// Since returns the retained entries with an id greater than lastID.
func (b *Broadcaster) Since(lastID int64) []client.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.ID > lastID {
			return append([]client.LogEntry{}, b.entries[i:]...)
		}
	}
	return nil
}

// Subscribe returns a wake-up channel and the function releasing it.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := make(chan struct{}, 1)
	b.clients[c] = struct{}{}

	var once sync.Once
	return c, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.clients, c)
			b.mu.Unlock()
		})
	}
}

// ClientCount returns the number of active subscribers.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// LevelOf maps a slog level onto the feed's level names.
func LevelOf(l slog.Level) client.Level {
	switch {
	case l < slog.LevelInfo:
		return client.LevelDebug
	case l < slog.LevelWarn:
		return client.LevelInfo
	case l < slog.LevelError:
		return client.LevelWarning
	case l < LevelCritical:
		return client.LevelError
	default:
		return client.LevelCritical
	}
}

// LoggerKey is the attribute naming the logger of a record.
const LoggerKey = "logger"

// BroadcastHandler is a slog.Handler pushing every record into a
// Broadcaster. Groups extend the logger name with a dot, attributes are
// appended to the message as key=value.
type BroadcastHandler struct {
	b     *Broadcaster
	level slog.Leveler
	name  string
	attrs []slog.Attr
}

func NewBroadcastHandler(b *Broadcaster, name string, level slog.Leveler) *BroadcastHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &BroadcastHandler{b: b, level: level, name: name}
}

func (h *BroadcastHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *BroadcastHandler) Handle(_ context.Context, r slog.Record) error {
	name := h.name
	var sb strings.Builder
	sb.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		if a.Key == LoggerKey {
			name = a.Value.String()
			return true
		}
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	at := r.Time
	if at.IsZero() {
		at = time.Now()
	}
	h.b.Push(LevelOf(r.Level), name, sb.String(), at)
	return nil
}

func (h *BroadcastHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *BroadcastHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.name == "" {
		next.name = name
	} else {
		next.name = next.name + "." + name
	}
	return &next
}

// teeHandler forwards records to several handlers.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(teeHandler, len(t))
	for i, h := range t {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	next := make(teeHandler, len(t))
	for i, h := range t {
		next[i] = h.WithGroup(name)
	}
	return next
}
