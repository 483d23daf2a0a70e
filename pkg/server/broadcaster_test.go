package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/bascanada/admintail/pkg/log"
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_CapacityAndIDs(t *testing.T) {
	b := NewBroadcaster(3)
	for i := 1; i <= 5; i++ {
		b.Push(client.LevelInfo, "app", fmt.Sprintf("m%d", i), time.Now())
	}

	recent := b.Recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{recent[0].ID, recent[1].ID, recent[2].ID})

	assert.Len(t, b.Recent(2), 2)
	assert.Len(t, b.Recent(0), 0)
	assert.Len(t, b.Since(4), 1)
	assert.Len(t, b.Since(0), 3)
	assert.Empty(t, b.Since(5))
}

func TestBroadcaster_TimestampFormat(t *testing.T) {
	b := NewBroadcaster(0)
	at := time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC)
	e := b.Push(client.LevelDebug, "app", "x", at)
	assert.Equal(t, "2024-01-01T10:00:00.123456", e.Timestamp)
}

func TestBroadcaster_WakeCoalesces(t *testing.T) {
	b := NewBroadcaster(10)
	wake, cancel := b.Subscribe()
	assert.Equal(t, 1, b.ClientCount())

	b.Push(client.LevelInfo, "app", "a", time.Now())
	b.Push(client.LevelInfo, "app", "b", time.Now())

	<-wake
	select {
	case <-wake:
		t.Fatal("wake-ups should coalesce")
	default:
	}

	cancel()
	cancel()
	assert.Equal(t, 0, b.ClientCount())
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, client.LevelDebug, LevelOf(slog.LevelDebug))
	assert.Equal(t, client.LevelInfo, LevelOf(slog.LevelInfo))
	assert.Equal(t, client.LevelWarning, LevelOf(slog.LevelWarn))
	assert.Equal(t, client.LevelError, LevelOf(slog.LevelError))
	assert.Equal(t, client.LevelCritical, LevelOf(LevelCritical))
}

func TestBroadcastHandler(t *testing.T) {
	b := NewBroadcaster(10)
	logger := slog.New(NewBroadcastHandler(b, "app", slog.LevelInfo))

	logger.Debug("hidden")
	logger.WithGroup("services").Warn("slow", "attempt", 2)
	logger.With(LoggerKey, "http.access").Info("request handled", "path", "/gemini")

	entries := b.Recent(-1)
	require.Len(t, entries, 2)

	assert.Equal(t, client.LevelWarning, entries[0].Level)
	assert.Equal(t, "app.services", entries[0].Logger)
	assert.Equal(t, "slow attempt=2", entries[0].Message)

	assert.Equal(t, "http.access", entries[1].Logger)
	assert.Equal(t, "request handled path=/gemini", entries[1].Message)
}

func TestTeeHandler(t *testing.T) {
	first := NewBroadcaster(10)
	second := NewBroadcaster(10)
	logger := slog.New(teeHandler{
		NewBroadcastHandler(first, "a", slog.LevelInfo),
		NewBroadcastHandler(second, "b", slog.LevelWarn),
	})

	logger.Info("info")
	logger.Error("error")

	assert.Len(t, first.Recent(-1), 2)
	assert.Len(t, second.Recent(-1), 1)
}

func TestStatsCollector(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	s := newStatsCollector(func() time.Time { return clock })

	assert.Nil(t, s.Snapshot().LastRequestTime)

	s.Record("/gemini", 200)
	s.Record("/gemini", 302)
	s.Record("/v1/chat/completions", 500)
	clock = now.Add(time.Hour + 2*time.Minute + 3*time.Second)

	snap := s.Snapshot()
	assert.Equal(t, "1h 2m 3s", snap.Uptime)
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.SuccessCount)
	assert.Equal(t, int64(1), snap.ErrorCount)
	assert.Equal(t, int64(2), snap.Endpoints["/gemini"])
	require.NotNil(t, snap.LastRequestTime)
	assert.InDelta(t, float64(now.Unix()), *snap.LastRequestTime, 0.001)
}

func TestGenerator_Emit(t *testing.T) {
	s := NewServer("localhost", "0", log.Discard(), Options{})
	g := &Generator{Server: s, Rand: rand.New(rand.NewSource(1))}

	for i := 0; i < 50; i++ {
		g.Emit()
	}

	assert.Equal(t, int64(50), s.Stats().Snapshot().TotalRequests)
	assert.NotEmpty(t, s.Broadcaster().Recent(-1))
}

func TestGenerator_RunStops(t *testing.T) {
	s := NewServer("localhost", "0", log.Discard(), Options{})
	g := &Generator{Server: s, Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Stats().Snapshot().TotalRequests > 2 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("generator did not stop")
	}
}
