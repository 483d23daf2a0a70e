package server

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// DefaultGeneratorInterval is the mean delay between simulated requests.
const DefaultGeneratorInterval = time.Second

var models = []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-3.0-pro"}

// Generator simulates proxy traffic: each tick logs a request the way the
// real backend would and counts it in the stats.
type Generator struct {
	Server   *Server
	Interval time.Duration
	Rand     *rand.Rand
}

// Run emits traffic until ctx is done.
func (g *Generator) Run(ctx context.Context) {
	interval := g.Interval
	if interval <= 0 {
		interval = DefaultGeneratorInterval
	}
	if g.Rand == nil {
		g.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for {
		// Simulate traffic bursts
		jitter := time.Duration(g.Rand.Int63n(int64(interval)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval/2 + jitter):
			g.Emit()
		}
	}
}

// Emit simulates one request.
func (g *Generator) Emit() {
	logger := g.Server.Logger()
	stats := g.Server.Stats()
	traceID := uuid.New().String()
	model := models[g.Rand.Intn(len(models))]

	switch n := g.Rand.Intn(20); {
	case n < 10:
		logger.Info("chat completion served",
			LoggerKey, "app.endpoints.chat",
			"model", model,
			"tokens", 50+g.Rand.Intn(2000),
			"trace_id", traceID)
		stats.Record("/v1/chat/completions", 200)

	case n < 14:
		logger.Info("content generated",
			LoggerKey, "app.endpoints.gemini",
			"model", model,
			"latency_ms", 200+g.Rand.Intn(3000),
			"trace_id", traceID)
		stats.Record("/gemini", 200)

	case n < 16:
		logger.Debug("session cookies refreshed", LoggerKey, "app.services.session_manager")
		stats.Record("/gemini-chat", 200)

	case n < 18:
		logger.Warn("upstream slow, retrying",
			LoggerKey, "app.services.client",
			"attempt", 1+g.Rand.Intn(3),
			"trace_id", traceID)
		stats.Record("/v1/chat/completions", 200)

	case n < 19:
		logger.Error("error generating content: upstream returned 500",
			LoggerKey, "app.endpoints.gemini",
			"trace_id", traceID)
		stats.Record("/gemini", 500)

	default:
		logger.Log(context.Background(), LevelCritical, "client disconnected, reinitialization required",
			LoggerKey, "app.services.client")
		g.Server.SetClientStatus(StatusDisconnected)
		stats.Record("/v1/chat/completions", 503)
	}
}

