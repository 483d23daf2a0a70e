// Package server is a stand-in admin backend: it captures its own logs in a
// Broadcaster, serves them as a backlog and a live event stream, and reports
// request statistics. It lets the console run without the real backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/status"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"

	DefaultModel     = "gemini-2.5-flash"
	DefaultHeartbeat = 15 * time.Second
)

// Options tunes the demo backend.
type Options struct {
	// Capacity of the replay buffer.
	Capacity int
	Model    string
	// Retry is advertised to stream clients as their reconnect delay.
	Retry     time.Duration
	Heartbeat time.Duration
}

// Server represents the API server instance.
type Server struct {
	router      *http.ServeMux
	httpServer  *http.Server
	logger      *slog.Logger
	port        string
	host        string
	broadcaster *Broadcaster
	stats       *StatsCollector
	retry       time.Duration
	heartbeat   time.Duration

	mu           sync.Mutex
	clientStatus string
	model        string
}

// NewServer creates a new API server instance. Records logged through
// Logger() reach both logger and the stream.
func NewServer(host, port string, logger *slog.Logger, opts Options) *Server {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}

	b := NewBroadcaster(opts.Capacity)
	tee := teeHandler{logger.Handler(), NewBroadcastHandler(b, "app", slog.LevelDebug)}

	s := &Server{
		router:       http.NewServeMux(),
		logger:       slog.New(tee),
		port:         port,
		host:         host,
		broadcaster:  b,
		stats:        NewStatsCollector(),
		retry:        opts.Retry,
		heartbeat:    opts.Heartbeat,
		clientStatus: StatusConnected,
		model:        opts.Model,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.healthHandler)
	s.router.HandleFunc(client.RecentPath, s.recentHandler)
	s.router.HandleFunc(client.StreamPath, s.streamHandler)
	s.router.HandleFunc(status.StatusPath, s.statusHandler)
	s.router.HandleFunc(status.ReinitializePath, s.reinitializeHandler)
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.chainMiddleware(s.router, s.recoveryMiddleware, s.corsMiddleware, s.requestIDMiddleware, s.loggingMiddleware)
}

// Logger feeds the server's log stream.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

func (s *Server) Broadcaster() *Broadcaster {
	return s.broadcaster
}

func (s *Server) Stats() *StatsCollector {
	return s.stats
}

// SetClientStatus changes the status reported for the model client.
func (s *Server) SetClientStatus(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientStatus = v
}

// Start runs the HTTP server and blocks until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, s.port)

	// Create listener first to get the actual assigned port (important when port=0)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "addr", listener.Addr().String())
		serverErrors <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown requested")

		// Streams never end on their own, give them a short grace period
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Debug("graceful shutdown incomplete", "err", err)
			return s.httpServer.Close()
		}
		s.logger.Info("server shutdown gracefully")
	}

	return nil
}
