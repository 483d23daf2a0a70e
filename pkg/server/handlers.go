package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/status"
)

// DefaultRecentCount is used when the recent endpoint gets no count.
const DefaultRecentCount = 50

// RecentResponse is the body of the recent logs endpoint.
type RecentResponse struct {
	Logs []client.LogEntry `json:"logs"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	count := DefaultRecentCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid count %q", raw))
			return
		}
		count = n
	}

	s.writeJSON(w, http.StatusOK, RecentResponse{Logs: s.broadcaster.Recent(count)})
}

// streamHandler replays the retained entries newer than last_id, then
// follows new ones until the client goes away.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	var lastID int64
	if raw := r.URL.Query().Get("last_id"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid last_id %q", raw))
			return
		}
		lastID = n
	}

	// Make sure we can flush
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("streaming not supported")
		s.writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	// Subscribe before the replay so nothing pushed in between is missed
	wake, unsubscribe := s.broadcaster.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if s.retry > 0 {
		fmt.Fprintf(w, "retry: %d\n\n", s.retry.Milliseconds())
	}

	send := func() error {
		for _, entry := range s.broadcaster.Since(lastID) {
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", entry.ID, stream.EventName, data); err != nil {
				return err
			}
			lastID = entry.ID
		}
		flusher.Flush()
		return nil
	}

	if err := send(); err != nil {
		return
	}

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case <-wake:
			if err := send(); err != nil {
				return
			}

		case <-ticker.C:
			// keeps proxies from closing an idle stream
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := status.Report{
		GeminiStatus: s.clientStatus,
		CurrentModel: s.model,
	}
	s.mu.Unlock()
	report.Stats = s.stats.Snapshot()

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) reinitializeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	s.mu.Lock()
	s.clientStatus = StatusConnected
	s.mu.Unlock()

	s.logger.Info("client reinitialized", LoggerKey, "app.services.client")
	s.writeJSON(w, http.StatusOK, status.ReinitResult{Success: true, Message: "Client reinitialized successfully"})
}
