package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpPkg "github.com/bascanada/admintail/pkg/http"
	"github.com/bascanada/admintail/pkg/log"
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer("localhost", "0", log.Discard(), Options{Capacity: 100, Heartbeat: time.Hour})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func push(s *Server, messages ...string) {
	for _, m := range messages {
		s.Broadcaster().Push(client.LevelInfo, "test", m, time.Now())
	}
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)

	req, err := http.NewRequest("GET", "/health", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")

	expected := `{"status":"ok"}` + "\n"
	assert.JSONEq(t, expected, rr.Body.String(), "handler returned unexpected body")
}

func TestRecentHandler(t *testing.T) {
	s, srv := newTestServer(t)
	push(s, "one", "two", "three")

	admin := client.NewAdminClient(httpPkg.GetClient(srv.URL, nil))
	entries, err := admin.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Message)
	assert.Equal(t, int64(3), entries[1].ID)
}

func TestRecentHandler_InvalidCount(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", client.RecentPath+"?count=lots", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, `invalid count "lots"`, body.Detail)
}

func TestStatusAndReinitialize(t *testing.T) {
	s, srv := newTestServer(t)
	s.SetClientStatus(StatusDisconnected)
	s.Stats().Record("/v1/chat/completions", 200)
	s.Stats().Record("/v1/chat/completions", 500)
	s.Stats().Record("/gemini", 200)

	c := status.NewClient(httpPkg.GetClient(srv.URL, nil))

	report, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Connected())
	assert.Equal(t, DefaultModel, report.Model())
	assert.Equal(t, int64(3), report.Stats.TotalRequests)
	assert.Equal(t, int64(1), report.Stats.ErrorCount)
	rows := report.Stats.SortedEndpoints()
	require.Len(t, rows, 2)
	assert.Equal(t, "/v1/chat/completions", rows[0].Path)

	res, err := c.Reinitialize(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)

	report, err = c.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Connected())
	assert.Equal(t, int64(3), report.Stats.TotalRequests, "admin endpoints are not counted")

	// the reinitialization shows up in the log feed
	found := false
	for _, e := range s.Broadcaster().Recent(-1) {
		if e.Message == "client reinitialized" && e.Logger == "app.services.client" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReinitialize_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", status.ReinitializePath, nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestStream_ReplaysThenFollows(t *testing.T) {
	s, srv := newTestServer(t)
	push(s, "one", "two", "three")

	admin := client.NewAdminClient(httpPkg.GetClient(srv.URL, nil))
	sub := stream.NewSubscriber(stream.Options{
		URL:            admin.StreamURL,
		Client:         httpPkg.StreamClient(),
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
		Logger:         log.Discard(),
	})
	gen := sub.Open(context.Background(), 1)
	defer sub.Close()

	next := func() stream.Event {
		t.Helper()
		select {
		case ev := <-sub.Events():
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for an event")
		}
		return stream.Event{}
	}

	ev := next()
	assert.Equal(t, gen, ev.Generation)
	assert.Equal(t, "two", ev.Entry.Message)
	assert.Equal(t, int64(3), next().Entry.ID)

	require.Eventually(t, func() bool { return s.Broadcaster().ClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)
	push(s, "four")

	ev = next()
	assert.Equal(t, "four", ev.Entry.Message)
	assert.Equal(t, int64(4), ev.Entry.ID)
	assert.Eventually(t, func() bool { return sub.Cursor() == 4 }, 5*time.Second, 10*time.Millisecond)
}

func TestStream_InvalidLastID(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", client.StreamPath+"?last_id=-3", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMiddleware_CountsAndEchoesRequestID(t *testing.T) {
	s, srv := newTestServer(t)

	req, err := http.NewRequest("GET", srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "abc-123", res.Header.Get("X-Request-ID"))

	// the access log line is part of the feed
	require.Eventually(t, func() bool { return len(s.Broadcaster().Recent(-1)) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), s.Stats().Snapshot().Endpoints["/health"])
	entry := s.Broadcaster().Recent(1)[0]
	assert.Equal(t, "http.access", entry.Logger)
	assert.Contains(t, entry.Message, "requestID=abc-123")
}
