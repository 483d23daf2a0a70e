// SPDX-License-Identifier: GPL-3.0-only
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	httpPkg "github.com/bascanada/admintail/pkg/http"
	"github.com/bascanada/admintail/pkg/ty"
)

const (
	RecentPath = "/api/admin/logs/recent"
	StreamPath = "/api/admin/logs/stream"

	// DefaultBacklog is how many entries the log tab asks for on activation.
	DefaultBacklog = 100
)

// ErrFetchFailed wraps any failure to retrieve the backlog.
var ErrFetchFailed = errors.New("backlog fetch failed")

type recentResponse struct {
	Logs []LogEntry `json:"logs"`
}

// AdminClient reads logs from the backend's admin API.
type AdminClient struct {
	http httpPkg.HttpClient
}

func NewAdminClient(c httpPkg.HttpClient) *AdminClient {
	return &AdminClient{http: c}
}

// Recent returns the last count entries, oldest first.
func (a *AdminClient) Recent(ctx context.Context, count int) ([]LogEntry, error) {
	if count <= 0 {
		count = DefaultBacklog
	}

	var resp recentResponse
	err := a.http.Get(ctx, RecentPath, ty.MS{"count": strconv.Itoa(count)}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if resp.Logs == nil {
		return []LogEntry{}, nil
	}
	return resp.Logs, nil
}

// StreamURL is the feed endpoint resuming strictly after lastID.
func (a *AdminClient) StreamURL(lastID int64) string {
	return a.http.URL(StreamPath, ty.MS{"last_id": strconv.FormatInt(lastID, 10)})
}
