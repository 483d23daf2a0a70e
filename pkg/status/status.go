// SPDX-License-Identifier: GPL-3.0-only

// Package status reads the backend's /api/admin/status report.
package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	httpPkg "github.com/bascanada/admintail/pkg/http"
)

const (
	StatusPath       = "/api/admin/status"
	ReinitializePath = "/api/admin/client/reinitialize"

	// BadgeInterval is the header badge refresh period.
	BadgeInterval = 15 * time.Second
	// DashboardInterval is the refresh period while the status tab is shown.
	DashboardInterval = 10 * time.Second

	connectedValue = "connected"
)

var ErrStatusFailed = errors.New("status request failed")

type Stats struct {
	Uptime          string           `json:"uptime"`
	UptimeSeconds   float64          `json:"uptime_seconds"`
	TotalRequests   int64            `json:"total_requests"`
	SuccessCount    int64            `json:"success_count"`
	ErrorCount      int64            `json:"error_count"`
	Endpoints       map[string]int64 `json:"endpoints"`
	LastRequestTime *float64         `json:"last_request_time"`
}

type Report struct {
	GeminiStatus string `json:"gemini_status"`
	CurrentModel string `json:"current_model"`
	Stats        Stats  `json:"stats"`
}

func (r *Report) Connected() bool {
	return r != nil && r.GeminiStatus == connectedValue
}

// Model returns the current model or a dash placeholder.
func (r *Report) Model() string {
	if r == nil || r.CurrentModel == "" {
		return "--"
	}
	return r.CurrentModel
}

// EndpointRow is one line of the per-endpoint request table.
type EndpointRow struct {
	Path  string
	Count int64
}

// SortedEndpoints lists endpoints by request count, busiest first.
func (s Stats) SortedEndpoints() []EndpointRow {
	rows := make([]EndpointRow, 0, len(s.Endpoints))
	for path, count := range s.Endpoints {
		rows = append(rows, EndpointRow{Path: path, Count: count})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Path < rows[j].Path
	})
	return rows
}

// Badge is the connection indicator shown in the header.
type Badge int

const (
	BadgeUnknown Badge = iota
	BadgeConnected
	BadgeDisconnected
	BadgeError
)

func (b Badge) String() string {
	switch b {
	case BadgeConnected:
		return "Connected"
	case BadgeDisconnected:
		return "Disconnected"
	case BadgeError:
		return "Error"
	}
	return "..."
}

// BadgeOf maps a poll outcome to a badge.
func BadgeOf(r *Report, err error) Badge {
	switch {
	case err != nil:
		return BadgeError
	case r.Connected():
		return BadgeConnected
	default:
		return BadgeDisconnected
	}
}

type ReinitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Client struct {
	http httpPkg.HttpClient
}

func NewClient(c httpPkg.HttpClient) *Client {
	return &Client{http: c}
}

func (c *Client) Fetch(ctx context.Context) (*Report, error) {
	var report Report
	if err := c.http.Get(ctx, StatusPath, nil, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusFailed, err)
	}
	return &report, nil
}

// Reinitialize asks the backend to rebuild its upstream client.
func (c *Client) Reinitialize(ctx context.Context) (*ReinitResult, error) {
	var res ReinitResult
	if err := c.http.PostJson(ctx, ReinitializePath, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Result is one poll outcome.
type Result struct {
	Report *Report
	Err    error
	At     time.Time
}

func (r Result) Badge() Badge {
	return BadgeOf(r.Report, r.Err)
}

type Fetcher interface {
	Fetch(ctx context.Context) (*Report, error)
}

// Poller fetches the status immediately and then every Interval until the
// context ends.
type Poller struct {
	Fetcher  Fetcher
	Interval time.Duration
	Logger   *slog.Logger
}

func (p *Poller) Run(ctx context.Context, onResult func(Result)) {
	interval := p.Interval
	if interval <= 0 {
		interval = BadgeInterval
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := p.Fetcher.Fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("status poll failed", "err", err)
		}
		onResult(Result{Report: report, Err: err, At: time.Now()})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
