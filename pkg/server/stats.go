package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/bascanada/admintail/pkg/status"
)

// StatsCollector counts the requests served, per endpoint.
type StatsCollector struct {
	mu        sync.Mutex
	now       func() time.Time
	start     time.Time
	total     int64
	success   int64
	errors    int64
	endpoints map[string]int64
	last      time.Time
}

func NewStatsCollector() *StatsCollector {
	return newStatsCollector(time.Now)
}

func newStatsCollector(now func() time.Time) *StatsCollector {
	return &StatsCollector{
		now:       now,
		start:     now(),
		endpoints: make(map[string]int64),
	}
}

// Record counts one request. Codes from 200 to 399 are successes.
func (s *StatsCollector) Record(path string, statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.last = s.now()
	s.endpoints[path]++
	if statusCode >= 200 && statusCode < 400 {
		s.success++
	} else {
		s.errors++
	}
}

// Snapshot returns the counters in the status report shape.
func (s *StatsCollector) Snapshot() status.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	uptime := s.now().Sub(s.start)
	secs := int64(uptime.Seconds())

	endpoints := make(map[string]int64, len(s.endpoints))
	for k, v := range s.endpoints {
		endpoints[k] = v
	}

	stats := status.Stats{
		Uptime:        fmt.Sprintf("%dh %dm %ds", secs/3600, secs%3600/60, secs%60),
		UptimeSeconds: uptime.Seconds(),
		TotalRequests: s.total,
		SuccessCount:  s.success,
		ErrorCount:    s.errors,
		Endpoints:     endpoints,
	}
	if !s.last.IsZero() {
		ts := float64(s.last.UnixNano()) / float64(time.Second)
		stats.LastRequestTime = &ts
	}
	return stats
}
