// SPDX-License-Identifier: GPL-3.0-only
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/ty"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/valyala/fastjson"
)

const (
	// EventName is the only event type carrying log entries.
	EventName = "log"

	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultMaxBackoff     = 30 * time.Second
)

// State is the connection state of a Subscriber.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Event is one log entry delivered by the feed opened as Generation.
type Event struct {
	Generation uint64
	// ID is the frame's event id, zero when the frame carried none.
	ID    int64
	Entry client.LogEntry
}

// Cursor is the position a feed resumes after once this event is consumed:
// the frame id when positive, the entry's own id otherwise.
func (e Event) Cursor() int64 {
	if e.ID > 0 {
		return e.ID
	}
	return e.Entry.ID
}

// StateChange reports a connection state transition.
type StateChange struct {
	Generation uint64
	State      State
}

// URLFunc builds the stream url resuming after lastID.
type URLFunc func(lastID int64) string

type Options struct {
	URL            URLFunc
	Client         *http.Client
	Headers        ty.MS
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Logger         *slog.Logger
}

// Subscriber keeps one live feed open at a time and delivers entries on a
// single channel that outlives individual connections.
type Subscriber struct {
	opts Options

	events chan Event
	errors chan error
	states chan StateChange

	// mu guards the running feed and the cursor it commits to
	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
	cursor     int64

	dropped atomic.Int64

	parsers fastjson.ParserPool
}

func NewSubscriber(opts Options) *Subscriber {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = DefaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = DefaultMaxBackoff
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = opts.InitialBackoff
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Subscriber{
		opts:   opts,
		events: make(chan Event),
		errors: make(chan error, 16),
		states: make(chan StateChange, 16),
	}
}

// Events delivers entries in arrival order. The channel is never closed.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Errors reports transport failures. Reports are dropped when nobody reads.
func (s *Subscriber) Errors() <-chan error {
	return s.errors
}

// States reports connection state changes. Reports are dropped when nobody
// reads.
func (s *Subscriber) States() <-chan StateChange {
	return s.states
}

// Cursor is the resume position of the last event handed over on Events.
func (s *Subscriber) Cursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Dropped counts payloads discarded because they could not be decoded.
func (s *Subscriber) Dropped() int64 {
	return s.dropped.Load()
}

// Open closes any running feed and starts a new one resuming after cursor.
// Events of the new feed carry the returned generation.
func (s *Subscriber) Open(ctx context.Context, cursor int64) uint64 {
	s.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	gen := s.generation
	s.cursor = cursor

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.run(ctx, gen)
	return gen
}

// Close stops the running feed without waiting for its connection to be torn
// down. The stopped feed can no longer move the cursor or report anything.
// Closing an idle subscriber does nothing.
func (s *Subscriber) Close() {
	s.mu.Lock()
	cancel, gen := s.cancel, s.generation
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.emitState(gen, StateClosed)
}

// Generation is the id of the most recently opened feed.
func (s *Subscriber) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Subscriber) run(ctx context.Context, gen uint64) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.InitialBackoff
	b.MaxInterval = s.opts.MaxBackoff
	b.Reset()

	attempt := 0
	for {
		if attempt == 0 {
			s.setState(gen, StateConnecting)
		} else {
			s.setState(gen, StateReconnecting)
		}

		err := s.connect(ctx, gen, b, &attempt)
		if ctx.Err() != nil {
			return
		}

		attempt++
		s.report(gen, &TransportError{Attempt: attempt, Err: err})

		wait := b.NextBackOff()
		s.opts.Logger.Warn("stream disconnected",
			"attempt", attempt, "retry_in", wait, "cursor", s.Cursor(), "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// connect runs one connection until it fails. A successful handshake resets
// the backoff and the attempt counter.
func (s *Subscriber) connect(ctx context.Context, gen uint64, b *backoff.ExponentialBackOff, attempt *int) error {
	url := s.opts.URL(s.Cursor())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range s.opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	s.opts.Logger.Debug("opening stream", "url", url, "request_id", requestID)

	res, err := s.opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	b.Reset()
	*attempt = 0
	s.setState(gen, StateConnected)

	frames := newFrameReader(res.Body)
	for {
		f, err := frames.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrStreamEnded
			}
			return err
		}

		if f.HasRetry {
			b.InitialInterval = f.Retry
			if b.MaxInterval < f.Retry {
				b.MaxInterval = f.Retry
			}
			b.Reset()
		}

		if f.Event != EventName || f.Data == "" {
			continue
		}

		entry, err := s.decode(f.Data)
		if err != nil {
			s.dropped.Add(1)
			s.opts.Logger.Warn("dropping stream event", "id", f.ID, "err", err)
			continue
		}

		ev := Event{Generation: gen, Entry: entry}
		if f.HasID {
			if parsed, err := strconv.ParseInt(f.ID, 10, 64); err == nil {
				ev.ID = parsed
			}
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.commit(gen, ev.Cursor())
	}
}

// current reports whether gen is the feed still running.
func (s *Subscriber) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil && s.generation == gen
}

// commit moves the cursor to the last delivered event of feed gen.
func (s *Subscriber) commit(gen uint64, cursor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil && s.generation == gen {
		s.cursor = cursor
	}
}

func (s *Subscriber) decode(data string) (client.LogEntry, error) {
	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.Parse(data)
	if err != nil {
		return client.LogEntry{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if v.Type() != fastjson.TypeObject {
		return client.LogEntry{}, fmt.Errorf("%w: expected object, got %s", ErrMalformedPayload, v.Type())
	}

	return client.LogEntry{
		ID:        v.GetInt64("id"),
		Timestamp: string(v.GetStringBytes("timestamp")),
		Level:     client.Level(v.GetStringBytes("level")),
		Logger:    string(v.GetStringBytes("logger")),
		Message:   string(v.GetStringBytes("message")),
	}, nil
}

func (s *Subscriber) report(gen uint64, err error) {
	if !s.current(gen) {
		return
	}
	select {
	case s.errors <- err:
	default:
	}
}

func (s *Subscriber) setState(gen uint64, state State) {
	if !s.current(gen) {
		return
	}
	s.emitState(gen, state)
}

func (s *Subscriber) emitState(gen uint64, state State) {
	select {
	case s.states <- StateChange{Generation: gen, State: state}:
	default:
	}
}
