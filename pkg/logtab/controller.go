// SPDX-License-Identifier: GPL-3.0-only

// Package logtab drives the log tab: backlog fetch, live feed, history,
// filter and rendering. All methods must be called from one goroutine.
package logtab

import (
	"context"
	"log/slog"

	"github.com/bascanada/admintail/pkg/log/buffer"
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/printer"
	"github.com/bascanada/admintail/pkg/log/stream"
)

type State int

const (
	Inactive State = iota
	Activating
	Active
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Activating:
		return "activating"
	case Active:
		return "active"
	}
	return "unknown"
}

// Feed is the live subscription used by the controller.
type Feed interface {
	Open(ctx context.Context, cursor int64) uint64
	Close()
}

// BacklogResult is the outcome of a backlog fetch started by Activate.
type BacklogResult struct {
	Session uint64
	Entries []client.LogEntry
	Err     error
}

// Fetch runs a backlog request. It blocks and must not touch the controller.
type Fetch func() BacklogResult

type Options struct {
	Fetcher    client.BacklogFetcher
	Feed       Feed
	Renderer   *printer.Renderer
	Display    printer.Display
	Backlog    int
	Filter     client.FilterState
	AutoScroll bool
	Logger     *slog.Logger
}

type Controller struct {
	fetcher  client.BacklogFetcher
	feed     Feed
	renderer *printer.Renderer
	display  printer.Display
	logger   *slog.Logger

	history    *buffer.History
	filter     client.FilterState
	autoScroll bool
	backlog    int

	state      State
	cursor     int64
	session    uint64
	generation uint64
	ctx        context.Context
}

func New(opts Options) *Controller {
	if opts.Backlog <= 0 {
		opts.Backlog = client.DefaultBacklog
	}
	if opts.Display == nil {
		opts.Display = printer.NewSurface()
	}
	if opts.Filter.Level == "" {
		opts.Filter.Level = client.LevelAll
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		fetcher:    opts.Fetcher,
		feed:       opts.Feed,
		renderer:   opts.Renderer,
		display:    opts.Display,
		logger:     opts.Logger,
		filter:     opts.Filter,
		autoScroll: opts.AutoScroll,
		backlog:    opts.Backlog,
		history:    buffer.NewHistory(),
		ctx:        context.Background(),
	}
}

// Activate starts the tab. When the history already holds entries the feed
// resumes right away and nil is returned. Otherwise the returned Fetch has
// to be run and its result handed to BacklogLoaded.
func (c *Controller) Activate(ctx context.Context) Fetch {
	if c.state != Inactive {
		return nil
	}
	c.ctx = ctx
	c.session++

	if c.cursor > 0 {
		c.state = Active
		c.logger.Debug("log tab resumed", "cursor", c.cursor, "entries", c.history.Len())
		c.render()
		c.openFeed()
		return nil
	}

	c.state = Activating
	session, fetcher, count := c.session, c.fetcher, c.backlog
	return func() BacklogResult {
		entries, err := fetcher.Recent(ctx, count)
		return BacklogResult{Session: session, Entries: entries, Err: err}
	}
}

// BacklogLoaded completes activation. A failed fetch starts from an empty
// backlog. Results of a superseded activation are ignored.
func (c *Controller) BacklogLoaded(res BacklogResult) {
	if c.state != Activating || res.Session != c.session {
		c.logger.Debug("discarding stale backlog", "session", res.Session, "current", c.session)
		return
	}

	if res.Err != nil {
		c.logger.Warn("backlog fetch failed, starting empty", "err", res.Err)
	} else {
		c.history.Replace(res.Entries)
		if last := client.LastID(res.Entries); last > 0 {
			c.cursor = last
		}
		c.logger.Debug("backlog loaded", "entries", len(res.Entries), "cursor", c.cursor)
	}

	c.state = Active
	c.render()
	c.openFeed()
}

// Deactivate closes the live feed. History, cursor and filter are kept.
func (c *Controller) Deactivate() {
	if c.state == Inactive {
		return
	}
	if c.state == Active && c.feed != nil {
		c.feed.Close()
	}
	c.state = Inactive
	c.logger.Debug("log tab deactivated", "cursor", c.cursor)
}

// EntryReceived handles one live entry.
func (c *Controller) EntryReceived(ev stream.Event) {
	if c.state != Active || ev.Generation != c.generation {
		return
	}

	entry := ev.Entry
	c.cursor = ev.Cursor()
	if c.history.Append(entry) {
		c.logger.Debug("history evicted", "retained", c.history.Len())
	}

	if c.filter.Match(entry) {
		c.display.Apply(c.renderer.AppendOne(entry, c.display.HasPlaceholder(), c.autoScroll)...)
	}
}

// Clear empties the history. The cursor is kept so the feed does not replay.
func (c *Controller) Clear() {
	c.history.Clear()
	c.render()
}

func (c *Controller) SetLevel(level client.Level) {
	if level == "" {
		level = client.LevelAll
	}
	c.filter.Level = level
	c.render()
}

func (c *Controller) SetSearch(text string) {
	c.filter.Search = text
	c.render()
}

func (c *Controller) SetFilter(filter client.FilterState) {
	if filter.Level == "" {
		filter.Level = client.LevelAll
	}
	c.filter = filter
	c.render()
}

func (c *Controller) SetAutoScroll(enabled bool) {
	c.autoScroll = enabled
	c.render()
}

// SetRenderer swaps the line format and redraws.
func (c *Controller) SetRenderer(r *printer.Renderer) {
	c.renderer = r
	c.render()
}

func (c *Controller) Surface() printer.Display {
	return c.display
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Cursor() int64 {
	return c.cursor
}

func (c *Controller) Filter() client.FilterState {
	return c.filter
}

func (c *Controller) AutoScroll() bool {
	return c.autoScroll
}

func (c *Controller) Len() int {
	return c.history.Len()
}

// Entries is a read-only view of the history, valid until the next change.
func (c *Controller) Entries() []client.LogEntry {
	return c.history.All()
}

// Visible returns the history entries passing the current filter.
func (c *Controller) Visible() []client.LogEntry {
	return c.filter.Apply(c.history.All())
}

func (c *Controller) render() {
	c.display.Apply(c.renderer.RenderAll(c.history.All(), c.filter, c.autoScroll)...)
}

func (c *Controller) openFeed() {
	if c.feed == nil {
		return
	}
	c.generation = c.feed.Open(c.ctx, c.cursor)
	c.logger.Debug("live feed opened", "cursor", c.cursor, "generation", c.generation)
}
