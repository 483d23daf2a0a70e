package printer_test

import (
	"bytes"
	"testing"

	"github.com/bascanada/admintail/pkg/log/buffer"
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *printer.Renderer {
	t.Helper()
	f, err := printer.NewFormatter(printer.Options{Template: "{{.Level}}|{{.Message}}"})
	require.NoError(t, err)
	return printer.NewRenderer(f)
}

func TestRenderAll(t *testing.T) {
	r := newRenderer(t)
	snapshot := []client.LogEntry{
		entry(1, "INFO", "app", "a"),
		entry(2, "ERROR", "app", "b"),
		entry(3, "INFO", "app", "c"),
	}

	t.Run("empty history shows placeholder without scroll", func(t *testing.T) {
		instrs := r.RenderAll(nil, client.DefaultFilter(), true)
		require.Len(t, instrs, 1)
		assert.Equal(t, printer.ShowPlaceholder, instrs[0].Kind)
		assert.Equal(t, []string{printer.Placeholder}, instrs[0].Lines)
	})

	t.Run("nothing matches shows placeholder", func(t *testing.T) {
		instrs := r.RenderAll(snapshot, client.FilterState{Level: client.LevelCritical}, true)
		require.Len(t, instrs, 1)
		assert.Equal(t, printer.ShowPlaceholder, instrs[0].Kind)
	})

	t.Run("filtered replace keeps order", func(t *testing.T) {
		instrs := r.RenderAll(snapshot, client.FilterState{Level: client.LevelInfo}, false)
		require.Len(t, instrs, 1)
		assert.Equal(t, printer.Replace, instrs[0].Kind)
		assert.Equal(t, []string{"INFO   |a", "INFO   |c"}, instrs[0].Lines)
	})

	t.Run("autoscroll appends scroll", func(t *testing.T) {
		instrs := r.RenderAll(snapshot, client.DefaultFilter(), true)
		require.Len(t, instrs, 2)
		assert.Equal(t, printer.Replace, instrs[0].Kind)
		assert.Equal(t, printer.ScrollToEnd, instrs[1].Kind)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := printer.NewSurface()
		first.Apply(r.RenderAll(snapshot, client.DefaultFilter(), false)...)
		content := first.Content()

		first.Apply(r.RenderAll(snapshot, client.DefaultFilter(), false)...)
		assert.Equal(t, content, first.Content())
	})
}

func TestAppendOne(t *testing.T) {
	r := newRenderer(t)
	e := entry(1, "INFO", "app", "hello")

	t.Run("removes placeholder first", func(t *testing.T) {
		instrs := r.AppendOne(e, true, false)
		require.Len(t, instrs, 2)
		assert.Equal(t, printer.RemovePlaceholder, instrs[0].Kind)
		assert.Equal(t, printer.Append, instrs[1].Kind)
		assert.Equal(t, []string{"INFO   |hello"}, instrs[1].Lines)
	})

	t.Run("scrolls when enabled", func(t *testing.T) {
		instrs := r.AppendOne(e, false, true)
		require.Len(t, instrs, 2)
		assert.Equal(t, printer.Append, instrs[0].Kind)
		assert.Equal(t, printer.ScrollToEnd, instrs[1].Kind)
	})
}

func TestSurface(t *testing.T) {
	r := newRenderer(t)
	s := printer.NewSurface()

	s.Apply(r.RenderAll(nil, client.DefaultFilter(), true)...)
	assert.True(t, s.HasPlaceholder())
	assert.Equal(t, printer.Placeholder, s.Content())
	assert.False(t, s.TakeScroll())

	s.Apply(r.AppendOne(entry(1, "INFO", "app", "x"), s.HasPlaceholder(), true)...)
	assert.False(t, s.HasPlaceholder())
	assert.Equal(t, "INFO   |x", s.Content())
	assert.True(t, s.TakeScroll())
	assert.False(t, s.TakeScroll())
}

func TestSurfaceBounded(t *testing.T) {
	r := newRenderer(t)
	s := printer.NewSurface()

	for i := 1; i <= buffer.MaxEntries+1; i++ {
		s.Apply(r.AppendOne(entry(int64(i), "INFO", "app", "m"), false, false)...)
	}
	assert.Len(t, s.Lines(), buffer.RetainEntries)
}

func TestWriterDisplay(t *testing.T) {
	r := newRenderer(t)
	var out, status bytes.Buffer
	w := printer.NewWriterDisplay(&out, &status)

	w.Apply(r.RenderAll(nil, client.DefaultFilter(), true)...)
	w.Apply(r.RenderAll(nil, client.DefaultFilter(), true)...)
	assert.Equal(t, printer.Placeholder+"\n", status.String())
	assert.True(t, w.HasPlaceholder())

	w.Apply(r.AppendOne(entry(1, "INFO", "app", "one"), w.HasPlaceholder(), true)...)
	w.Apply(r.AppendOne(entry(2, "ERROR", "app", "two"), w.HasPlaceholder(), true)...)
	assert.Equal(t, "INFO   |one\nERROR  |two\n", out.String())
	assert.NoError(t, w.Err())
}
