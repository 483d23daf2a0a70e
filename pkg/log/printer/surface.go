// SPDX-License-Identifier: GPL-3.0-only
package printer

import (
	"io"
	"strings"

	"github.com/bascanada/admintail/pkg/log/buffer"
	"github.com/bascanada/admintail/pkg/ty"
)

// Display applies render instructions to some output.
type Display interface {
	Apply(instrs ...Instruction)
	HasPlaceholder() bool
}

// Surface is an in-memory display, read by the terminal UI.
type Surface struct {
	lines       []string
	placeholder string
	showing     bool
	scroll      bool
	version     uint64
}

// NewSurface starts out empty, without a placeholder.
func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Apply(instrs ...Instruction) {
	for _, in := range instrs {
		switch in.Kind {
		case Replace:
			s.lines = append(s.lines[:0:0], in.Lines...)
			s.showing = false
		case ShowPlaceholder:
			s.lines = nil
			s.showing = true
			if len(in.Lines) > 0 {
				s.placeholder = in.Lines[0]
			}
		case RemovePlaceholder:
			s.showing = false
		case Append:
			s.lines = append(s.lines, in.Lines...)
			// lines mirror the bounded history, so the display is bounded too
			if len(s.lines) > buffer.MaxEntries {
				s.lines = append(s.lines[:0:0], s.lines[len(s.lines)-buffer.RetainEntries:]...)
			}
		case ScrollToEnd:
			s.scroll = true
		}
	}
	s.version++
}

func (s *Surface) HasPlaceholder() bool {
	return s.showing
}

// Lines returns the displayed entry lines, without the placeholder.
func (s *Surface) Lines() []string {
	return s.lines
}

// Content is what the viewport shows.
func (s *Surface) Content() string {
	if s.showing {
		return s.placeholder
	}
	return strings.Join(s.lines, ty.LB)
}

// TakeScroll reports a pending scroll-to-end request and clears it.
func (s *Surface) TakeScroll() bool {
	scroll := s.scroll
	s.scroll = false
	return scroll
}

// Version increases on every Apply, so readers can skip redundant redraws.
func (s *Surface) Version() uint64 {
	return s.version
}

// WriterDisplay streams instructions to a writer, one entry per line, for
// headless output. The placeholder goes to a separate status writer.
type WriterDisplay struct {
	out     io.Writer
	status  io.Writer
	showing bool
	err     error
}

func NewWriterDisplay(out, status io.Writer) *WriterDisplay {
	if status == nil {
		status = io.Discard
	}
	return &WriterDisplay{out: out, status: status}
}

func (w *WriterDisplay) Apply(instrs ...Instruction) {
	for _, in := range instrs {
		switch in.Kind {
		case Replace, Append:
			w.showing = false
			for _, line := range in.Lines {
				w.write(w.out, line)
			}
		case ShowPlaceholder:
			if !w.showing {
				for _, line := range in.Lines {
					w.write(w.status, line)
				}
			}
			w.showing = true
		case RemovePlaceholder:
			w.showing = false
		}
	}
}

func (w *WriterDisplay) HasPlaceholder() bool {
	return w.showing
}

// Err returns the first write error encountered.
func (w *WriterDisplay) Err() error {
	return w.err
}

func (w *WriterDisplay) write(dst io.Writer, line string) {
	if w.err != nil {
		return
	}
	if _, err := io.WriteString(dst, line+ty.LB); err != nil {
		w.err = err
	}
}
