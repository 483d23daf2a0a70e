// SPDX-License-Identifier: GPL-3.0-only
package printer

import (
	"html"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Escaper makes free text safe to insert into a display surface.
type Escaper interface {
	Escape(text string) string
}

// EscaperFunc adapts a plain function to Escaper.
type EscaperFunc func(string) string

func (f EscaperFunc) Escape(text string) string { return f(text) }

// HTMLEscaper escapes markup so text is shown literally in an html surface.
var HTMLEscaper Escaper = EscaperFunc(html.EscapeString)

// TerminalEscaper removes escape sequences and control characters so a log
// message cannot move the cursor, recolor or retitle the terminal.
var TerminalEscaper Escaper = EscaperFunc(stripTerminal)

func stripTerminal(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return r
		case r == '\n':
			return '↵'
		case r < 0x20, r == 0x7f, r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, text)
}
