// SPDX-License-Identifier: GPL-3.0-only
package printer

import (
	"github.com/bascanada/admintail/pkg/log/client"
)

// InstructionKind is one step a display surface has to perform.
type InstructionKind int

const (
	// Replace swaps the whole surface content for Lines.
	Replace InstructionKind = iota
	// ShowPlaceholder clears the surface and shows the empty state.
	ShowPlaceholder
	// RemovePlaceholder drops the empty state, keeping other content.
	RemovePlaceholder
	// Append adds Lines at the end, leaving existing lines untouched.
	Append
	// ScrollToEnd moves the viewport to the last line.
	ScrollToEnd
)

func (k InstructionKind) String() string {
	switch k {
	case Replace:
		return "replace"
	case ShowPlaceholder:
		return "placeholder"
	case RemovePlaceholder:
		return "remove-placeholder"
	case Append:
		return "append"
	case ScrollToEnd:
		return "scroll-to-end"
	}
	return "unknown"
}

// Instruction is a single display mutation.
type Instruction struct {
	Kind  InstructionKind
	Lines []string
}

// Renderer projects entries and a filter into display instructions. It
// never touches a surface itself.
type Renderer struct {
	formatter *Formatter
}

func NewRenderer(formatter *Formatter) *Renderer {
	return &Renderer{formatter: formatter}
}

// Formatter returns the formatter in use.
func (r *Renderer) Formatter() *Formatter {
	return r.formatter
}

// RenderAll recomputes the whole visible list from snapshot.
func (r *Renderer) RenderAll(snapshot []client.LogEntry, filter client.FilterState, autoScroll bool) []Instruction {
	lines := make([]string, 0, len(snapshot))
	for _, e := range snapshot {
		if filter.Match(e) {
			lines = append(lines, r.formatter.FormatEntry(e))
		}
	}

	if len(lines) == 0 {
		return []Instruction{{Kind: ShowPlaceholder, Lines: []string{r.formatter.Placeholder()}}}
	}

	instrs := []Instruction{{Kind: Replace, Lines: lines}}
	if autoScroll {
		instrs = append(instrs, Instruction{Kind: ScrollToEnd})
	}
	return instrs
}

// AppendOne adds a single entry that already passed the filter.
func (r *Renderer) AppendOne(entry client.LogEntry, placeholderShowing bool, autoScroll bool) []Instruction {
	instrs := make([]Instruction, 0, 3)
	if placeholderShowing {
		instrs = append(instrs, Instruction{Kind: RemovePlaceholder})
	}
	instrs = append(instrs, Instruction{Kind: Append, Lines: []string{r.formatter.FormatEntry(entry)}})
	if autoScroll {
		instrs = append(instrs, Instruction{Kind: ScrollToEnd})
	}
	return instrs
}
