// SPDX-License-Identifier: GPL-3.0-only
package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/TylerBrock/colorjson"
	"github.com/bascanada/admintail/pkg/log/client"
)

// Format selects how entries are turned into display lines.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// LevelWidth is the padded width of the level column.
const LevelWidth = 7

// Placeholder is shown when nothing passes the filter.
const Placeholder = "Waiting for logs..."

// DefaultTemplate renders one text line per entry.
const DefaultTemplate = "{{.Time}} {{.Level}} [{{.Logger}}] {{.Message}}"

const htmlLine = `<div class="log-entry"><span class="ts">%s</span> <span class="lvl lvl-%s">%s</span> <span class="logger-name">[%s]</span> <span class="msg">%s</span></div>`

const htmlPlaceholder = `<p class="empty-state">` + Placeholder + `</p>`

// LevelStyler decorates the padded level column, e.g. with colors.
type LevelStyler func(level client.Level, padded string) string

// Options configures a Formatter.
type Options struct {
	Format   Format
	Template string
	Color    bool
	// Styler overrides the level decoration of text output.
	Styler LevelStyler
}

// Line is the data handed to text templates. Free text fields are already
// escaped.
type Line struct {
	Time    string
	Level   string
	Logger  string
	Message string
	ID      int64
}

// Formatter turns a LogEntry into one display line.
type Formatter struct {
	format  Format
	escaper Escaper
	tmpl    *template.Template
	styler  LevelStyler
	json    *colorjson.Formatter
}

func NewFormatter(opts Options) (*Formatter, error) {
	f := &Formatter{format: opts.Format}

	switch opts.Format {
	case FormatHTML:
		f.escaper = HTMLEscaper
	case FormatJSON:
		f.escaper = TerminalEscaper
		if opts.Color {
			f.json = colorjson.NewFormatter()
			f.json.Indent = 0
		}
	case FormatText, "":
		f.format = FormatText
		f.escaper = TerminalEscaper

		tmplText := opts.Template
		if strings.TrimSpace(tmplText) == "" {
			tmplText = DefaultTemplate
		}
		tmpl, err := template.New("entry").Funcs(GetTemplateFunctionsMap()).Parse(tmplText)
		if err != nil {
			return nil, fmt.Errorf("parsing printer template: %w", err)
		}
		f.tmpl = tmpl

		switch {
		case opts.Styler != nil:
			f.styler = opts.Styler
		case opts.Color:
			f.styler = ColorLevel
		}
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}

	return f, nil
}

// Format returns the configured output format.
func (f *Formatter) Format() Format {
	return f.format
}

// Placeholder returns the empty-state line for this format.
func (f *Formatter) Placeholder() string {
	if f.format == FormatHTML {
		return htmlPlaceholder
	}
	return Placeholder
}

// FormatEntry renders entry as a single display line.
func (f *Formatter) FormatEntry(entry client.LogEntry) string {
	switch f.format {
	case FormatHTML:
		level := f.escaper.Escape(string(entry.Level))
		return fmt.Sprintf(htmlLine,
			f.escaper.Escape(DisplayTime(entry.Timestamp)),
			level,
			PadLevel(level),
			f.escaper.Escape(entry.Logger),
			f.escaper.Escape(entry.Message),
		)
	case FormatJSON:
		return f.formatJSON(entry)
	default:
		return f.formatText(entry)
	}
}

func (f *Formatter) formatText(entry client.LogEntry) string {
	level := PadLevel(f.escaper.Escape(string(entry.Level)))
	if f.styler != nil {
		level = f.styler(entry.Level, level)
	}

	line := Line{
		Time:    f.escaper.Escape(DisplayTime(entry.Timestamp)),
		Level:   level,
		Logger:  f.escaper.Escape(entry.Logger),
		Message: f.escaper.Escape(entry.Message),
		ID:      entry.ID,
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, line); err != nil {
		// a template that fails at execution time still has to show something
		return fmt.Sprintf("%s %s [%s] %s", line.Time, line.Level, line.Logger, line.Message)
	}
	return buf.String()
}

func (f *Formatter) formatJSON(entry client.LogEntry) string {
	raw, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	if f.json == nil {
		return string(raw)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return string(raw)
	}
	colored, err := f.json.Marshal(obj)
	if err != nil {
		return string(raw)
	}
	return string(colored)
}

// DisplayTime keeps the time-of-day part of an ISO-8601 timestamp, or the
// value verbatim when it has no date/time separator.
func DisplayTime(ts string) string {
	parts := strings.Split(ts, "T")
	if len(parts) > 1 && parts[1] != "" {
		return parts[1]
	}
	return ts
}

// PadLevel right-pads level to LevelWidth.
func PadLevel(level string) string {
	return fmt.Sprintf("%-*s", LevelWidth, level)
}
