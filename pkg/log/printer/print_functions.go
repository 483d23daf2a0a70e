// SPDX-License-Identifier: GPL-3.0-only
package printer

import (
	"strings"
	"text/template"
	"unicode/utf8"
)

// Trim removes leading and trailing whitespace from a string.
// Usage in template: {{Trim .Message}} or {{.Message | Trim}}
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Short truncates s to n runes, marking the cut with an ellipsis.
// Usage in template: {{Short 40 .Logger}}
func Short(n int, s string) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// Pad right-pads s to n columns.
// Usage in template: {{Pad 20 .Logger}}
func Pad(n int, s string) string {
	if missing := n - utf8.RuneCountInString(s); missing > 0 {
		return s + strings.Repeat(" ", missing)
	}
	return s
}

func GetTemplateFunctionsMap() template.FuncMap {
	return template.FuncMap{
		"Trim":  Trim,
		"Short": Short,
		"Pad":   Pad,
		"Upper": strings.ToUpper,
		"Lower": strings.ToLower,
	}
}
