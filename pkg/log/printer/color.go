// SPDX-License-Identifier: GPL-3.0-only
package printer

import (
	"io"
	"os"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ResolveColor decides whether colored output should be produced and syncs
// fatih/color's global switch with the decision.
// Priority order (highest to lowest):
//  1. Explicit user setting (via CLI flag or config)
//  2. NO_COLOR environment variable
//  3. TTY detection (auto-detect terminal)
//  4. Default to disabled (for unknown writers)
func ResolveColor(explicitSetting *bool, writer io.Writer) bool {
	enabled := false

	switch {
	case explicitSetting != nil:
		enabled = *explicitSetting
	case os.Getenv("NO_COLOR") != "":
		enabled = false
	default:
		if f, ok := writer.(*os.File); ok {
			enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	color.NoColor = !enabled
	return enabled
}

var levelColors = map[client.Level]*color.Color{
	client.LevelDebug:    color.New(color.FgBlue),
	client.LevelInfo:     color.New(color.FgGreen),
	client.LevelWarning:  color.New(color.FgYellow),
	client.LevelError:    color.New(color.FgRed, color.Bold),
	client.LevelCritical: color.New(color.FgHiWhite, color.BgRed, color.Bold),
}

// ColorLevel is the LevelStyler used for terminal output.
func ColorLevel(level client.Level, padded string) string {
	c, ok := levelColors[level]
	if !ok {
		return padded
	}
	return c.Sprint(padded)
}
