// SPDX-License-Identifier: GPL-3.0-only
package status

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	labelStyle        = lipgloss.NewStyle().Bold(true).Width(10)
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NoEndpoints is shown instead of an empty endpoint table.
const NoEndpoints = "No requests recorded yet."

// BadgeStyle returns the color style for a badge.
func BadgeStyle(b Badge) lipgloss.Style {
	switch b {
	case BadgeConnected:
		return connectedStyle
	case BadgeDisconnected, BadgeError:
		return disconnectedStyle
	}
	return mutedStyle
}

// Waiting is shown before the first report arrives.
const Waiting = "Waiting for status..."

// Render draws the status cards and the endpoint table.
func Render(r *Report, err error) string {
	if r == nil && err == nil {
		return mutedStyle.Render(Waiting) + "\n"
	}

	var sb strings.Builder

	badge := BadgeOf(r, err)
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Status"), BadgeStyle(badge).Render(badge.String()))
	if err != nil {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render(""), mutedStyle.Render(err.Error()))
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Model"), r.Model())
	fmt.Fprintf(&sb, "%s %d\n", labelStyle.Render("Requests"), r.Stats.TotalRequests)
	fmt.Fprintf(&sb, "%s %d OK / %d ERR\n", labelStyle.Render("Results"), r.Stats.SuccessCount, r.Stats.ErrorCount)
	fmt.Fprintf(&sb, "%s %s\n\n", labelStyle.Render("Uptime"), r.Stats.Uptime)

	rows := r.Stats.SortedEndpoints()
	if len(rows) == 0 {
		sb.WriteString(mutedStyle.Render(NoEndpoints))
		sb.WriteString("\n")
		return sb.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ENDPOINT", "REQUESTS")
	for _, row := range rows {
		t.Row(row.Path, strconv.FormatInt(row.Count, 10))
	}
	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}
