package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/sprint"
	"github.com/faizmokh/worklog/internal/stats"
)

const barWidth = 30

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Width(16)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func renderSprint(summary sprint.Summary, current bool) string {
	var b strings.Builder
	title := fmt.Sprintf("Sprint %d: %s - %s", summary.Period.Index,
		summary.Period.Start.Format("2006-01-02"), summary.Period.End.Format("2006-01-02"))
	if current {
		title += " (current)"
	}
	b.WriteString(headingStyle.Render(title))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Entries: %d", summary.Entries)
	if summary.Ongoing > 0 {
		fmt.Fprintf(&b, " (%d ongoing)", summary.Ongoing)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Logged: %s\n", logbook.Minutes(summary.TotalMinutes))
	if len(summary.Tickets) == 0 {
		b.WriteString(mutedStyle.Render("Tickets: none"))
	} else {
		fmt.Fprintf(&b, "Tickets: %s", strings.Join(summary.Tickets, ", "))
	}
	b.WriteByte('\n')
	return b.String()
}

// renderStats draws one bar per workday scaled to the busiest day, followed
// by per-type completion and the entries still missing somewhere.
func renderStats(days []stats.DayStats, totals stats.Summary, types logbook.LogTypes, indexes map[*logbook.Entry]int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Last %d workdays", len(days))))
	b.WriteByte('\n')

	maxMinutes := 0
	for _, d := range days {
		maxMinutes = max(maxMinutes, d.TotalMinutes)
	}

	for _, d := range days {
		width := 0
		if maxMinutes > 0 {
			width = d.TotalMinutes * barWidth / maxMinutes
		}
		label := labelStyle.Render(d.Date.Format("Mon 2006-01-02"))
		bar := barStyle.Render(strings.Repeat("█", width))
		line := fmt.Sprintf("%s %s %5.2fh", label, bar, d.Hours())
		if d.Ongoing > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" +%d ongoing", d.Ongoing))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Total: %s, average %.2fh/day\n", logbook.Minutes(totals.TotalMinutes), totals.AverageHours())
	for _, t := range types {
		counts := totals.Types[t.Name]
		fmt.Fprintf(&b, "%s: %d logged, %d pending\n", t.Label(), counts.Completed, counts.NotCompleted)
	}

	var incomplete []string
	for _, d := range days {
		for _, e := range d.Incomplete {
			incomplete = append(incomplete, fmt.Sprintf("  %d. %s", indexes[e], formatEntry(e, types)))
		}
	}
	if len(incomplete) > 0 {
		b.WriteString(warningStyle.Render("Not yet logged everywhere:"))
		b.WriteByte('\n')
		b.WriteString(strings.Join(incomplete, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}
