package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/docketlabs/docket/internal/domain"
)

const ganttTrackWidth = 40

// FormatGantt renders deadlines on a shared date axis with their dependency
// counts. Rows keep the order they arrive in, which is already date-sorted.
func FormatGantt(title string, views []*domain.DeadlineWithDependencies) string {
	if len(views) == 0 {
		return RenderBox(title, StyleDim.Render("No deadlines"))
	}

	first := views[0].Deadline.DeadlineDate
	last := first
	for _, v := range views[1:] {
		d := v.Deadline.DeadlineDate
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	span := last.Sub(first)

	titleWidth := 0
	for _, v := range views {
		if w := lipgloss.Width(v.Deadline.Title); w > titleWidth {
			titleWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s%s %s %s %s\n",
		strings.Repeat(" ", titleWidth+2),
		Dim(first.Format("Jan 2")),
		Dim(strings.Repeat("·", ganttTrackWidth-12)),
		Dim(last.Format("Jan 2")),
		Dim("DEPS"),
	))

	for _, v := range views {
		d := v.Deadline
		b.WriteString(padRight(d.Title, titleWidth))
		b.WriteString("  ")
		b.WriteString(ganttTrack(d, first, span))

		deps := Dim("--")
		if v.DependenciesCount() > 0 || v.DependentsCount() > 0 {
			deps = StyleBlue.Render(fmt.Sprintf("→%d ←%d", v.DependenciesCount(), v.DependentsCount()))
		}
		b.WriteString("  " + deps + "\n")
	}

	return RenderBox(title, b.String())
}

// ganttTrack renders one axis line with a status-colored marker at the
// deadline's position.
func ganttTrack(d *domain.Deadline, first time.Time, span time.Duration) string {
	pos := 0
	if span > 0 {
		pos = int(float64(ganttTrackWidth-1) * float64(d.DeadlineDate.Sub(first)) / float64(span))
	}

	marker := "◆"
	style := StyleBlue
	switch d.Status {
	case domain.DeadlineOverdue:
		style = StyleRed
	case domain.DeadlineCompleted:
		marker = "✔"
		style = StyleDim
	}

	return Dim(strings.Repeat("·", pos)) +
		style.Render(marker) +
		Dim(strings.Repeat("·", ganttTrackWidth-1-pos))
}

func padRight(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad < 0 {
		pad = 0
	}
	return Bold(s) + strings.Repeat(" ", pad)
}
