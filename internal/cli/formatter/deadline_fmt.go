package formatter

import (
	"fmt"
	"strings"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
)

// FormatDeadlineList renders a styled deadline table inside a bordered box.
func FormatDeadlineList(title string, deadlines []*domain.Deadline) string {
	headers := []string{"ID", "TITLE", "DUE", "PRIORITY", "STATUS"}
	rows := make([][]string, 0, len(deadlines))

	for _, d := range deadlines {
		rows = append(rows, []string{
			TruncID(d.ID),
			Bold(d.Title),
			dueCell(d),
			PriorityBadge(d.Priority),
			StatusPill(d.Status),
		})
	}

	return RenderBox(title, RenderTable(headers, rows))
}

// FormatTimeline renders a user's cross-case timeline with case context.
func FormatTimeline(entries []repository.TimelineEntry) string {
	headers := []string{"ID", "TITLE", "CASE", "DUE", "PRIORITY", "STATUS"}
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		d := e.Deadline
		caseCell := StylePurple.Render(e.CaseTitle)
		if e.CaseStatus != domain.CaseOpen {
			caseCell += " " + Dim("("+string(e.CaseStatus)+")")
		}
		rows = append(rows, []string{
			TruncID(d.ID),
			Bold(d.Title),
			caseCell,
			dueCell(&d),
			PriorityBadge(d.Priority),
			StatusPill(d.Status),
		})
	}

	return RenderBox("Timeline", RenderTable(headers, rows))
}

// FormatDeadlineInspect renders a single deadline detail card.
func FormatDeadlineInspect(d *domain.Deadline, dependencies, dependents []domain.DeadlineDependency) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(d.Title) + "\n")
	if d.Description != "" {
		b.WriteString(StyleFg.Render(d.Description) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS  "), StatusPill(d.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PRIORITY"), PriorityBadge(d.Priority)))
	b.WriteString(fmt.Sprintf("%s  %s %s\n", StyleDim.Render("DUE     "),
		RelativeDateStyled(d.DeadlineDate), Dim("("+d.DeadlineDate.Format("Jan 2, 2006")+")")))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("CASE    "), TruncID(d.CaseID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID      "), TruncID(d.ID)))
	if d.CompletedAt != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("DONE AT "), HumanDate(*d.CompletedAt)))
	}

	if len(dependencies) > 0 {
		b.WriteString("\n" + Header("Depends on") + "\n")
		for _, dep := range dependencies {
			b.WriteString(formatEdgeLine(dep, dep.TargetDeadlineID))
		}
	}
	if len(dependents) > 0 {
		b.WriteString("\n" + Header("Blocks") + "\n")
		for _, dep := range dependents {
			b.WriteString(formatEdgeLine(dep, dep.SourceDeadlineID))
		}
	}

	return RenderBox("", b.String())
}

// formatEdgeLine renders one dependency edge with its type and lag.
func formatEdgeLine(dep domain.DeadlineDependency, otherID string) string {
	line := fmt.Sprintf("%s %s %s", Dim("→"), TruncID(otherID), StyleBlue.Render(EdgeTypeLabel(dep.DependencyType)))
	if dep.LagDays != 0 {
		line += " " + Dim(fmt.Sprintf("(lag %+dd)", dep.LagDays))
	}
	return line + "\n"
}

// EdgeTypeLabel renders a dependency type as a short label such as "FS".
func EdgeTypeLabel(t domain.DependencyType) string {
	switch t {
	case domain.FinishToStart:
		return "FS"
	case domain.StartToStart:
		return "SS"
	case domain.FinishToFinish:
		return "FF"
	case domain.StartToFinish:
		return "SF"
	default:
		return string(t)
	}
}

// FormatStats renders the per-user deadline counters.
func FormatStats(stats *domain.DeadlineStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("TOTAL    "), StyleBold.Render(fmt.Sprintf("%d", stats.Total))))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UPCOMING "), StyleBlue.Render(fmt.Sprintf("%d", stats.Upcoming))))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("OVERDUE  "), StyleRed.Render(fmt.Sprintf("%d", stats.Overdue))))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("COMPLETED"), StyleDim.Render(fmt.Sprintf("%d", stats.Completed))))
	return RenderBox("Deadlines", b.String())
}

// dueCell renders the due column: relative date for live deadlines, dimmed
// absolute date for completed ones.
func dueCell(d *domain.Deadline) string {
	if d.Status == domain.DeadlineCompleted {
		return Dim(d.DeadlineDate.Format("Jan 2, 2006"))
	}
	return RelativeDateStyled(d.DeadlineDate)
}
