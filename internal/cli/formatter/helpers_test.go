package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences for stripping before comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 8, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanDate(t *testing.T) {
	past := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sep 30, 2024", HumanDate(past))
	assert.Equal(t, "Today", HumanDate(time.Now()))
	assert.Equal(t, "Yesterday", HumanDate(time.Now().AddDate(0, 0, -1)))
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.DeadlineStatus
		contains string
	}{
		{domain.DeadlineUpcoming, "Upcoming"},
		{domain.DeadlineOverdue, "Overdue"},
		{domain.DeadlineCompleted, "Completed"},
	}
	for _, tt := range tests {
		assert.Contains(t, stripANSI(StatusPill(tt.status)), tt.contains)
	}
}

func TestPriorityBadge(t *testing.T) {
	assert.Contains(t, stripANSI(PriorityBadge(domain.PriorityHigh)), "HIGH")
	assert.Contains(t, stripANSI(PriorityBadge(domain.PriorityMedium)), "MED")
	assert.Contains(t, stripANSI(PriorityBadge(domain.PriorityLow)), "LOW")
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "12345678", stripANSI(TruncID("123456789abcdef")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}

func TestRenderTable_Alignment(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "TITLE"},
		[][]string{
			{"a1", "Serve complaint"},
			{"b2", "Answer"},
		},
	))

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "──")
	assert.Contains(t, lines[2], "Serve complaint")

	// Column start positions line up across rows.
	assert.Equal(t, strings.Index(lines[0], "TITLE"), strings.Index(lines[2], "Serve"))
	assert.Equal(t, strings.Index(lines[0], "TITLE"), strings.Index(lines[3], "Answer"))
}
