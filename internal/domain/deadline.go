package domain

import "time"

type Deadline struct {
	ID          string
	CaseID      string
	UserID      string
	Title       string
	Description string

	// DeadlineDate is date-only; the time component is always midnight UTC.
	DeadlineDate time.Time
	Priority     Priority
	Status       DeadlineStatus

	// CompletedAt is set iff Status == DeadlineCompleted.
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DeletedAt is a tombstone; a non-nil value excludes the row from all queries.
	DeletedAt *time.Time
}

// ApplyStatus transitions the deadline to the given status, stamping or
// clearing CompletedAt so that it is non-nil exactly when the deadline is
// completed.
func (d *Deadline) ApplyStatus(status DeadlineStatus, now time.Time) {
	d.Status = status
	if status == DeadlineCompleted {
		t := now
		d.CompletedAt = &t
		return
	}
	d.CompletedAt = nil
}

// DeadlinePatch carries a partial update: nil fields keep their stored value.
type DeadlinePatch struct {
	Title        *string
	Description  *string
	DeadlineDate *time.Time
	Priority     *Priority
	Status       *DeadlineStatus
}

// IsEmpty reports whether no field is supplied.
func (p DeadlinePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DeadlineDate == nil &&
		p.Priority == nil && p.Status == nil
}

// DeadlineStats aggregates per-user deadline counts.
type DeadlineStats struct {
	Total     int
	Upcoming  int
	Overdue   int
	Completed int
}

// Case is the minimal read-side view of a legal case used to enrich
// deadline timelines. Case management proper lives outside this core.
type Case struct {
	ID        string
	UserID    string
	Title     string
	Status    CaseStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly truncates t to midnight UTC, the canonical form for deadline dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
