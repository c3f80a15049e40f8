package testutil

import (
	"time"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/google/uuid"
)

// Case options
type CaseOption func(*domain.Case)

func WithCaseStatus(s domain.CaseStatus) CaseOption {
	return func(c *domain.Case) {
		c.Status = s
	}
}

func WithCaseOwner(userID string) CaseOption {
	return func(c *domain.Case) {
		c.UserID = userID
	}
}

func NewTestCase(title string, opts ...CaseOption) *domain.Case {
	now := time.Now().UTC()
	c := &domain.Case{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		Title:     title,
		Status:    domain.CaseOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deadline options
type DeadlineOption func(*domain.Deadline)

func WithOwner(userID string) DeadlineOption {
	return func(d *domain.Deadline) {
		d.UserID = userID
	}
}

func WithDeadlineDate(t time.Time) DeadlineOption {
	return func(d *domain.Deadline) {
		d.DeadlineDate = domain.DateOnly(t)
	}
}

func WithPriority(p domain.Priority) DeadlineOption {
	return func(d *domain.Deadline) {
		d.Priority = p
	}
}

func WithStatus(s domain.DeadlineStatus) DeadlineOption {
	return func(d *domain.Deadline) {
		d.ApplyStatus(s, time.Now().UTC())
	}
}

func WithDescription(desc string) DeadlineOption {
	return func(d *domain.Deadline) {
		d.Description = desc
	}
}

// NewTestDeadline builds a deadline due a week from now, owned by user-1.
func NewTestDeadline(caseID, title string, opts ...DeadlineOption) *domain.Deadline {
	now := time.Now().UTC()
	d := &domain.Deadline{
		ID:           uuid.New().String(),
		CaseID:       caseID,
		UserID:       "user-1",
		Title:        title,
		DeadlineDate: domain.DateOnly(now.AddDate(0, 0, 7)),
		Priority:     domain.PriorityMedium,
		Status:       domain.DeadlineUpcoming,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dependency options
type DependencyOption func(*domain.DeadlineDependency)

func WithDependencyType(dt domain.DependencyType) DependencyOption {
	return func(d *domain.DeadlineDependency) {
		d.DependencyType = dt
	}
}

func WithLagDays(lag int) DependencyOption {
	return func(d *domain.DeadlineDependency) {
		d.LagDays = lag
	}
}

func WithCreatedBy(userID string) DependencyOption {
	return func(d *domain.DeadlineDependency) {
		d.CreatedBy = &userID
	}
}

// NewTestDependency builds a finish-to-start edge with no lag.
func NewTestDependency(sourceID, targetID string, opts ...DependencyOption) *domain.DeadlineDependency {
	d := &domain.DeadlineDependency{
		ID:               uuid.New().String(),
		SourceDeadlineID: sourceID,
		TargetDeadlineID: targetID,
		DependencyType:   domain.FinishToStart,
		LagDays:          0,
		CreatedAt:        time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
