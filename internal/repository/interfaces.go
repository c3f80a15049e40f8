package repository

import (
	"context"
	"time"

	"github.com/docketlabs/docket/internal/domain"
)

// TimelineEntry is a joined view of a deadline with its case context, used to
// render a user's combined timeline across cases.
type TimelineEntry struct {
	Deadline   domain.Deadline
	CaseTitle  string
	CaseStatus domain.CaseStatus
}

type CaseRepo interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
}

type DeadlineRepo interface {
	Create(ctx context.Context, d *domain.Deadline) error
	GetByID(ctx context.Context, id string) (*domain.Deadline, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Deadline, error)
	ListByCase(ctx context.Context, caseID, userID string) ([]*domain.Deadline, error)
	ListByUser(ctx context.Context, userID string) ([]TimelineEntry, error)
	ListUpcoming(ctx context.Context, userID string, limit int) ([]*domain.Deadline, error)
	ListOverdue(ctx context.Context, userID string) ([]*domain.Deadline, error)
	Update(ctx context.Context, d *domain.Deadline) (bool, error)
	SoftDelete(ctx context.Context, id, userID string, now time.Time) (bool, error)
	MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, userID string) (*domain.DeadlineStats, error)
	ListDueWithinForUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.Deadline, error)
	ListDueWithin(ctx context.Context, from, to time.Time) ([]*domain.Deadline, error)
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.DeadlineDependency) error
	GetByID(ctx context.Context, id string) (*domain.DeadlineDependency, error)
	ListBySource(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error)
	ListByTarget(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error)
	ListForDeadlines(ctx context.Context, deadlineIDs []string) ([]domain.DeadlineDependency, error)
	ListSuccessorIDs(ctx context.Context, deadlineIDs []string) ([]string, error)
	PairExists(ctx context.Context, sourceID, targetID string) (bool, error)
	Update(ctx context.Context, d *domain.DeadlineDependency) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteForDeadline(ctx context.Context, deadlineID string) (int64, error)
}
