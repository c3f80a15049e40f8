package service

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
)

type CaseService interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
}

type DeadlineService interface {
	Create(ctx context.Context, d *domain.Deadline) error
	GetByID(ctx context.Context, id string) (*domain.Deadline, error)
	ListByCase(ctx context.Context, caseID, userID string) ([]*domain.Deadline, error)
	ListByUser(ctx context.Context, userID string) ([]repository.TimelineEntry, error)
	ListUpcoming(ctx context.Context, userID string, limit int) ([]*domain.Deadline, error)
	ListOverdue(ctx context.Context, userID string) ([]*domain.Deadline, error)
	Update(ctx context.Context, id, userID string, patch domain.DeadlinePatch) (*domain.Deadline, error)
	MarkCompleted(ctx context.Context, id, userID string) (*domain.Deadline, error)
	MarkUpcoming(ctx context.Context, id, userID string) (*domain.Deadline, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	SweepOverdue(ctx context.Context) (int64, error)
	Stats(ctx context.Context, userID string) (*domain.DeadlineStats, error)
}

// NotificationFeed is the query surface consumed by an external notification
// scheduler. Delivery, batching, and retry live entirely with the consumer.
type NotificationFeed interface {
	ListDueWithinForUser(ctx context.Context, userID string, daysAhead int) ([]*domain.Deadline, error)
	ListDueWithin(ctx context.Context, daysAhead int) ([]*domain.Deadline, error)
}

type DependencyService interface {
	Create(ctx context.Context, d *domain.DeadlineDependency) error
	GetByID(ctx context.Context, id string) (*domain.DeadlineDependency, error)
	ListDependencies(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error)
	ListDependents(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error)
	Update(ctx context.Context, id string, patch domain.DependencyPatch) (*domain.DeadlineDependency, error)
	Delete(ctx context.Context, id string) (bool, error)
	WouldCreateCycle(ctx context.Context, sourceID, targetID string) (bool, error)
}

type GanttService interface {
	GetWithDependencies(ctx context.Context, id string) (*domain.DeadlineWithDependencies, error)
	ListByUserWithDependencies(ctx context.Context, userID string) ([]*domain.DeadlineWithDependencies, error)
	ListByCaseWithDependencies(ctx context.Context, caseID, userID string) ([]*domain.DeadlineWithDependencies, error)
}
