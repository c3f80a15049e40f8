package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/google/uuid"
)

const defaultUpcomingLimit = 10

type deadlineService struct {
	deadlines repository.DeadlineRepo
	uow       db.UnitOfWork
	audit     AuditSink
}

// NewDeadlineService creates the deadline store. The unit of work is used for
// the soft-delete path, which removes dependency edges in the same transaction.
func NewDeadlineService(deadlines repository.DeadlineRepo, uow db.UnitOfWork, audit AuditSink) DeadlineService {
	return &deadlineService{deadlines: deadlines, uow: uow, audit: audit}
}

func (s *deadlineService) Create(ctx context.Context, d *domain.Deadline) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.DeadlineDate = domain.DateOnly(d.DeadlineDate)
	if d.Priority == "" {
		d.Priority = domain.PriorityMedium
	}
	if d.Status == "" {
		d.Status = domain.DeadlineUpcoming
	}
	if err := s.deadlines.Create(ctx, d); err != nil {
		return err
	}

	emitAudit(ctx, s.audit, AuditEvent{
		Action:   "deadline.created",
		EntityID: d.ID,
		Actor:    d.UserID,
		Fields: map[string]any{
			"case_id":       d.CaseID,
			"title":         d.Title,
			"deadline_date": d.DeadlineDate.Format("2006-01-02"),
		},
	})
	return nil
}

func (s *deadlineService) GetByID(ctx context.Context, id string) (*domain.Deadline, error) {
	return s.deadlines.GetByID(ctx, id)
}

func (s *deadlineService) ListByCase(ctx context.Context, caseID, userID string) ([]*domain.Deadline, error) {
	return s.deadlines.ListByCase(ctx, caseID, userID)
}

func (s *deadlineService) ListByUser(ctx context.Context, userID string) ([]repository.TimelineEntry, error) {
	return s.deadlines.ListByUser(ctx, userID)
}

func (s *deadlineService) ListUpcoming(ctx context.Context, userID string, limit int) ([]*domain.Deadline, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	return s.deadlines.ListUpcoming(ctx, userID, limit)
}

func (s *deadlineService) ListOverdue(ctx context.Context, userID string) ([]*domain.Deadline, error) {
	return s.deadlines.ListOverdue(ctx, userID)
}

// Update applies a partial patch on behalf of userID. A patch that changes
// nothing is a no-op: UpdatedAt keeps its value and no audit event is emitted.
// Missing, tombstoned, and foreign rows are indistinguishable (ErrNotFound).
func (s *deadlineService) Update(ctx context.Context, id, userID string, patch domain.DeadlinePatch) (*domain.Deadline, error) {
	d, err := s.deadlines.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return d, nil
	}

	now := time.Now().UTC()
	var changed []string

	if patch.Title != nil && *patch.Title != d.Title {
		d.Title = *patch.Title
		changed = append(changed, "title")
	}
	if patch.Description != nil && *patch.Description != d.Description {
		d.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.DeadlineDate != nil {
		date := domain.DateOnly(*patch.DeadlineDate)
		if !date.Equal(d.DeadlineDate) {
			d.DeadlineDate = date
			changed = append(changed, "deadline_date")
		}
	}
	if patch.Priority != nil && *patch.Priority != d.Priority {
		d.Priority = *patch.Priority
		changed = append(changed, "priority")
	}
	if patch.Status != nil && *patch.Status != d.Status {
		d.ApplyStatus(*patch.Status, now)
		changed = append(changed, "status")
	}

	if len(changed) == 0 {
		return d, nil
	}

	d.UpdatedAt = now
	ok, err := s.deadlines.Update(ctx, d)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Row vanished between read and write (concurrent delete).
		return nil, fmt.Errorf("deadline: %w", repository.ErrNotFound)
	}

	emitAudit(ctx, s.audit, AuditEvent{
		Action:   "deadline.updated",
		EntityID: d.ID,
		Actor:    userID,
		Fields:   map[string]any{"changed": strings.Join(changed, ",")},
	})
	return d, nil
}

func (s *deadlineService) MarkCompleted(ctx context.Context, id, userID string) (*domain.Deadline, error) {
	status := domain.DeadlineCompleted
	return s.Update(ctx, id, userID, domain.DeadlinePatch{Status: &status})
}

func (s *deadlineService) MarkUpcoming(ctx context.Context, id, userID string) (*domain.Deadline, error) {
	status := domain.DeadlineUpcoming
	return s.Update(ctx, id, userID, domain.DeadlinePatch{Status: &status})
}

// Delete tombstones the deadline and removes every dependency edge touching
// it, atomically. Returns false when the row is absent, already deleted, or
// owned by someone else.
func (s *deadlineService) Delete(ctx context.Context, id, userID string) (bool, error) {
	var deleted bool
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeadlines := repository.NewSQLiteDeadlineRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		ok, err := txDeadlines.SoftDelete(ctx, id, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if _, err := txDeps.DeleteForDeadline(ctx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		emitAudit(ctx, s.audit, AuditEvent{
			Action:   "deadline.deleted",
			EntityID: id,
			Actor:    userID,
		})
	}
	return deleted, nil
}

// SweepOverdue promotes every live upcoming deadline dated before today to
// overdue in one statement and returns the number of rows changed.
func (s *deadlineService) SweepOverdue(ctx context.Context) (int64, error) {
	today := domain.DateOnly(time.Now().UTC())
	n, err := s.deadlines.MarkOverdueBefore(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		emitAudit(ctx, s.audit, AuditEvent{
			Action: "deadline.sweep",
			Fields: map[string]any{"marked_overdue": n},
		})
	}
	return n, nil
}

func (s *deadlineService) Stats(ctx context.Context, userID string) (*domain.DeadlineStats, error) {
	return s.deadlines.Stats(ctx, userID)
}

// ListDueWithinForUser returns the user's non-completed deadlines due in the
// inclusive window [today, today+daysAhead].
func (s *deadlineService) ListDueWithinForUser(ctx context.Context, userID string, daysAhead int) ([]*domain.Deadline, error) {
	from, to := dueWindow(daysAhead)
	return s.deadlines.ListDueWithinForUser(ctx, userID, from, to)
}

// ListDueWithin is the system-wide variant, with no user scoping.
func (s *deadlineService) ListDueWithin(ctx context.Context, daysAhead int) ([]*domain.Deadline, error) {
	from, to := dueWindow(daysAhead)
	return s.deadlines.ListDueWithin(ctx, from, to)
}

func dueWindow(daysAhead int) (time.Time, time.Time) {
	if daysAhead < 0 {
		daysAhead = 0
	}
	from := domain.DateOnly(time.Now().UTC())
	return from, from.AddDate(0, 0, daysAhead)
}

// Compile-time verification that the deadline service doubles as the feed.
var _ NotificationFeed = (*deadlineService)(nil)
