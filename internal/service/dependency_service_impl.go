package service

import (
	"context"
	"strings"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/google/uuid"
)

type dependencyService struct {
	deps  repository.DependencyRepo
	uow   db.UnitOfWork
	audit AuditSink
}

// NewDependencyService creates the dependency graph manager. Edge creation
// re-verifies acyclicity inside a transaction, so two concurrent inserts
// cannot jointly close a cycle.
func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork, audit AuditSink) DependencyService {
	return &dependencyService{deps: deps, uow: uow, audit: audit}
}

func (s *dependencyService) Create(ctx context.Context, d *domain.DeadlineDependency) error {
	if d.SourceDeadlineID == d.TargetDeadlineID {
		return ErrSelfDependency
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DependencyType == "" {
		d.DependencyType = domain.FinishToStart
	}
	d.CreatedAt = time.Now().UTC()

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeadlines := repository.NewSQLiteDeadlineRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		// Both endpoints must exist and be live.
		if _, err := txDeadlines.GetByID(ctx, d.SourceDeadlineID); err != nil {
			return err
		}
		if _, err := txDeadlines.GetByID(ctx, d.TargetDeadlineID); err != nil {
			return err
		}

		exists, err := txDeps.PairExists(ctx, d.SourceDeadlineID, d.TargetDeadlineID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateDependency
		}

		cyclic, err := wouldCreateCycle(ctx, txDeps, d.SourceDeadlineID, d.TargetDeadlineID)
		if err != nil {
			return err
		}
		if cyclic {
			return ErrCycle
		}

		return txDeps.Create(ctx, d)
	})
	if err != nil {
		return err
	}

	actor := ""
	if d.CreatedBy != nil {
		actor = *d.CreatedBy
	}
	emitAudit(ctx, s.audit, AuditEvent{
		Action:   "dependency.created",
		EntityID: d.ID,
		Actor:    actor,
		Fields: map[string]any{
			"source":          d.SourceDeadlineID,
			"target":          d.TargetDeadlineID,
			"dependency_type": string(d.DependencyType),
		},
	})
	return nil
}

func (s *dependencyService) GetByID(ctx context.Context, id string) (*domain.DeadlineDependency, error) {
	return s.deps.GetByID(ctx, id)
}

func (s *dependencyService) ListDependencies(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error) {
	return s.deps.ListBySource(ctx, deadlineID)
}

func (s *dependencyService) ListDependents(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error) {
	return s.deps.ListByTarget(ctx, deadlineID)
}

// Update mutates only the edge attributes; endpoints are immutable. An empty
// or no-change patch returns the stored edge untouched with no audit event.
func (s *dependencyService) Update(ctx context.Context, id string, patch domain.DependencyPatch) (*domain.DeadlineDependency, error) {
	d, err := s.deps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return d, nil
	}

	var changed []string
	if patch.DependencyType != nil && *patch.DependencyType != d.DependencyType {
		d.DependencyType = *patch.DependencyType
		changed = append(changed, "dependency_type")
	}
	if patch.LagDays != nil && *patch.LagDays != d.LagDays {
		d.LagDays = *patch.LagDays
		changed = append(changed, "lag_days")
	}
	if len(changed) == 0 {
		return d, nil
	}

	if err := s.deps.Update(ctx, d); err != nil {
		return nil, err
	}

	emitAudit(ctx, s.audit, AuditEvent{
		Action:   "dependency.updated",
		EntityID: d.ID,
		Fields:   map[string]any{"changed": strings.Join(changed, ",")},
	})
	return d, nil
}

// Delete hard-deletes the edge. Idempotent: a second delete returns false.
func (s *dependencyService) Delete(ctx context.Context, id string) (bool, error) {
	d, err := s.deps.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	ok, err := s.deps.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}

	emitAudit(ctx, s.audit, AuditEvent{
		Action:   "dependency.deleted",
		EntityID: id,
		Fields: map[string]any{
			"source": d.SourceDeadlineID,
			"target": d.TargetDeadlineID,
		},
	})
	return true, nil
}

// WouldCreateCycle reports whether inserting source → target would close a
// cycle, without inserting anything. Create performs the same check again
// under its transaction; this method exists for advisory pre-checks.
func (s *dependencyService) WouldCreateCycle(ctx context.Context, sourceID, targetID string) (bool, error) {
	if sourceID == targetID {
		return true, nil
	}
	return wouldCreateCycle(ctx, s.deps, sourceID, targetID)
}

// wouldCreateCycle walks the forward-reachable set from targetID over the
// existing edges, one frontier level per query. The proposed edge closes a
// cycle iff sourceID is reachable. Terminates because the existing graph is
// acyclic, bounding visits by the deadline count.
func wouldCreateCycle(ctx context.Context, deps repository.DependencyRepo, sourceID, targetID string) (bool, error) {
	visited := map[string]bool{targetID: true}
	frontier := []string{targetID}

	for len(frontier) > 0 {
		successors, err := deps.ListSuccessorIDs(ctx, frontier)
		if err != nil {
			return false, err
		}
		frontier = frontier[:0]
		for _, id := range successors {
			if id == sourceID {
				return true, nil
			}
			if !visited[id] {
				visited[id] = true
				frontier = append(frontier, id)
			}
		}
	}
	return false, nil
}
