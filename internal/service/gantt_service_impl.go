package service

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
)

type ganttService struct {
	deadlines repository.DeadlineRepo
	deps      repository.DependencyRepo
}

// NewGanttService creates the read-only timeline assembler.
func NewGanttService(deadlines repository.DeadlineRepo, deps repository.DependencyRepo) GanttService {
	return &ganttService{deadlines: deadlines, deps: deps}
}

func (s *ganttService) GetWithDependencies(ctx context.Context, id string) (*domain.DeadlineWithDependencies, error) {
	d, err := s.deadlines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	outgoing, err := s.deps.ListBySource(ctx, id)
	if err != nil {
		return nil, err
	}
	incoming, err := s.deps.ListByTarget(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.DeadlineWithDependencies{
		Deadline:     d,
		Dependencies: outgoing,
		Dependents:   incoming,
	}, nil
}

func (s *ganttService) ListByUserWithDependencies(ctx context.Context, userID string) ([]*domain.DeadlineWithDependencies, error) {
	entries, err := s.deadlines.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	deadlines := make([]*domain.Deadline, len(entries))
	for i := range entries {
		d := entries[i].Deadline
		deadlines[i] = &d
	}
	return s.assemble(ctx, deadlines)
}

func (s *ganttService) ListByCaseWithDependencies(ctx context.Context, caseID, userID string) ([]*domain.DeadlineWithDependencies, error) {
	deadlines, err := s.deadlines.ListByCase(ctx, caseID, userID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, deadlines)
}

// assemble joins the deadline set with its edges using one batched edge query
// and in-memory grouping, rather than a lookup pair per deadline.
func (s *ganttService) assemble(ctx context.Context, deadlines []*domain.Deadline) ([]*domain.DeadlineWithDependencies, error) {
	views := make([]*domain.DeadlineWithDependencies, len(deadlines))
	if len(deadlines) == 0 {
		return views, nil
	}

	ids := make([]string, len(deadlines))
	byID := make(map[string]*domain.DeadlineWithDependencies, len(deadlines))
	for i, d := range deadlines {
		ids[i] = d.ID
		views[i] = &domain.DeadlineWithDependencies{Deadline: d}
		byID[d.ID] = views[i]
	}

	edges, err := s.deps.ListForDeadlines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		if v, ok := byID[edge.SourceDeadlineID]; ok {
			v.Dependencies = append(v.Dependencies, edge)
		}
		if v, ok := byID[edge.TargetDeadlineID]; ok {
			v.Dependents = append(v.Dependents, edge)
		}
	}
	return views, nil
}
