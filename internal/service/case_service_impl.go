package service

import (
	"context"
	"time"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/google/uuid"
)

type caseService struct {
	cases repository.CaseRepo
}

// NewCaseService creates the minimal case collaborator used to seed cases and
// serve the title/status read-join. Case management proper is out of scope.
func NewCaseService(cases repository.CaseRepo) CaseService {
	return &caseService{cases: cases}
}

func (s *caseService) Create(ctx context.Context, c *domain.Case) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = domain.CaseOpen
	}
	return s.cases.Create(ctx, c)
}

func (s *caseService) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	return s.cases.GetByID(ctx, id)
}
