package service

import (
	"context"
	"log/slog"
)

// OverdueSweeper wraps the batch overdue promotion for an external timer.
// Correctness rests on date-only comparison: a deadline becomes overdue the
// day after its deadline date, regardless of time of day.
type OverdueSweeper struct {
	deadlines DeadlineService
	logger    *slog.Logger
}

// NewOverdueSweeper creates a sweeper. A nil logger disables logging.
func NewOverdueSweeper(deadlines DeadlineService, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{deadlines: deadlines, logger: logger}
}

// Run performs one sweep and returns the number of deadlines promoted to
// overdue. Idempotent: a second run with no newly stale deadlines returns 0.
func (s *OverdueSweeper) Run(ctx context.Context) (int64, error) {
	n, err := s.deadlines.SweepOverdue(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "overdue sweep failed", "error", err)
		}
		return 0, err
	}
	if n > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "overdue sweep completed", "marked_overdue", n)
	}
	return n, nil
}
