package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/docketlabs/docket/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDependencyService_ConcurrentCycleRace races two edge inserts whose
// combination would close a cycle. The acyclicity check runs inside each
// insert's transaction, so at most one of the two may land.
func TestDependencyService_ConcurrentCycleRace(t *testing.T) {
	dir := t.TempDir()
	database, err := db.OpenDB(filepath.Join(dir, "race_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)
	caseRepo := repository.NewSQLiteCaseRepo(database)
	dlRepo := repository.NewSQLiteDeadlineRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	svc := NewDependencyService(depRepo, uow, NoopAuditSink{})

	c := testutil.NewTestCase("Race")
	require.NoError(t, caseRepo.Create(ctx, c))
	a := testutil.NewTestDeadline(c.ID, "A")
	require.NoError(t, dlRepo.Create(ctx, a))
	b := testutil.NewTestDeadline(c.ID, "B")
	require.NoError(t, dlRepo.Create(ctx, b))

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = svc.Create(ctx, &domain.DeadlineDependency{
			SourceDeadlineID: a.ID, TargetDeadlineID: b.ID,
		})
	}()
	go func() {
		defer wg.Done()
		errs[1] = svc.Create(ctx, &domain.DeadlineDependency{
			SourceDeadlineID: b.ID, TargetDeadlineID: a.ID,
		})
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.LessOrEqual(t, succeeded, 1, "both inserts landing would close a cycle")

	// Whatever happened, the stored graph must not contain both edges.
	ab, err := depRepo.PairExists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	ba, err := depRepo.PairExists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ab && ba, "graph must stay acyclic")
}
