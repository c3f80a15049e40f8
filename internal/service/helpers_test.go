package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/docketlabs/docket/internal/testutil"
	"github.com/stretchr/testify/require"
)

// recordingSink captures audit events for assertions.
type recordingSink struct {
	events []AuditEvent
}

func (r *recordingSink) Log(_ context.Context, event AuditEvent) {
	r.events = append(r.events, event)
}

func (r *recordingSink) actions() []string {
	actions := make([]string, len(r.events))
	for i, e := range r.events {
		actions[i] = e.Action
	}
	return actions
}

func (r *recordingSink) reset() {
	r.events = nil
}

// panickingSink simulates a broken audit collaborator.
type panickingSink struct{}

func (panickingSink) Log(context.Context, AuditEvent) {
	panic("audit sink is down")
}

// svcEnv wires an in-memory database with the full service stack.
type svcEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	sink      *recordingSink
	caseRepo  repository.CaseRepo
	dlRepo    repository.DeadlineRepo
	depRepo   repository.DependencyRepo
	cases     CaseService
	deadlines DeadlineService
	deps      DependencyService
	gantt     GanttService
}

func newSvcEnv(t *testing.T) *svcEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	sink := &recordingSink{}

	caseRepo := repository.NewSQLiteCaseRepo(database)
	dlRepo := repository.NewSQLiteDeadlineRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	return &svcEnv{
		db:        database,
		uow:       uow,
		sink:      sink,
		caseRepo:  caseRepo,
		dlRepo:    dlRepo,
		depRepo:   depRepo,
		cases:     NewCaseService(caseRepo),
		deadlines: NewDeadlineService(dlRepo, uow, sink),
		deps:      NewDependencyService(depRepo, uow, sink),
		gantt:     NewGanttService(dlRepo, depRepo),
	}
}

// seedCase inserts a case through the repo, bypassing service defaults.
func (e *svcEnv) seedCase(t *testing.T, opts ...testutil.CaseOption) *domain.Case {
	t.Helper()
	c := testutil.NewTestCase("Seeded case", opts...)
	require.NoError(t, e.caseRepo.Create(context.Background(), c))
	return c
}

// seedDeadline inserts a deadline fixture directly through the repo.
func (e *svcEnv) seedDeadline(t *testing.T, caseID, title string, opts ...testutil.DeadlineOption) *domain.Deadline {
	t.Helper()
	d := testutil.NewTestDeadline(caseID, title, opts...)
	require.NoError(t, e.dlRepo.Create(context.Background(), d))
	return d
}
