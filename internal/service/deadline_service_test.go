package service

import (
	"context"
	"testing"
	"time"

	"github.com/docketlabs/docket/internal/domain"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/docketlabs/docket/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineService_Create_AppliesDefaults(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)

	d := &domain.Deadline{
		CaseID:       c.ID,
		UserID:       "user-1",
		Title:        "File answer",
		DeadlineDate: time.Date(2026, 9, 30, 15, 42, 0, 0, time.UTC),
	}
	require.NoError(t, env.deadlines.Create(ctx, d))

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, domain.PriorityMedium, d.Priority)
	assert.Equal(t, domain.DeadlineUpcoming, d.Status)
	assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), d.DeadlineDate,
		"deadline dates are stored date-only")

	require.Len(t, env.sink.events, 1)
	event := env.sink.events[0]
	assert.Equal(t, "deadline.created", event.Action)
	assert.Equal(t, d.ID, event.EntityID)
	assert.Equal(t, "user-1", event.Actor)
	assert.Equal(t, "File answer", event.Fields["title"])
	assert.NotContains(t, event.Fields, "description", "audit events never carry free text")
}

func TestDeadlineService_Create_RejectsEmptyTitle(t *testing.T) {
	env := newSvcEnv(t)
	c := env.seedCase(t)

	err := env.deadlines.Create(context.Background(), &domain.Deadline{
		CaseID: c.ID, UserID: "user-1", Title: "   ",
		DeadlineDate: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, env.sink.events)
}

func TestDeadlineService_Update_PartialPatch(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)
	d := env.seedDeadline(t, c.ID, "Draft motion", testutil.WithDescription("first draft"))

	title := "Draft and file motion"
	priority := domain.PriorityHigh
	got, err := env.deadlines.Update(ctx, d.ID, "user-1", domain.DeadlinePatch{
		Title:    &title,
		Priority: &priority,
	})
	require.NoError(t, err)
	assert.Equal(t, "Draft and file motion", got.Title)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, "first draft", got.Description, "unsupplied fields keep their value")

	require.Len(t, env.sink.events, 1)
	assert.Equal(t, "deadline.updated", env.sink.events[0].Action)
	assert.Equal(t, "title,priority", env.sink.events[0].Fields["changed"])
}

func TestDeadlineService_Update_NoOp(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)
	d := env.seedDeadline(t, c.ID, "Settled matter")

	before, err := env.dlRepo.GetByID(ctx, d.ID)
	require.NoError(t, err)

	// Empty patch.
	_, err = env.deadlines.Update(ctx, d.ID, "user-1", domain.DeadlinePatch{})
	require.NoError(t, err)

	// Patch supplying only identical values.
	sameTitle := d.Title
	samePriority := d.Priority
	_, err = env.deadlines.Update(ctx, d.ID, "user-1", domain.DeadlinePatch{
		Title:    &sameTitle,
		Priority: &samePriority,
	})
	require.NoError(t, err)

	after, err := env.dlRepo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt), "no-op must not bump updated_at")
	assert.Empty(t, env.sink.events, "no-op must not emit audit events")
}

func TestDeadlineService_Update_CompletedAtLifecycle(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)
	d := env.seedDeadline(t, c.ID, "Serve subpoena")

	done, err := env.deadlines.MarkCompleted(ctx, d.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DeadlineCompleted, done.Status)
	require.NotNil(t, done.CompletedAt, "completing stamps completed_at")

	reopened, err := env.deadlines.MarkUpcoming(ctx, d.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DeadlineUpcoming, reopened.Status)
	assert.Nil(t, reopened.CompletedAt, "reopening clears completed_at")

	// Persisted state agrees.
	got, err := env.dlRepo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompletedAt)
}

func TestDeadlineService_Update_WrongUser(t *testing.T) {
	env := newSvcEnv(t)
	c := env.seedCase(t)
	d := env.seedDeadline(t, c.ID, "Private deadline")

	title := "Hijacked"
	_, err := env.deadlines.Update(context.Background(), d.ID, "intruder", domain.DeadlinePatch{Title: &title})
	assert.ErrorIs(t, err, repository.ErrNotFound,
		"foreign rows are indistinguishable from missing rows")
	assert.Empty(t, env.sink.events)
}

func TestDeadlineService_Delete_RemovesEdges(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)
	a := env.seedDeadline(t, c.ID, "A")
	b := env.seedDeadline(t, c.ID, "B")
	require.NoError(t, env.depRepo.Create(ctx, testutil.NewTestDependency(a.ID, b.ID)))

	ok, err := env.deadlines.Delete(ctx, a.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.dlRepo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	edges, err := env.depRepo.ListByTarget(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, edges, "edges touching a deleted deadline are removed with it")

	// Second delete is a no-op.
	ok, err = env.deadlines.Delete(ctx, a.ID, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"deadline.deleted"}, env.sink.actions())
}

func TestDeadlineService_Delete_WrongUser(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)
	d := env.seedDeadline(t, c.ID, "Not yours")

	ok, err := env.deadlines.Delete(ctx, d.ID, "intruder")
	require.NoError(t, err)
	assert.False(t, ok)

	// Still present for its owner.
	_, err = env.dlRepo.GetOwned(ctx, d.ID, "user-1")
	assert.NoError(t, err)
	assert.Empty(t, env.sink.events)
}

func TestDeadlineService_Delete_RollsBackOnEdgeFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	sink := &recordingSink{}
	dlRepo := repository.NewSQLiteDeadlineRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	caseRepo := repository.NewSQLiteCaseRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCase("Rollback")
	require.NoError(t, caseRepo.Create(ctx, c))
	d := testutil.NewTestDeadline(c.ID, "Survivor")
	require.NoError(t, dlRepo.Create(ctx, d))
	other := testutil.NewTestDeadline(c.ID, "Other")
	require.NoError(t, dlRepo.Create(ctx, other))
	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(d.ID, other.ID)))

	// Fail the second write in the transaction (the edge cleanup).
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: assert.AnError}
	svc := NewDeadlineService(dlRepo, uow, sink)

	_, err := svc.Delete(ctx, d.ID, "user-1")
	require.Error(t, err)

	// The soft delete must have been rolled back with the edge cleanup.
	_, err = dlRepo.GetByID(ctx, d.ID)
	assert.NoError(t, err, "deadline must survive a failed cascade")
	edges, err := depRepo.ListBySource(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
	assert.Empty(t, sink.events)
}

func TestDeadlineService_SweepOverdue(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	env.seedDeadline(t, c.ID, "Missed", testutil.WithDeadlineDate(yesterday))
	env.seedDeadline(t, c.ID, "Future")

	n, err := env.deadlines.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	overdue, err := env.deadlines.ListOverdue(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Missed", overdue[0].Title)

	// Nothing newly stale: second sweep reports zero and stays quiet.
	env.sink.reset()
	n, err = env.deadlines.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.Empty(t, env.sink.events)
}

func TestDeadlineService_ListUpcoming_DefaultLimit(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)

	base := domain.DateOnly(time.Now().UTC()).AddDate(0, 0, 1)
	for i := 0; i < 12; i++ {
		env.seedDeadline(t, c.ID, "Upcoming", testutil.WithDeadlineDate(base.AddDate(0, 0, i)))
	}

	got, err := env.deadlines.ListUpcoming(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 10, "zero limit falls back to the default of 10")
}

func TestDeadlineService_NotificationFeed(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)

	today := domain.DateOnly(time.Now().UTC())
	env.seedDeadline(t, c.ID, "Due tomorrow", testutil.WithDeadlineDate(today.AddDate(0, 0, 1)))
	env.seedDeadline(t, c.ID, "Far out", testutil.WithDeadlineDate(today.AddDate(0, 0, 30)))
	env.seedDeadline(t, c.ID, "Done", testutil.WithDeadlineDate(today.AddDate(0, 0, 1)),
		testutil.WithStatus(domain.DeadlineCompleted))
	env.seedDeadline(t, c.ID, "Someone else's", testutil.WithDeadlineDate(today.AddDate(0, 0, 2)),
		testutil.WithOwner("user-2"))

	feed, ok := env.deadlines.(NotificationFeed)
	require.True(t, ok, "deadline service must expose the notification feed")

	mine, err := feed.ListDueWithinForUser(ctx, "user-1", 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Due tomorrow", mine[0].Title)

	all, err := feed.ListDueWithin(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, all, 2, "system-wide feed ignores user scoping")
}

func TestDeadlineService_Stats(t *testing.T) {
	env := newSvcEnv(t)
	ctx := context.Background()
	c := env.seedCase(t)

	env.seedDeadline(t, c.ID, "U1")
	env.seedDeadline(t, c.ID, "O1", testutil.WithStatus(domain.DeadlineOverdue))
	env.seedDeadline(t, c.ID, "C1", testutil.WithStatus(domain.DeadlineCompleted))

	stats, err := env.deadlines.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.DeadlineStats{Total: 3, Upcoming: 1, Overdue: 1, Completed: 1}, stats)
}
