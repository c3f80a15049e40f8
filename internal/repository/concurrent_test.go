package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that timeline reads stay
// consistent while deadlines are being inserted. SQLite WAL mode allows
// concurrent readers with a single writer, which is the normal operating mode
// here (single-user CLI with occasional writes).
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	caseRepo := NewSQLiteCaseRepo(database)
	dlRepo := NewSQLiteDeadlineRepo(database)

	c := testutil.NewTestCase("ReadWrite")
	require.NoError(t, caseRepo.Create(ctx, c))

	var wg sync.WaitGroup

	// Writer goroutine: create 20 deadlines sequentially.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			d := testutil.NewTestDeadline(c.ID, fmt.Sprintf("Deadline-%d", i))
			if err := dlRepo.Create(ctx, d); err != nil {
				t.Errorf("writer: create deadline %d: %v", i, err)
				return
			}
		}
	}()

	// Reader goroutines: repeatedly list the timeline while writes happen.
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				entries, err := dlRepo.ListByUser(ctx, "user-1")
				if err != nil {
					t.Errorf("reader %d: list by user: %v", reader, err)
					return
				}
				// Entries should be a consistent snapshot (not half-written).
				for _, e := range entries {
					if e.Deadline.ID == "" || e.CaseTitle == "" {
						t.Errorf("reader %d: got entry with empty fields", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	entries, err := dlRepo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}
