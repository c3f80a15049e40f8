package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openMigratedDB(t)

	// Run migrations a second time; should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openMigratedDB(t)

	expected := []string{"cases", "deadlines", "deadline_dependencies"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openMigratedDB(t)

	expected := []string{
		"idx_cases_user",
		"idx_deadlines_case",
		"idx_deadlines_user_date",
		"idx_deadlines_status",
		"uq_deadline_dependencies_pair",
		"idx_deadline_dependencies_source",
		"idx_deadline_dependencies_target",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsCreatedByColumn(t *testing.T) {
	db := openMigratedDB(t)

	rows, err := db.Query(`PRAGMA table_info(deadline_dependencies)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk))
		if name == "created_by" {
			found = true
		}
	}
	require.NoError(t, rows.Err())
	assert.True(t, found, "created_by column should exist on deadline_dependencies")
}

func TestMigrate_EnforcesUniquePair(t *testing.T) {
	db := openMigratedDB(t)

	mustExec := func(query string, args ...any) {
		t.Helper()
		_, err := db.Exec(query, args...)
		require.NoError(t, err)
	}

	mustExec(`INSERT INTO cases (id, user_id, title, status, created_at, updated_at)
		VALUES ('c1', 'u1', 'Estate', 'open', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	mustExec(`INSERT INTO deadlines (id, case_id, user_id, title, deadline_date, created_at, updated_at)
		VALUES ('d1', 'c1', 'u1', 'File motion', '2026-02-01', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	mustExec(`INSERT INTO deadlines (id, case_id, user_id, title, deadline_date, created_at, updated_at)
		VALUES ('d2', 'c1', 'u1', 'Serve notice', '2026-02-10', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	mustExec(`INSERT INTO deadline_dependencies (id, source_deadline_id, target_deadline_id, created_at)
		VALUES ('e1', 'd1', 'd2', '2026-01-01T00:00:00Z')`)

	_, err := db.Exec(`INSERT INTO deadline_dependencies (id, source_deadline_id, target_deadline_id, created_at)
		VALUES ('e2', 'd1', 'd2', '2026-01-01T00:00:00Z')`)
	require.Error(t, err, "duplicate (source, target) pair should violate the unique index")
}
