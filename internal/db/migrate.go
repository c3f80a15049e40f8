package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. The statement list is append-only and
// every statement is idempotent, so re-running the full list on an existing
// database is safe.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS cases (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'open'
		           CHECK(status IN ('open','pending','closed','archived')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cases_user ON cases(user_id)`,

	`CREATE TABLE IF NOT EXISTS deadlines (
		id            TEXT PRIMARY KEY,
		case_id       TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
		user_id       TEXT NOT NULL,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		deadline_date TEXT NOT NULL,
		priority      TEXT NOT NULL DEFAULT 'medium'
		              CHECK(priority IN ('low','medium','high')),
		status        TEXT NOT NULL DEFAULT 'upcoming'
		              CHECK(status IN ('upcoming','overdue','completed')),
		completed_at  TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		deleted_at    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deadlines_case ON deadlines(case_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deadlines_user_date ON deadlines(user_id, deadline_date)`,
	`CREATE INDEX IF NOT EXISTS idx_deadlines_status ON deadlines(status)`,

	`CREATE TABLE IF NOT EXISTS deadline_dependencies (
		id                 TEXT PRIMARY KEY,
		source_deadline_id TEXT NOT NULL REFERENCES deadlines(id) ON DELETE CASCADE,
		target_deadline_id TEXT NOT NULL REFERENCES deadlines(id) ON DELETE CASCADE,
		dependency_type    TEXT NOT NULL DEFAULT 'finish_to_start'
		                   CHECK(dependency_type IN
		                     ('finish_to_start','start_to_start','finish_to_finish','start_to_finish')),
		lag_days           INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL
	)`,

	// One edge per ordered pair; retyping an existing relationship is an
	// update, not a second edge.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_deadline_dependencies_pair
		ON deadline_dependencies(source_deadline_id, target_deadline_id)`,

	`CREATE INDEX IF NOT EXISTS idx_deadline_dependencies_source ON deadline_dependencies(source_deadline_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deadline_dependencies_target ON deadline_dependencies(target_deadline_id)`,

	// Record the acting user on edges for audit trails.
	`ALTER TABLE deadline_dependencies ADD COLUMN created_by TEXT`,
}
