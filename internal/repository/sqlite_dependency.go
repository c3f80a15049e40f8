package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
)

// dependencyColumns is the canonical SELECT column list for deadline_dependencies.
const dependencyColumns = `id, source_deadline_id, target_deadline_id,
		dependency_type, lag_days, created_by, created_at`

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
// Edges are hard-deleted, unlike deadlines, so no tombstone predicate applies.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(db db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: db}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.DeadlineDependency) error {
	query := `INSERT INTO deadline_dependencies
		(id, source_deadline_id, target_deadline_id, dependency_type, lag_days, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.SourceDeadlineID,
		d.TargetDeadlineID,
		string(d.DependencyType),
		d.LagDays,
		nullableStrToValue(d.CreatedBy),
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.DeadlineDependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM deadline_dependencies WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanDependency(row)
}

func (r *SQLiteDependencyRepo) ListBySource(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM deadline_dependencies WHERE source_deadline_id = ?`
	rows, err := r.db.QueryContext(ctx, query, deadlineID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies by source: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListByTarget(ctx context.Context, deadlineID string) ([]domain.DeadlineDependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM deadline_dependencies WHERE target_deadline_id = ?`
	rows, err := r.db.QueryContext(ctx, query, deadlineID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies by target: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

// ListForDeadlines returns every edge touching any of the given deadline ids,
// as source or as target, in one query. Used by the timeline assembler to
// avoid per-deadline lookups.
func (r *SQLiteDependencyRepo) ListForDeadlines(ctx context.Context, deadlineIDs []string) ([]domain.DeadlineDependency, error) {
	if len(deadlineIDs) == 0 {
		return nil, nil
	}
	placeholders := sqlPlaceholders(len(deadlineIDs))
	query := `SELECT ` + dependencyColumns + ` FROM deadline_dependencies
		WHERE source_deadline_id IN (` + placeholders + `)
		   OR target_deadline_id IN (` + placeholders + `)`

	args := make([]any, 0, len(deadlineIDs)*2)
	for _, id := range deadlineIDs {
		args = append(args, id)
	}
	for _, id := range deadlineIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies for deadlines: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

// ListSuccessorIDs returns the distinct direct successors of the given
// deadline ids: targets of every outgoing edge whose source is in the set.
// One frontier level of a reachability traversal.
func (r *SQLiteDependencyRepo) ListSuccessorIDs(ctx context.Context, deadlineIDs []string) ([]string, error) {
	if len(deadlineIDs) == 0 {
		return nil, nil
	}
	query := `SELECT DISTINCT target_deadline_id FROM deadline_dependencies
		WHERE source_deadline_id IN (` + sqlPlaceholders(len(deadlineIDs)) + `)`

	args := make([]any, len(deadlineIDs))
	for i, id := range deadlineIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing successor ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning successor id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating successor ids: %w", err)
	}
	return ids, nil
}

func (r *SQLiteDependencyRepo) PairExists(ctx context.Context, sourceID, targetID string) (bool, error) {
	query := `SELECT COUNT(*) FROM deadline_dependencies
		WHERE source_deadline_id = ? AND target_deadline_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, sourceID, targetID).Scan(&count); err != nil {
		return false, fmt.Errorf("checking dependency pair: %w", err)
	}
	return count > 0, nil
}

// Update rewrites only the mutable edge attributes; endpoints never change.
func (r *SQLiteDependencyRepo) Update(ctx context.Context, d *domain.DeadlineDependency) error {
	query := `UPDATE deadline_dependencies SET dependency_type = ?, lag_days = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(d.DependencyType), d.LagDays, d.ID)
	if err != nil {
		return fmt.Errorf("updating dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM deadline_dependencies WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("deleting dependency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted dependencies: %w", err)
	}
	return n > 0, nil
}

// DeleteForDeadline removes every edge touching the given deadline, in either
// direction. Invoked when a deadline is soft-deleted so the graph never
// references a tombstoned node.
func (r *SQLiteDependencyRepo) DeleteForDeadline(ctx context.Context, deadlineID string) (int64, error) {
	query := `DELETE FROM deadline_dependencies
		WHERE source_deadline_id = ? OR target_deadline_id = ?`
	res, err := r.db.ExecContext(ctx, query, deadlineID, deadlineID)
	if err != nil {
		return 0, fmt.Errorf("deleting dependencies for deadline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted dependencies: %w", err)
	}
	return n, nil
}

// scanDependency scans a single dependency from a *sql.Row.
func (r *SQLiteDependencyRepo) scanDependency(row *sql.Row) (*domain.DeadlineDependency, error) {
	var d domain.DeadlineDependency
	var typeStr, createdAtStr string
	var createdByStr sql.NullString

	err := row.Scan(&d.ID, &d.SourceDeadlineID, &d.TargetDeadlineID,
		&typeStr, &d.LagDays, &createdByStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dependency: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning dependency: %w", err)
	}

	d.DependencyType = domain.DependencyType(typeStr)
	d.CreatedBy = strToNullableStr(createdByStr)
	d.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}

// scanDependencies scans multiple dependency rows from *sql.Rows.
func (r *SQLiteDependencyRepo) scanDependencies(rows *sql.Rows) ([]domain.DeadlineDependency, error) {
	var deps []domain.DeadlineDependency
	for rows.Next() {
		var d domain.DeadlineDependency
		var typeStr, createdAtStr string
		var createdByStr sql.NullString

		if err := rows.Scan(&d.ID, &d.SourceDeadlineID, &d.TargetDeadlineID,
			&typeStr, &d.LagDays, &createdByStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning dependency row: %w", err)
		}

		d.DependencyType = domain.DependencyType(typeStr)
		d.CreatedBy = strToNullableStr(createdByStr)
		var parseErr error
		d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

// sqlPlaceholders returns n comma-separated "?" placeholders.
func sqlPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
