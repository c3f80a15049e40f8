package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
)

// deadlineColumns is the canonical SELECT column list for deadlines.
const deadlineColumns = `id, case_id, user_id, title, description, deadline_date,
		priority, status, completed_at, created_at, updated_at, deleted_at`

// deadlineColumnsAliased is the same column list prefixed with "d." for join queries.
const deadlineColumnsAliased = `d.id, d.case_id, d.user_id, d.title, d.description, d.deadline_date,
		d.priority, d.status, d.completed_at, d.created_at, d.updated_at, d.deleted_at`

// notDeleted is the tombstone predicate shared by every deadline query.
const notDeleted = `deleted_at IS NULL`

// urgencyOrder sorts by date, then by priority so higher-urgency items
// surface first on a given day.
const urgencyOrder = `deadline_date ASC,
		CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC`

// SQLiteDeadlineRepo implements DeadlineRepo using a SQLite database.
type SQLiteDeadlineRepo struct {
	db db.DBTX
}

// NewSQLiteDeadlineRepo creates a new SQLiteDeadlineRepo.
func NewSQLiteDeadlineRepo(db db.DBTX) *SQLiteDeadlineRepo {
	return &SQLiteDeadlineRepo{db: db}
}

func (r *SQLiteDeadlineRepo) Create(ctx context.Context, d *domain.Deadline) error {
	query := `INSERT INTO deadlines (id, case_id, user_id, title, description, deadline_date,
		priority, status, completed_at, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.CaseID,
		d.UserID,
		d.Title,
		d.Description,
		d.DeadlineDate.Format(dateLayout),
		string(d.Priority),
		string(d.Status),
		nullableTimeToString(d.CompletedAt, time.RFC3339),
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
		nullableTimeToString(d.DeletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting deadline: %w", err)
	}
	return nil
}

func (r *SQLiteDeadlineRepo) GetByID(ctx context.Context, id string) (*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines WHERE id = ? AND ` + notDeleted
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanDeadline(row)
}

func (r *SQLiteDeadlineRepo) GetOwned(ctx context.Context, id, userID string) (*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines
		WHERE id = ? AND user_id = ? AND ` + notDeleted
	row := r.db.QueryRowContext(ctx, query, id, userID)
	return r.scanDeadline(row)
}

func (r *SQLiteDeadlineRepo) ListByCase(ctx context.Context, caseID, userID string) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines
		WHERE case_id = ? AND user_id = ? AND ` + notDeleted + `
		ORDER BY ` + urgencyOrder
	rows, err := r.db.QueryContext(ctx, query, caseID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing deadlines by case: %w", err)
	}
	defer rows.Close()
	return r.scanDeadlines(rows)
}

func (r *SQLiteDeadlineRepo) ListByUser(ctx context.Context, userID string) ([]TimelineEntry, error) {
	query := `SELECT ` + deadlineColumnsAliased + `, c.title AS case_title, c.status AS case_status
		FROM deadlines d
		JOIN cases c ON d.case_id = c.id
		WHERE d.user_id = ? AND d.deleted_at IS NULL
		ORDER BY d.deadline_date ASC,
			CASE d.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user timeline: %w", err)
	}
	defer rows.Close()

	var entries []TimelineEntry
	for rows.Next() {
		var d domain.Deadline
		var priorityStr, statusStr string
		var completedAtStr, deletedAtStr sql.NullString
		var dateStr, createdAtStr, updatedAtStr string
		var caseTitle, caseStatusStr string

		err := rows.Scan(
			&d.ID, &d.CaseID, &d.UserID, &d.Title, &d.Description, &dateStr,
			&priorityStr, &statusStr, &completedAtStr, &createdAtStr, &updatedAtStr, &deletedAtStr,
			&caseTitle, &caseStatusStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning timeline entry: %w", err)
		}

		if err := r.populateDeadline(&d, dateStr, priorityStr, statusStr,
			completedAtStr, deletedAtStr, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}

		entries = append(entries, TimelineEntry{
			Deadline:   d,
			CaseTitle:  caseTitle,
			CaseStatus: domain.CaseStatus(caseStatusStr),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteDeadlineRepo) ListUpcoming(ctx context.Context, userID string, limit int) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines
		WHERE user_id = ? AND status = 'upcoming' AND ` + notDeleted + `
		ORDER BY ` + urgencyOrder + `
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming deadlines: %w", err)
	}
	defer rows.Close()
	return r.scanDeadlines(rows)
}

func (r *SQLiteDeadlineRepo) ListOverdue(ctx context.Context, userID string) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines
		WHERE user_id = ? AND status = 'overdue' AND ` + notDeleted + `
		ORDER BY ` + urgencyOrder
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing overdue deadlines: %w", err)
	}
	defer rows.Close()
	return r.scanDeadlines(rows)
}

// Update writes the full row back, conditioned on ownership and the tombstone.
// Returns false when no row matched, which callers surface as not found.
func (r *SQLiteDeadlineRepo) Update(ctx context.Context, d *domain.Deadline) (bool, error) {
	query := `UPDATE deadlines SET title = ?, description = ?, deadline_date = ?,
		priority = ?, status = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND ` + notDeleted
	res, err := r.db.ExecContext(ctx, query,
		d.Title,
		d.Description,
		d.DeadlineDate.Format(dateLayout),
		string(d.Priority),
		string(d.Status),
		nullableTimeToString(d.CompletedAt, time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
		d.ID,
		d.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("updating deadline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting updated rows: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteDeadlineRepo) SoftDelete(ctx context.Context, id, userID string, now time.Time) (bool, error) {
	stamp := now.UTC().Format(time.RFC3339)
	query := `UPDATE deadlines SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND ` + notDeleted
	res, err := r.db.ExecContext(ctx, query, stamp, stamp, id, userID)
	if err != nil {
		return false, fmt.Errorf("soft-deleting deadline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted rows: %w", err)
	}
	return n > 0, nil
}

// MarkOverdueBefore promotes every live upcoming deadline dated strictly
// before the cutoff to overdue, in a single statement. Date-only comparison;
// already-overdue and completed rows are untouched.
func (r *SQLiteDeadlineRepo) MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE deadlines SET status = 'overdue', updated_at = ?
		WHERE status = 'upcoming' AND deadline_date < ? AND ` + notDeleted
	res, err := r.db.ExecContext(ctx, query,
		time.Now().UTC().Format(time.RFC3339),
		cutoff.Format(dateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("marking overdue deadlines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting overdue rows: %w", err)
	}
	return n, nil
}

func (r *SQLiteDeadlineRepo) Stats(ctx context.Context, userID string) (*domain.DeadlineStats, error) {
	query := `SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'upcoming' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'overdue' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM deadlines
		WHERE user_id = ? AND ` + notDeleted
	var s domain.DeadlineStats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.Total, &s.Upcoming, &s.Overdue, &s.Completed)
	if err != nil {
		return nil, fmt.Errorf("computing deadline stats: %w", err)
	}
	return &s, nil
}

func (r *SQLiteDeadlineRepo) ListDueWithinForUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines
		WHERE user_id = ? AND status != 'completed'
		  AND deadline_date >= ? AND deadline_date <= ?
		  AND ` + notDeleted + `
		ORDER BY deadline_date ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing due deadlines for user: %w", err)
	}
	defer rows.Close()
	return r.scanDeadlines(rows)
}

func (r *SQLiteDeadlineRepo) ListDueWithin(ctx context.Context, from, to time.Time) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines
		WHERE status != 'completed'
		  AND deadline_date >= ? AND deadline_date <= ?
		  AND ` + notDeleted + `
		ORDER BY deadline_date ASC`
	rows, err := r.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing due deadlines: %w", err)
	}
	defer rows.Close()
	return r.scanDeadlines(rows)
}

// scanDeadline scans a single deadline from a *sql.Row.
func (r *SQLiteDeadlineRepo) scanDeadline(row *sql.Row) (*domain.Deadline, error) {
	var d domain.Deadline
	var priorityStr, statusStr string
	var completedAtStr, deletedAtStr sql.NullString
	var dateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&d.ID, &d.CaseID, &d.UserID, &d.Title, &d.Description, &dateStr,
		&priorityStr, &statusStr, &completedAtStr, &createdAtStr, &updatedAtStr, &deletedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("deadline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning deadline: %w", err)
	}

	if err := r.populateDeadline(&d, dateStr, priorityStr, statusStr,
		completedAtStr, deletedAtStr, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &d, nil
}

// scanDeadlines scans multiple deadlines from *sql.Rows.
func (r *SQLiteDeadlineRepo) scanDeadlines(rows *sql.Rows) ([]*domain.Deadline, error) {
	var items []*domain.Deadline
	for rows.Next() {
		var d domain.Deadline
		var priorityStr, statusStr string
		var completedAtStr, deletedAtStr sql.NullString
		var dateStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&d.ID, &d.CaseID, &d.UserID, &d.Title, &d.Description, &dateStr,
			&priorityStr, &statusStr, &completedAtStr, &createdAtStr, &updatedAtStr, &deletedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning deadline row: %w", err)
		}

		if err := r.populateDeadline(&d, dateStr, priorityStr, statusStr,
			completedAtStr, deletedAtStr, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deadlines: %w", err)
	}
	return items, nil
}

// populateDeadline fills in parsed fields on a Deadline after scanning raw values.
func (r *SQLiteDeadlineRepo) populateDeadline(
	d *domain.Deadline,
	dateStr, priorityStr, statusStr string,
	completedAtStr, deletedAtStr sql.NullString,
	createdAtStr, updatedAtStr string,
) error {
	d.Priority = domain.Priority(priorityStr)
	d.Status = domain.DeadlineStatus(statusStr)
	d.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	d.DeletedAt = parseNullableTime(deletedAtStr, time.RFC3339)

	var parseErr error
	d.DeadlineDate, parseErr = time.Parse(dateLayout, dateStr)
	if parseErr != nil {
		return fmt.Errorf("parsing deadline_date: %w", parseErr)
	}
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return nil
}
