package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
)

// SQLiteCaseRepo implements CaseRepo using a SQLite database. It is a
// read-side collaborator: case management proper lives outside this core,
// and only the title/status join for timeline views is served here.
type SQLiteCaseRepo struct {
	db db.DBTX
}

// NewSQLiteCaseRepo creates a new SQLiteCaseRepo.
func NewSQLiteCaseRepo(db db.DBTX) *SQLiteCaseRepo {
	return &SQLiteCaseRepo{db: db}
}

func (r *SQLiteCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	query := `INSERT INTO cases (id, user_id, title, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Title,
		string(c.Status),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting case: %w", err)
	}
	return nil
}

func (r *SQLiteCaseRepo) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := `SELECT id, user_id, title, status, created_at, updated_at FROM cases WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var c domain.Case
	var statusStr, createdAtStr, updatedAtStr string
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("case: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning case: %w", err)
	}

	c.Status = domain.CaseStatus(statusStr)
	var parseErr error
	c.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	c.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &c, nil
}
