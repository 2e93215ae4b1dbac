package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lewtec/pngtag/internal/domain"
)

// querier is the subset of *sql.DB and *sql.Tx the repository needs
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// JournalRepository implements domain.JournalRepository on SQLite
type JournalRepository struct {
	db  querier
	now func() time.Time
}

// NewJournalRepository creates a new JournalRepository
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db, now: time.Now}
}

// NewJournalRepositoryWithTx creates a new JournalRepository with a transaction
func NewJournalRepositoryWithTx(tx *sql.Tx) *JournalRepository {
	return &JournalRepository{db: tx, now: time.Now}
}

const editColumns = `id, path, key, old_values, new_value, policy, sha256_before, sha256_after, edited_at`

// Record stores an edit
func (r *JournalRepository) Record(ctx context.Context, edit *domain.Edit) (*domain.Edit, error) {
	oldValues := edit.OldValues
	if oldValues == nil {
		oldValues = []string{}
	}
	encoded, err := json.Marshal(oldValues)
	if err != nil {
		return nil, fmt.Errorf("while encoding previous values: %w", err)
	}
	editedAt := edit.EditedAt
	if editedAt.IsZero() {
		editedAt = r.now()
	}
	editedAt = editedAt.UTC()

	result, err := r.db.ExecContext(ctx, `
INSERT INTO edits (path, key, old_values, new_value, policy, sha256_before, sha256_after, edited_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		edit.Path, edit.Key, string(encoded), sql.NullString{String: edit.NewValue, Valid: !edit.Removed()}, edit.Policy,
		edit.SHA256Before, edit.SHA256After, editedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("while inserting edit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	stored := *edit
	stored.ID = id
	stored.OldValues = oldValues
	stored.EditedAt = editedAt
	return &stored, nil
}

// ListForPath retrieves the edits of one file, newest first. A limit of zero or less means no limit.
func (r *JournalRepository) ListForPath(ctx context.Context, path string, limit int) ([]*domain.Edit, error) {
	return r.list(ctx, `SELECT `+editColumns+` FROM edits WHERE path = ? ORDER BY edited_at DESC, id DESC LIMIT ?`, path, sqlLimit(limit))
}

// List retrieves the edits of every file, newest first
func (r *JournalRepository) List(ctx context.Context, limit int) ([]*domain.Edit, error) {
	return r.list(ctx, `SELECT `+editColumns+` FROM edits ORDER BY edited_at DESC, id DESC LIMIT ?`, sqlLimit(limit))
}

// Count returns the total number of recorded edits
func (r *JournalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edits`).Scan(&n)
	return n, err
}

func (r *JournalRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Edit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Edit
	for rows.Next() {
		edit, err := scanEdit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, edit)
	}
	return result, rows.Err()
}

func scanEdit(rows *sql.Rows) (*domain.Edit, error) {
	var (
		edit      domain.Edit
		oldValues string
		newValue  sql.NullString
	)
	err := rows.Scan(&edit.ID, &edit.Path, &edit.Key, &oldValues, &newValue, &edit.Policy,
		&edit.SHA256Before, &edit.SHA256After, &edit.EditedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(oldValues), &edit.OldValues); err != nil {
		return nil, fmt.Errorf("while decoding previous values of edit %d: %w", edit.ID, err)
	}
	edit.NewValue = newValue.String
	return &edit, nil
}

// sqlLimit maps "no limit" to SQLite's -1
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// Verify that JournalRepository implements domain.JournalRepository
var _ domain.JournalRepository = (*JournalRepository)(nil)
