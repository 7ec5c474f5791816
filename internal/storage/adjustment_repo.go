package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Adjustment struct {
	ID        string
	ChildID   string
	Delta     int
	Note      *string
	AdjustKey *string
	CreatedAt time.Time
}

type AdjustmentRepo struct {
	db DBTX
}

func NewAdjustmentRepo(db DBTX) *AdjustmentRepo {
	return &AdjustmentRepo{db: db}
}

type AdjustmentInsert struct {
	ID        string
	ChildID   string
	Delta     int
	Note      *string
	AdjustKey *string
	CreatedAt time.Time
}

func (r *AdjustmentRepo) Insert(ctx context.Context, in AdjustmentInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adjustments (id, child_id, delta, note, adjust_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.ID, in.ChildID, in.Delta, in.Note, in.AdjustKey, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("adjustment insert: %w", err)
	}
	return nil
}

func (r *AdjustmentRepo) GetByKey(ctx context.Context, childID string, key string) (*Adjustment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_id, delta, note, adjust_key, created_at
		FROM adjustments
		WHERE child_id = ? AND adjust_key = ?
	`, childID, key)
	return scanAdjustment(row)
}

// SumDeltas totals all manual adjustments for a child.
func (r *AdjustmentRepo) SumDeltas(ctx context.Context, childID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(delta), 0) FROM adjustments WHERE child_id = ?
	`, childID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("adjustment sum: %w", err)
	}
	return n, nil
}

func scanAdjustment(row scanner) (*Adjustment, error) {
	var (
		a    Adjustment
		note sql.NullString
		key  sql.NullString
	)
	if err := row.Scan(&a.ID, &a.ChildID, &a.Delta, &note, &key, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("adjustment scan: %w", err)
	}
	if note.Valid {
		v := note.String
		a.Note = &v
	}
	if key.Valid {
		v := key.String
		a.AdjustKey = &v
	}
	return &a, nil
}
