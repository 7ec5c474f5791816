package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// MainParentID identifies the single household account a local install
// tracks. Multi-parent data stays possible at the schema level; the CLI
// only ever addresses this one.
const MainParentID = "household"

type ParentRepo struct {
	db DBTX
}

func NewParentRepo(db DBTX) *ParentRepo {
	return &ParentRepo{db: db}
}

func (r *ParentRepo) Get(ctx context.Context, id string) (*Parent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM parents WHERE id = ?`, id)

	var p Parent
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("parent get: %w", err)
	}
	return &p, nil
}

func (r *ParentRepo) GetOrCreateMain(ctx context.Context) (*Parent, error) {
	p, err := r.Get(ctx, MainParentID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	// Two concurrent first calls race to insert; the loser's conflict is fine.
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO parents (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, MainParentID, "Household"); err != nil {
		return nil, fmt.Errorf("parent insert: %w", err)
	}
	return r.Get(ctx, MainParentID)
}
