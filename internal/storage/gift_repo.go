package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type GiftRepo struct {
	db DBTX
}

func NewGiftRepo(db DBTX) *GiftRepo {
	return &GiftRepo{db: db}
}

type GiftInsert struct {
	ID       string
	OwnerID  string
	Title    string
	Cost     int
	ImageRef *string
}

func (r *GiftRepo) Insert(ctx context.Context, in GiftInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gift_templates (id, owner_id, title, cost, image_ref)
		VALUES (?, ?, ?, ?, ?)
	`, in.ID, in.OwnerID, in.Title, in.Cost, in.ImageRef)
	if err != nil {
		return fmt.Errorf("gift insert: %w", err)
	}
	return nil
}

func (r *GiftRepo) Get(ctx context.Context, id string) (*GiftTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, cost, image_ref, created_at
		FROM gift_templates
		WHERE id = ?
	`, id)
	return scanGift(row)
}

// ListByOwner returns gifts cheapest first, matching the original shop view.
func (r *GiftRepo) ListByOwner(ctx context.Context, ownerID string) ([]GiftTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, cost, image_ref, created_at
		FROM gift_templates
		WHERE owner_id = ?
		ORDER BY cost ASC, created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("gift list: %w", err)
	}
	defer rows.Close()

	var out []GiftTemplate
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gift list rows: %w", err)
	}
	return out, nil
}

func (r *GiftRepo) Update(ctx context.Context, id string, title string, cost int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE gift_templates SET title = ?, cost = ? WHERE id = ?`, title, cost, id)
	if err != nil {
		return fmt.Errorf("gift update: %w", err)
	}
	return nil
}

func (r *GiftRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM gift_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("gift delete: %w", err)
	}
	return nil
}

func scanGift(row scanner) (*GiftTemplate, error) {
	var (
		g     GiftTemplate
		image sql.NullString
	)
	if err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Cost, &image, &g.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("gift scan: %w", err)
	}
	if image.Valid {
		v := image.String
		g.ImageRef = &v
	}
	return &g, nil
}
