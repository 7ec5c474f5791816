package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type TemplateRepo struct {
	db DBTX
}

func NewTemplateRepo(db DBTX) *TemplateRepo {
	return &TemplateRepo{db: db}
}

type TemplateInsert struct {
	ID        string
	OwnerID   string
	Title     string
	Icon      string
	Points    int
	SortOrder int
}

func (r *TemplateRepo) Insert(ctx context.Context, in TemplateInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_templates (id, owner_id, title, icon, points, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.ID, in.OwnerID, in.Title, in.Icon, in.Points, in.SortOrder)
	if err != nil {
		return fmt.Errorf("template insert: %w", err)
	}
	return nil
}

func (r *TemplateRepo) Get(ctx context.Context, id string) (*TaskTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, icon, points, sort_order, created_at
		FROM task_templates
		WHERE id = ?
	`, id)
	return scanTemplate(row)
}

// ListByOwner returns the owner's templates in display order.
func (r *TemplateRepo) ListByOwner(ctx context.Context, ownerID string) ([]TaskTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, icon, points, sort_order, created_at
		FROM task_templates
		WHERE owner_id = ?
		ORDER BY sort_order ASC, created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("template list: %w", err)
	}
	defer rows.Close()

	var out []TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template list rows: %w", err)
	}
	return out, nil
}

func (r *TemplateRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_templates WHERE owner_id = ?`, ownerID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("template count: %w", err)
	}
	return n, nil
}

func (r *TemplateRepo) Update(ctx context.Context, id string, title string, icon string, points int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE task_templates SET title = ?, icon = ?, points = ? WHERE id = ?
	`, title, icon, points, id)
	if err != nil {
		return fmt.Errorf("template update: %w", err)
	}
	return nil
}

func (r *TemplateRepo) SetSortOrder(ctx context.Context, id string, sortOrder int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE task_templates SET sort_order = ? WHERE id = ?`, sortOrder, id)
	if err != nil {
		return fmt.Errorf("template set sort order: %w", err)
	}
	return nil
}

// Delete removes a template. Instances created from it keep their own
// snapshot of title/icon/points, so history stays displayable.
func (r *TemplateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("template delete: %w", err)
	}
	return nil
}

func scanTemplate(row scanner) (*TaskTemplate, error) {
	var t TaskTemplate
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Icon, &t.Points, &t.SortOrder, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("template scan: %w", err)
	}
	return &t, nil
}
