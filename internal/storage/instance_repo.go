package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type InstanceRepo struct {
	db DBTX
}

func NewInstanceRepo(db DBTX) *InstanceRepo {
	return &InstanceRepo{db: db}
}

type InstanceInsert struct {
	ID         string
	ChildID    string
	TemplateID string
	Day        string
	Title      string
	Icon       string
	Points     int
}

// InsertIgnore creates the instance unless one already exists for the same
// (child, template, day). The unique index makes concurrent ensure calls
// collapse to a single row; losers are silently dropped.
func (r *InstanceRepo) InsertIgnore(ctx context.Context, in InstanceInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_instances (id, child_id, template_id, day, title, icon, points)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(child_id, template_id, day) DO NOTHING
	`, in.ID, in.ChildID, in.TemplateID, in.Day, in.Title, in.Icon, in.Points)
	if err != nil {
		return fmt.Errorf("instance insert: %w", err)
	}
	return nil
}

func (r *InstanceRepo) Get(ctx context.Context, id string) (*TaskInstance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_id, template_id, day, title, icon, points, done, completed_at, created_at
		FROM task_instances
		WHERE id = ?
	`, id)
	return scanInstance(row)
}

func (r *InstanceRepo) ListByChildDay(ctx context.Context, childID string, day string) ([]TaskInstance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, child_id, template_id, day, title, icon, points, done, completed_at, created_at
		FROM task_instances
		WHERE child_id = ? AND day = ?
		ORDER BY created_at ASC, id ASC
	`, childID, day)
	if err != nil {
		return nil, fmt.Errorf("instance list: %w", err)
	}
	defer rows.Close()

	var out []TaskInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("instance list rows: %w", err)
	}
	return out, nil
}

// MarkDone flips the instance from pending to done. The WHERE done = 0
// clause is the compare-and-swap: of two concurrent callers exactly one
// sees an affected row and owns the point credit.
func (r *InstanceRepo) MarkDone(ctx context.Context, id string, completedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE task_instances SET done = 1, completed_at = ? WHERE id = ? AND done = 0
	`, completedAt, id)
	if err != nil {
		return false, fmt.Errorf("instance mark done: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("instance mark done rows: %w", err)
	}
	return n > 0, nil
}

// SumDonePoints totals the snapshot points of all completed instances for
// a child, across all days.
func (r *InstanceRepo) SumDonePoints(ctx context.Context, childID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points), 0) FROM task_instances WHERE child_id = ? AND done = 1
	`, childID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("instance sum done: %w", err)
	}
	return n, nil
}

func scanInstance(row scanner) (*TaskInstance, error) {
	var (
		inst        TaskInstance
		done        int
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&inst.ID, &inst.ChildID, &inst.TemplateID, &inst.Day,
		&inst.Title, &inst.Icon, &inst.Points, &done, &completedAt, &inst.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("instance scan: %w", err)
	}
	inst.Done = done != 0
	if completedAt.Valid {
		v := completedAt.Time
		inst.CompletedAt = &v
	}
	return &inst, nil
}
