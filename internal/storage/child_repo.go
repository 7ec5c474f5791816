package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ChildRepo struct {
	db DBTX
}

func NewChildRepo(db DBTX) *ChildRepo {
	return &ChildRepo{db: db}
}

type ChildInsert struct {
	ID      string
	OwnerID string
	Name    string
	Avatar  *string
}

func (r *ChildRepo) Insert(ctx context.Context, in ChildInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO children (id, owner_id, name, avatar) VALUES (?, ?, ?, ?)
	`, in.ID, in.OwnerID, in.Name, in.Avatar)
	if err != nil {
		return fmt.Errorf("child insert: %w", err)
	}
	return nil
}

func (r *ChildRepo) Get(ctx context.Context, id string) (*Child, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, avatar, balance, created_at
		FROM children
		WHERE id = ?
	`, id)
	return scanChild(row)
}

func (r *ChildRepo) GetByName(ctx context.Context, ownerID, name string) (*Child, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, avatar, balance, created_at
		FROM children
		WHERE owner_id = ? AND name = ?
	`, ownerID, name)
	return scanChild(row)
}

func (r *ChildRepo) ListByOwner(ctx context.Context, ownerID string) ([]Child, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, avatar, balance, created_at
		FROM children
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("child list: %w", err)
	}
	defer rows.Close()

	var out []Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("child list rows: %w", err)
	}
	return out, nil
}

func (r *ChildRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM children WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("child delete: %w", err)
	}
	return nil
}

// Credit adds delta points to the child's balance in a single statement.
// Returns false when the child row does not exist.
func (r *ChildRepo) Credit(ctx context.Context, id string, delta int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE children SET balance = balance + ? WHERE id = ?
	`, delta, id)
	if err != nil {
		return false, fmt.Errorf("child credit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("child credit rows: %w", err)
	}
	return n > 0, nil
}

// Debit subtracts cost from the child's balance only if the balance covers
// it. The WHERE clause carries the affordability check so concurrent
// debits can never overdraw: the read and the write are one statement.
// Returns false when the balance was insufficient.
func (r *ChildRepo) Debit(ctx context.Context, id string, cost int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE children SET balance = balance - ? WHERE id = ? AND balance >= ?
	`, cost, id, cost)
	if err != nil {
		return false, fmt.Errorf("child debit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("child debit rows: %w", err)
	}
	return n > 0, nil
}

// Balance reads the current balance. The bool reports whether the child
// row exists.
func (r *ChildRepo) Balance(ctx context.Context, id string) (int, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT balance FROM children WHERE id = ?`, id)
	var b int
	if err := row.Scan(&b); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("child balance: %w", err)
	}
	return b, true, nil
}

func scanChild(row scanner) (*Child, error) {
	var (
		c      Child
		avatar sql.NullString
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &avatar, &c.Balance, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("child scan: %w", err)
	}
	if avatar.Valid {
		v := avatar.String
		c.Avatar = &v
	}
	return &c, nil
}

type scanner interface {
	Scan(dest ...any) error
}
