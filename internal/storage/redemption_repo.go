package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type RedemptionRepo struct {
	db DBTX
}

func NewRedemptionRepo(db DBTX) *RedemptionRepo {
	return &RedemptionRepo{db: db}
}

type RedemptionInsert struct {
	ID          string
	ChildID     string
	GiftID      string
	Title       string
	CostAtClaim int
	ClaimKey    *string
	ClaimedAt   time.Time
}

func (r *RedemptionRepo) Insert(ctx context.Context, in RedemptionInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO redemptions (id, child_id, gift_id, title, cost_at_claim, claim_key, claimed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.ID, in.ChildID, in.GiftID, in.Title, in.CostAtClaim, in.ClaimKey, in.ClaimedAt)
	if err != nil {
		return fmt.Errorf("redemption insert: %w", err)
	}
	return nil
}

// GetByClaimKey looks up a prior redemption recorded under the same
// client-supplied key, if any.
func (r *RedemptionRepo) GetByClaimKey(ctx context.Context, childID string, key string) (*Redemption, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_id, gift_id, title, cost_at_claim, claim_key, claimed_at
		FROM redemptions
		WHERE child_id = ? AND claim_key = ?
	`, childID, key)
	return scanRedemption(row)
}

// ListByChild returns redemptions newest first.
func (r *RedemptionRepo) ListByChild(ctx context.Context, childID string) ([]Redemption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, child_id, gift_id, title, cost_at_claim, claim_key, claimed_at
		FROM redemptions
		WHERE child_id = ?
		ORDER BY claimed_at DESC, id DESC
	`, childID)
	if err != nil {
		return nil, fmt.Errorf("redemption list: %w", err)
	}
	defer rows.Close()

	var out []Redemption
	for rows.Next() {
		red, err := scanRedemption(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *red)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("redemption list rows: %w", err)
	}
	return out, nil
}

// SumCosts totals cost_at_claim for a child, across all redemptions.
func (r *RedemptionRepo) SumCosts(ctx context.Context, childID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost_at_claim), 0) FROM redemptions WHERE child_id = ?
	`, childID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("redemption sum: %w", err)
	}
	return n, nil
}

func scanRedemption(row scanner) (*Redemption, error) {
	var (
		red Redemption
		key sql.NullString
	)
	if err := row.Scan(&red.ID, &red.ChildID, &red.GiftID, &red.Title, &red.CostAtClaim, &key, &red.ClaimedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("redemption scan: %w", err)
	}
	if key.Valid {
		v := key.String
		red.ClaimKey = &v
	}
	return &red, nil
}
