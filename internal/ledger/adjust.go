package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

type AdjustInput struct {
	ChildID string
	Delta   int
	Note    string
	// AdjustKey is an optional idempotency key; a retried adjustment with
	// the same key applies once.
	AdjustKey string
}

type AdjustResult struct {
	AdjustmentID string
	Delta        int
	NewBalance   int
	Replayed     bool
}

// AdjustBalance is the parent's manual override. It goes through the same
// conditional-update path as the engines: a negative delta that would
// overdraw is rejected with InsufficientBalanceError, and the adjustment
// row keeps the balance reconstructible.
func (s *Service) AdjustBalance(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.Delta == 0 {
		return nil, errors.New("delta must be non-zero")
	}

	var res *AdjustResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		children := storage.NewChildRepo(tx)
		adjustments := storage.NewAdjustmentRepo(tx)

		child, err := children.Get(ctx, in.ChildID)
		if err != nil {
			return err
		}
		if child == nil {
			return NotFoundError{Kind: "child", ID: in.ChildID}
		}

		if in.AdjustKey != "" {
			prior, err := adjustments.GetByKey(ctx, in.ChildID, in.AdjustKey)
			if err != nil {
				return err
			}
			if prior != nil {
				balance, _, err := children.Balance(ctx, in.ChildID)
				if err != nil {
					return err
				}
				res = &AdjustResult{AdjustmentID: prior.ID, Delta: prior.Delta, NewBalance: balance, Replayed: true}
				return nil
			}
		}

		if in.Delta > 0 {
			if _, err := children.Credit(ctx, in.ChildID, in.Delta); err != nil {
				return err
			}
		} else {
			debited, err := children.Debit(ctx, in.ChildID, -in.Delta)
			if err != nil {
				return err
			}
			if !debited {
				balance, _, err := children.Balance(ctx, in.ChildID)
				if err != nil {
					return err
				}
				return InsufficientBalanceError{ChildID: in.ChildID, Balance: balance, Cost: -in.Delta}
			}
		}

		var note *string
		if in.Note != "" {
			n := in.Note
			note = &n
		}
		var key *string
		if in.AdjustKey != "" {
			k := in.AdjustKey
			key = &k
		}
		aid := uuid.NewString()
		if err := adjustments.Insert(ctx, storage.AdjustmentInsert{
			ID:        aid,
			ChildID:   in.ChildID,
			Delta:     in.Delta,
			Note:      note,
			AdjustKey: key,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		balance, _, err := children.Balance(ctx, in.ChildID)
		if err != nil {
			return err
		}
		res = &AdjustResult{AdjustmentID: aid, Delta: in.Delta, NewBalance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
