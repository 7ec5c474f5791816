package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

type RedeemInput struct {
	ChildID string
	GiftID  string
	// ClaimKey is an optional client-supplied idempotency key. A retried
	// request carrying the same key returns the original redemption
	// instead of spending again. Empty means every call is a fresh
	// redemption attempt.
	ClaimKey string
}

type RedeemResult struct {
	RedemptionID string
	GiftTitle    string
	Cost         int
	NewBalance   int
	// Replayed reports that ClaimKey matched a prior redemption and no
	// new debit happened.
	Replayed bool
}

// Redeem exchanges points for a gift: it debits the gift's current cost
// from the child's balance and records a redemption capturing that cost,
// both inside one transaction.
//
// The debit is a single conditional UPDATE with the affordability check
// in its WHERE clause, so the balance that governs success is the balance
// at commit time. Two concurrent redemptions whose combined cost exceeds
// the balance cannot both succeed, and the balance can never go negative.
// Later edits to the gift's cost never rewrite cost_at_claim.
func (s *Service) Redeem(ctx context.Context, in RedeemInput) (*RedeemResult, error) {
	var res *RedeemResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		children := storage.NewChildRepo(tx)
		gifts := storage.NewGiftRepo(tx)
		redemptions := storage.NewRedemptionRepo(tx)

		child, err := children.Get(ctx, in.ChildID)
		if err != nil {
			return err
		}
		if child == nil {
			return NotFoundError{Kind: "child", ID: in.ChildID}
		}

		gift, err := gifts.Get(ctx, in.GiftID)
		if err != nil {
			return err
		}
		if gift == nil {
			return NotFoundError{Kind: "gift", ID: in.GiftID}
		}

		if in.ClaimKey != "" {
			prior, err := redemptions.GetByClaimKey(ctx, in.ChildID, in.ClaimKey)
			if err != nil {
				return err
			}
			if prior != nil {
				balance, _, err := children.Balance(ctx, in.ChildID)
				if err != nil {
					return err
				}
				res = &RedeemResult{
					RedemptionID: prior.ID,
					GiftTitle:    prior.Title,
					Cost:         prior.CostAtClaim,
					NewBalance:   balance,
					Replayed:     true,
				}
				return nil
			}
		}

		debited, err := children.Debit(ctx, in.ChildID, gift.Cost)
		if err != nil {
			return err
		}
		if !debited {
			balance, _, err := children.Balance(ctx, in.ChildID)
			if err != nil {
				return err
			}
			return InsufficientBalanceError{ChildID: in.ChildID, Balance: balance, Cost: gift.Cost}
		}

		var key *string
		if in.ClaimKey != "" {
			k := in.ClaimKey
			key = &k
		}
		rid := uuid.NewString()
		if err := redemptions.Insert(ctx, storage.RedemptionInsert{
			ID:          rid,
			ChildID:     in.ChildID,
			GiftID:      in.GiftID,
			Title:       gift.Title,
			CostAtClaim: gift.Cost,
			ClaimKey:    key,
			ClaimedAt:   time.Now().UTC(),
		}); err != nil {
			return err
		}

		balance, _, err := children.Balance(ctx, in.ChildID)
		if err != nil {
			return err
		}
		res = &RedeemResult{
			RedemptionID: rid,
			GiftTitle:    gift.Title,
			Cost:         gift.Cost,
			NewBalance:   balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
