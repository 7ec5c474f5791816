package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

type CompleteResult struct {
	InstanceID    string
	ChildID       string
	Title         string
	PointsAwarded int
	NewBalance    int
	// AlreadyDone reports that another caller completed the instance
	// first. No points were credited; NewBalance is still current. Callers
	// that retry blindly treat this as success.
	AlreadyDone bool
}

// Complete flips a task instance from pending to done and credits its
// snapshot points to the owning child, both inside one transaction.
//
// The mark-done update carries a WHERE done = 0 guard, so of two
// concurrent calls exactly one flips the row and credits points; the
// other gets an AlreadyDone result and the balance rises by one task's
// points, never two.
func (s *Service) Complete(ctx context.Context, instanceID string) (*CompleteResult, error) {
	var res *CompleteResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		instances := storage.NewInstanceRepo(tx)
		children := storage.NewChildRepo(tx)

		inst, err := instances.Get(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst == nil {
			return NotFoundError{Kind: "task instance", ID: instanceID}
		}

		flipped, err := instances.MarkDone(ctx, instanceID, time.Now().UTC())
		if err != nil {
			return err
		}
		if !flipped {
			balance, _, err := children.Balance(ctx, inst.ChildID)
			if err != nil {
				return err
			}
			res = &CompleteResult{
				InstanceID:  instanceID,
				ChildID:     inst.ChildID,
				Title:       inst.Title,
				NewBalance:  balance,
				AlreadyDone: true,
			}
			return nil
		}

		credited, err := children.Credit(ctx, inst.ChildID, inst.Points)
		if err != nil {
			return err
		}
		if !credited {
			return fmt.Errorf("credit child %s: %w", inst.ChildID, NotFoundError{Kind: "child", ID: inst.ChildID})
		}

		balance, _, err := children.Balance(ctx, inst.ChildID)
		if err != nil {
			return err
		}
		res = &CompleteResult{
			InstanceID:    instanceID,
			ChildID:       inst.ChildID,
			Title:         inst.Title,
			PointsAwarded: inst.Points,
			NewBalance:    balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
