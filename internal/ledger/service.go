package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

// Service is the points ledger: it owns daily instantiation, task
// completion credits and gift redemption debits. All balance writes go
// through conditional single-statement updates inside one transaction, so
// concurrent callers (tabs, double-taps, retries) cannot double-count or
// overdraw.
type Service struct {
	db          *sql.DB
	parents     *storage.ParentRepo
	children    *storage.ChildRepo
	templates   *storage.TemplateRepo
	gifts       *storage.GiftRepo
	instances   *storage.InstanceRepo
	redemptions *storage.RedemptionRepo
	adjustments *storage.AdjustmentRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:          db,
		parents:     storage.NewParentRepo(db),
		children:    storage.NewChildRepo(db),
		templates:   storage.NewTemplateRepo(db),
		gifts:       storage.NewGiftRepo(db),
		instances:   storage.NewInstanceRepo(db),
		redemptions: storage.NewRedemptionRepo(db),
		adjustments: storage.NewAdjustmentRepo(db),
	}
}

func (s *Service) ChildRepo() *storage.ChildRepo           { return s.children }
func (s *Service) TemplateRepo() *storage.TemplateRepo     { return s.templates }
func (s *Service) GiftRepo() *storage.GiftRepo             { return s.gifts }
func (s *Service) InstanceRepo() *storage.InstanceRepo     { return s.instances }
func (s *Service) RedemptionRepo() *storage.RedemptionRepo { return s.redemptions }

// mainParent resolves the household account, creating it on first use.
func (s *Service) mainParent(ctx context.Context) (*storage.Parent, error) {
	return s.parents.GetOrCreateMain(ctx)
}

func (s *Service) getChild(ctx context.Context, childID string) (*storage.Child, error) {
	c, err := s.children.Get(ctx, childID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NotFoundError{Kind: "child", ID: childID}
	}
	return c, nil
}

// GetBalance returns the child's current point balance.
func (s *Service) GetBalance(ctx context.Context, childID string) (int, error) {
	balance, found, err := s.children.Balance(ctx, childID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, NotFoundError{Kind: "child", ID: childID}
	}
	return balance, nil
}

// ListRedemptions returns the child's redemption history, newest first.
func (s *Service) ListRedemptions(ctx context.Context, childID string) ([]storage.Redemption, error) {
	if _, err := s.getChild(ctx, childID); err != nil {
		return nil, err
	}
	return s.redemptions.ListByChild(ctx, childID)
}

// AuditBalance recomputes what the stored balance should be from the
// ledger rows: done-instance points minus redemption costs plus manual
// adjustments. Stored and computed disagree only if something other than
// the ledger wrote the balance column.
func (s *Service) AuditBalance(ctx context.Context, childID string) (stored int, computed int, err error) {
	stored, err = s.GetBalance(ctx, childID)
	if err != nil {
		return 0, 0, err
	}
	earned, err := s.instances.SumDonePoints(ctx, childID)
	if err != nil {
		return 0, 0, err
	}
	spent, err := s.redemptions.SumCosts(ctx, childID)
	if err != nil {
		return 0, 0, err
	}
	adjusted, err := s.adjustments.SumDeltas(ctx, childID)
	if err != nil {
		return 0, 0, err
	}
	return stored, earned - spent + adjusted, nil
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}
