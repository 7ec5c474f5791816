package ledger

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

// EnsureDailyTasks materializes the child's checklist for a day from the
// current template catalog and returns the full set of instances for that
// day.
//
// The insert is ON CONFLICT DO NOTHING against the unique
// (child, template, day) index, which makes the operation idempotent and
// safe under concurrent calls: however many tabs race, each template gets
// exactly one row. Templates added after the day was first seeded are
// picked up on the next call, since only missing rows are inserted.
// Existing instances are never touched or deleted.
func (s *Service) EnsureDailyTasks(ctx context.Context, childID string, day Day) ([]storage.TaskInstance, error) {
	child, err := s.getChild(ctx, childID)
	if err != nil {
		return nil, err
	}

	templates, err := s.templates.ListByOwner(ctx, child.OwnerID)
	if err != nil {
		return nil, err
	}

	if len(templates) > 0 {
		err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			instances := storage.NewInstanceRepo(tx)
			for _, t := range templates {
				in := storage.InstanceInsert{
					ID:         uuid.NewString(),
					ChildID:    childID,
					TemplateID: t.ID,
					Day:        day.String(),
					Title:      t.Title,
					Icon:       t.Icon,
					Points:     t.Points,
				}
				if err := instances.InsertIgnore(ctx, in); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return s.instances.ListByChildDay(ctx, childID, day.String())
}

// ListDay returns the child's instances for a day without creating any.
func (s *Service) ListDay(ctx context.Context, childID string, day Day) ([]storage.TaskInstance, error) {
	if _, err := s.getChild(ctx, childID); err != nil {
		return nil, err
	}
	return s.instances.ListByChildDay(ctx, childID, day.String())
}
