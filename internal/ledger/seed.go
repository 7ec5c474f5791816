package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

type seedTask struct {
	Title  string
	Points int
	Icon   string
}

// defaultSeedTasks is the starter catalog a fresh household gets.
var defaultSeedTasks = []seedTask{
	{"Brush Teeth", 5, "🪥"},
	{"Study 30 Minutes", 10, "📚"},
	{"Pray", 5, "🤲"},
	{"Clean Room", 10, "🧹"},
	{"Drink Water", 3, "💧"},
	{"Read a Book", 10, "📖"},
	{"Exercise", 8, "🏃"},
	{"Help Parents", 10, "🤝"},
	{"Sleep Early", 5, "😴"},
	{"Eat Healthy", 5, "🥗"},
}

// SeedDefaultTasks populates the starter catalog when the household has
// no task templates yet. Returns how many templates were created; zero
// means the catalog already had content.
func (s *Service) SeedDefaultTasks(ctx context.Context) (int, error) {
	owner, err := s.mainParent(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.templates.CountByOwner(ctx, owner.ID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i, t := range defaultSeedTasks {
		if err := s.templates.Insert(ctx, storage.TemplateInsert{
			ID:        uuid.NewString(),
			OwnerID:   owner.ID,
			Title:     t.Title,
			Icon:      t.Icon,
			Points:    t.Points,
			SortOrder: i,
		}); err != nil {
			return i, err
		}
	}
	return len(defaultSeedTasks), nil
}
