package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

// Catalog operations are plain attribute writes scoped to the household
// account. None of them touch balances or past instances.

const DefaultTaskIcon = "⭐"

type AddTaskTemplateInput struct {
	Title  string
	Icon   string
	Points int
}

func (s *Service) AddTaskTemplate(ctx context.Context, in AddTaskTemplateInput) (*storage.TaskTemplate, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Points <= 0 {
		return nil, fmt.Errorf("points must be positive, got %d", in.Points)
	}
	icon := in.Icon
	if icon == "" {
		icon = DefaultTaskIcon
	}

	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.templates.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	sortOrder := 0
	for _, t := range existing {
		if t.SortOrder >= sortOrder {
			sortOrder = t.SortOrder + 1
		}
	}

	id := uuid.NewString()
	if err := s.templates.Insert(ctx, storage.TemplateInsert{
		ID:        id,
		OwnerID:   owner.ID,
		Title:     title,
		Icon:      icon,
		Points:    in.Points,
		SortOrder: sortOrder,
	}); err != nil {
		return nil, err
	}
	return s.templates.Get(ctx, id)
}

func (s *Service) UpdateTaskTemplate(ctx context.Context, id string, title string, icon string, points int) error {
	title, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	if points <= 0 {
		return fmt.Errorf("points must be positive, got %d", points)
	}
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return NotFoundError{Kind: "task template", ID: id}
	}
	if icon == "" {
		icon = t.Icon
	}
	return s.templates.Update(ctx, id, title, icon, points)
}

// RemoveTaskTemplate deletes a template from the catalog. Instances
// already created from it keep their snapshot data and point effects.
func (s *Service) RemoveTaskTemplate(ctx context.Context, id string) error {
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return NotFoundError{Kind: "task template", ID: id}
	}
	return s.templates.Delete(ctx, id)
}

// ReorderTaskTemplates rewrites sort_order to match the given id order.
// IDs must be exactly the owner's current template set.
func (s *Service) ReorderTaskTemplates(ctx context.Context, ids []string) error {
	owner, err := s.mainParent(ctx)
	if err != nil {
		return err
	}
	current, err := s.templates.ListByOwner(ctx, owner.ID)
	if err != nil {
		return err
	}
	if len(ids) != len(current) {
		return fmt.Errorf("reorder needs all %d template ids, got %d", len(current), len(ids))
	}
	known := make(map[string]bool, len(current))
	for _, t := range current {
		known[t.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return NotFoundError{Kind: "task template", ID: id}
		}
		delete(known, id)
	}

	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		templates := storage.NewTemplateRepo(tx)
		for i, id := range ids {
			if err := templates.SetSortOrder(ctx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) ListTaskTemplates(ctx context.Context) ([]storage.TaskTemplate, error) {
	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	return s.templates.ListByOwner(ctx, owner.ID)
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*storage.TaskTemplate, error) {
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NotFoundError{Kind: "task template", ID: id}
	}
	return t, nil
}

type AddGiftInput struct {
	Title    string
	Cost     int
	ImageRef string
}

func (s *Service) AddGift(ctx context.Context, in AddGiftInput) (*storage.GiftTemplate, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Cost <= 0 {
		return nil, fmt.Errorf("cost must be positive, got %d", in.Cost)
	}

	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	var image *string
	if in.ImageRef != "" {
		v := in.ImageRef
		image = &v
	}
	id := uuid.NewString()
	if err := s.gifts.Insert(ctx, storage.GiftInsert{
		ID:       id,
		OwnerID:  owner.ID,
		Title:    title,
		Cost:     in.Cost,
		ImageRef: image,
	}); err != nil {
		return nil, err
	}
	return s.gifts.Get(ctx, id)
}

// UpdateGift edits a gift's title and cost. Past redemptions keep the
// cost they were claimed at.
func (s *Service) UpdateGift(ctx context.Context, id string, title string, cost int) error {
	title, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	if cost <= 0 {
		return fmt.Errorf("cost must be positive, got %d", cost)
	}
	g, err := s.gifts.Get(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return NotFoundError{Kind: "gift", ID: id}
	}
	return s.gifts.Update(ctx, id, title, cost)
}

func (s *Service) RemoveGift(ctx context.Context, id string) error {
	g, err := s.gifts.Get(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return NotFoundError{Kind: "gift", ID: id}
	}
	return s.gifts.Delete(ctx, id)
}

func (s *Service) ListGifts(ctx context.Context) ([]storage.GiftTemplate, error) {
	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	return s.gifts.ListByOwner(ctx, owner.ID)
}

func (s *Service) GetGift(ctx context.Context, id string) (*storage.GiftTemplate, error) {
	g, err := s.gifts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, NotFoundError{Kind: "gift", ID: id}
	}
	return g, nil
}

type AddChildInput struct {
	Name   string
	Avatar string
}

func (s *Service) AddChild(ctx context.Context, in AddChildInput) (*storage.Child, error) {
	name, err := normalizeTitle(in.Name)
	if err != nil {
		return nil, err
	}
	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	var avatar *string
	if in.Avatar != "" {
		v := in.Avatar
		avatar = &v
	}
	id := uuid.NewString()
	if err := s.children.Insert(ctx, storage.ChildInsert{
		ID:      id,
		OwnerID: owner.ID,
		Name:    name,
		Avatar:  avatar,
	}); err != nil {
		return nil, err
	}
	return s.children.Get(ctx, id)
}

func (s *Service) ListChildren(ctx context.Context) ([]storage.Child, error) {
	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	return s.children.ListByOwner(ctx, owner.ID)
}

// FindChild resolves a child by id or, failing that, by name.
func (s *Service) FindChild(ctx context.Context, ref string) (*storage.Child, error) {
	c, err := s.children.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	owner, err := s.mainParent(ctx)
	if err != nil {
		return nil, err
	}
	c, err = s.children.GetByName(ctx, owner.ID, ref)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NotFoundError{Kind: "child", ID: ref}
	}
	return c, nil
}

func (s *Service) RemoveChild(ctx context.Context, id string) error {
	c, err := s.children.Get(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return NotFoundError{Kind: "child", ID: id}
	}
	return s.children.Delete(ctx, id)
}
