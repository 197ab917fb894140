package menu

import (
	"context"
	"strings"

	"tapin/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Find lists available items for the order screen.
func (s *Service) Find(
	ctx context.Context,
	group Group,
	category string,
	search string,
) ([]Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, core.Persistence("list menu", err)
	}
	return FindAvailable(items, group, category, search), nil
}

// Lookup resolves an available item by exact name, ignoring case.
func (s *Service) Lookup(ctx context.Context, name string) (*Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, core.Persistence("list menu", err)
	}

	for _, item := range items {
		if item.IsAvailable && strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			found := item
			return &found, nil
		}
	}
	return nil, core.NotFound("menu item", name)
}
