package menu

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

// NewInMemoryRepository seeds the catalog. Items without an ID get one.
func NewInMemoryRepository(items ...Item) *InMemoryRepository {
	seeded := make([]Item, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		seeded[i] = item
	}
	return &InMemoryRepository{items: seeded}
}

func (r *InMemoryRepository) ListItems(ctx context.Context) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out, nil
}
