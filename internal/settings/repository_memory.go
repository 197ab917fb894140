package settings

import (
	"context"
	"sync"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	value *Settings
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get(ctx context.Context) (Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.value == nil {
		return Settings{}, false, nil
	}
	return *s.value, true, nil
}

func (s *InMemoryStore) Put(ctx context.Context, v Settings) error {
	s.mu.Lock()
	s.value = &v
	s.mu.Unlock()
	return nil
}
