package receipt

import (
	"context"
	"sort"
	"sync"

	"tapin/internal/core"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	receipts []Receipt
	failWith error
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, r Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return core.Persistence("append receipt", s.failWith)
	}
	r.Items = append(r.Items[:0:0], r.Items...)
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Receipt, len(s.receipts))
	copy(out, s.receipts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// FailAppends makes every Append fail with err until called with nil.
func (s *InMemoryStore) FailAppends(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}
