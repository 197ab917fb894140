package ticket

import (
	"context"
	"sort"
	"sync"
	"time"

	"tapin/internal/core"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]Ticket
	feed    core.Feed[Ticket]

	// failPut, when set, is returned by the next failPuts calls to Put
	// (every call when failPuts is 0). Tests use it to simulate an
	// unavailable store.
	failPut  error
	failPuts int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tickets: make(map[string]Ticket)}
}

func (s *InMemoryStore) Get(ctx context.Context, tableID string) (Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[tableID]
	if !ok {
		return Cleared(tableID), nil
	}
	return t.Clone(), nil
}

func (s *InMemoryStore) Put(ctx context.Context, t Ticket) error {
	s.mu.Lock()
	if s.failPut != nil {
		err := s.failPut
		if s.failPuts > 0 {
			s.failPuts--
			if s.failPuts == 0 {
				s.failPut = nil
			}
		}
		s.mu.Unlock()
		return core.Persistence("put ticket", err)
	}

	stored := t.Clone()
	stored.UpdatedAt = time.Now()
	s.tickets[t.TableID] = stored
	s.mu.Unlock()

	s.feed.Publish(stored.Clone())
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableID < out[j].TableID })
	return out, nil
}

func (s *InMemoryStore) Subscribe(
	ctx context.Context,
	tableID string,
	fn func(Ticket),
) (core.Subscription, error) {
	current, _ := s.Get(ctx, tableID)

	return s.feed.Subscribe(
		ctx,
		func(t Ticket) bool { return t.TableID == tableID },
		&current,
		fn,
	), nil
}

// FailPuts makes the next n calls to Put fail with err, or every call
// when n is 0. Pass a nil err to recover.
func (s *InMemoryStore) FailPuts(err error, n int) {
	s.mu.Lock()
	s.failPut = err
	s.failPuts = n
	s.mu.Unlock()
}
