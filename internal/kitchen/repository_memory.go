package kitchen

import (
	"context"
	"sort"
	"sync"
	"time"

	"tapin/internal/core"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	orders map[string]Order
	rev    int64
	feed   core.Feed[int64]
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{orders: make(map[string]Order)}
}

func (s *InMemoryStore) Create(ctx context.Context, o Order) error {
	s.mu.Lock()
	if _, exists := s.orders[o.ID]; exists {
		s.mu.Unlock()
		return core.Validation("kitchen order %s already exists", o.ID)
	}
	s.orders[o.ID] = cloneOrder(o)
	s.rev++
	rev := s.rev
	s.mu.Unlock()

	s.feed.Publish(rev)
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, core.NotFound("kitchen order", id)
	}
	return cloneOrder(o), nil
}

func (s *InMemoryStore) UpdateStatus(ctx context.Context, id string, next Status) (Order, error) {
	s.mu.Lock()
	o, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return Order{}, core.NotFound("kitchen order", id)
	}
	if err := transition(&o, next, time.Now()); err != nil {
		s.mu.Unlock()
		return Order{}, err
	}
	s.orders[id] = o
	s.rev++
	rev := s.rev
	s.mu.Unlock()

	s.feed.Publish(rev)
	return cloneOrder(o), nil
}

func (s *InMemoryStore) ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if hasStatus(o.Status, statuses) {
			out = append(out, cloneOrder(o))
		}
	}
	sortOldestFirst(out)
	return out, nil
}

func (s *InMemoryStore) Subscribe(
	ctx context.Context,
	statuses []Status,
	fn func([]Order),
) (core.Subscription, error) {
	s.mu.RLock()
	rev := s.rev
	s.mu.RUnlock()

	return s.feed.Subscribe(ctx, nil, &rev, func(int64) {
		orders, err := s.ListByStatus(ctx, statuses...)
		if err == nil {
			fn(orders)
		}
	}), nil
}

func cloneOrder(o Order) Order {
	out := o
	out.Items = append(o.Items[:0:0], o.Items...)
	return out
}

func sortOldestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].Number < orders[j].Number
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
