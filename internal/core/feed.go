package core

import (
	"context"
	"sync"
)

// Feed fans values out to subscribers. Each subscriber runs on its own
// goroutine and always receives the most recent matching value;
// intermediate values may be skipped when a subscriber falls behind.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[int]*feedSub[T]
	next int
}

type feedSub[T any] struct {
	match   func(T) bool
	mu      sync.Mutex
	pending *T
	signal  chan struct{}
}

// Subscribe registers fn. If initial is non-nil it is delivered first.
func (f *Feed[T]) Subscribe(
	ctx context.Context,
	match func(T) bool,
	initial *T,
	fn func(T),
) Subscription {
	sub := &feedSub[T]{match: match, signal: make(chan struct{}, 1)}
	if initial != nil {
		sub.offer(*initial)
	}

	f.mu.Lock()
	if f.subs == nil {
		f.subs = make(map[int]*feedSub[T])
	}
	id := f.next
	f.next++
	f.subs[id] = sub
	f.mu.Unlock()

	listening := Listen(ctx, func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.signal:
				if v, ok := sub.take(); ok {
					fn(v)
				}
			}
		}
	})

	return SubscriptionFunc(func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		listening.Unsubscribe()
	})
}

// Publish offers v to every subscriber whose filter matches.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.match == nil || sub.match(v) {
			sub.offer(v)
		}
	}
}

func (s *feedSub[T]) offer(v T) {
	s.mu.Lock()
	s.pending = &v
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *feedSub[T]) take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		var zero T
		return zero, false
	}
	v := *s.pending
	s.pending = nil
	return v, true
}
