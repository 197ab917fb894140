package core

import (
	"context"
	"sync"
)

// Subscription is the handle returned by every Subscribe call.
// Unsubscribe stops delivery and releases the listener; it is safe to
// call more than once.
type Subscription interface {
	Unsubscribe()
}

type listener struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Listen runs fn on its own goroutine until Unsubscribe cancels ctx.
// Unsubscribe blocks until fn has returned.
func Listen(parent context.Context, fn func(ctx context.Context)) Subscription {
	ctx, cancel := context.WithCancel(parent)
	l := &listener{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(l.done)
		fn(ctx)
	}()

	return l
}

func (l *listener) Unsubscribe() {
	l.once.Do(func() {
		l.cancel()
		<-l.done
	})
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() {
	f()
}
