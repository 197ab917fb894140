package ticket

import (
	"context"

	"tapin/internal/core"
)

// Store persists tickets. Get on an untouched table returns an empty
// ticket rather than an error. Put replaces the whole ticket.
type Store interface {
	Get(ctx context.Context, tableID string) (Ticket, error)
	Put(ctx context.Context, t Ticket) error
	List(ctx context.Context) ([]Ticket, error)

	// Subscribe delivers the current ticket and every later change
	// until the returned subscription is cancelled.
	Subscribe(ctx context.Context, tableID string, fn func(Ticket)) (core.Subscription, error)
}
