package kitchen

import (
	"context"

	"tapin/internal/core"
)

// Store persists kitchen orders.
type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)

	// UpdateStatus checks and applies a transition in one write. An
	// illegal move is a ValidationError and leaves the order unchanged.
	UpdateStatus(ctx context.Context, id string, next Status) (Order, error)

	// ListByStatus returns matching orders, oldest first. No statuses
	// means all orders.
	ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error)

	// Subscribe delivers the current matching list, then the list again
	// after every change.
	Subscribe(ctx context.Context, statuses []Status, fn func([]Order)) (core.Subscription, error)
}
