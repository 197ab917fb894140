package receipt

import "context"

// Store is append-only. List returns newest first.
type Store interface {
	Append(ctx context.Context, r Receipt) error
	List(ctx context.Context) ([]Receipt, error)
}
