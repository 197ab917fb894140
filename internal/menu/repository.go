package menu

import "context"

// Repository is the read side of the menu store.
type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
}
