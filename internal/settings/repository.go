package settings

import "context"

// Store holds the global settings. Get reports found=false when
// nothing has been saved yet.
type Store interface {
	Get(ctx context.Context) (s Settings, found bool, err error)
	Put(ctx context.Context, s Settings) error
}
