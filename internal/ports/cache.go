package ports

import (
	"context"
	"time"

	"idvault/internal/types"
)

// ConfigCache is a read-through cache over client configuration lookups.
// Implementations MUST return types.ErrNotFound on a miss; absence is never
// cached. Configuration documents are insert-only, so no invalidation path
// exists.
type ConfigCache interface {
	GetClient(ctx context.Context, clientID string) (*types.Client, error)
	PutClient(ctx context.Context, client types.Client, ttl time.Duration) error
}
