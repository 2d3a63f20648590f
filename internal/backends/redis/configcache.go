// Package redis provides the optional read-through cache in front of client
// configuration lookups.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"idvault/internal/types"
)

const clientKeyTemplate = "_idvault_cfg_%s"

// ConfigCache caches client models as JSON values with a per-entry TTL.
// Configuration is insert-only upstream, so there is no invalidation path;
// entries age out on their own.
type ConfigCache struct {
	cli *redis.Client
}

func NewConfigCache(cli *redis.Client) *ConfigCache {
	return &ConfigCache{cli: cli}
}

func (c *ConfigCache) GetClient(ctx context.Context, clientID string) (*types.Client, error) {
	out := c.cli.Get(ctx, clientKey(clientID))
	if out.Err() != nil {
		if errors.Is(out.Err(), redis.Nil) {
			return nil, types.ErrNotFound
		}
		return nil, types.Err(types.ErrUnavailable, out.Err(), "")
	}
	var client types.Client
	if err := json.Unmarshal([]byte(out.Val()), &client); err != nil {
		return nil, types.Err(types.ErrInvalidEntity, err, "cached client %s", clientID)
	}
	return &client, nil
}

func (c *ConfigCache) PutClient(ctx context.Context, client types.Client, ttl time.Duration) error {
	raw, err := json.Marshal(client)
	if err != nil {
		return err
	}
	out := c.cli.Set(ctx, clientKey(client.ClientID), string(raw), ttl)
	if out.Err() != nil {
		return types.Err(types.ErrUnavailable, out.Err(), "")
	}
	return nil
}

func clientKey(id string) string {
	return fmt.Sprintf(clientKeyTemplate, id)
}
