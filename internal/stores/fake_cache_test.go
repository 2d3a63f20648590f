package stores

import (
	"context"
	"sync"
	"time"

	"idvault/internal/types"
)

// fakeCache is an in-memory ports.ConfigCache. TTLs are ignored; entries
// live until the test ends.
type fakeCache struct {
	mu      sync.Mutex
	clients map[string]types.Client
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{clients: map[string]types.Client{}}
}

func (c *fakeCache) GetClient(_ context.Context, clientID string) (*types.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	client, ok := c.clients[clientID]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &client, nil
}

func (c *fakeCache) PutClient(_ context.Context, client types.Client, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients[client.ClientID] = client
	c.puts++
	return nil
}
