package stores

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"idvault/internal/entities"
	"idvault/internal/ports"
	"idvault/internal/types"
)

const defaultClientCacheTTL = 5 * time.Minute

// ClientStore resolves client registrations for the protocol layer. An
// optional read-through cache fronts the document store; client
// configuration is insert-only, so cached entries only ever go stale by TTL.
type ClientStore struct {
	cfg      ports.ConfigurationStore
	cache    ports.ConfigCache
	cacheTTL time.Duration
}

func NewClientStore(cfg ports.ConfigurationStore) *ClientStore {
	return &ClientStore{cfg: cfg, cacheTTL: defaultClientCacheTTL}
}

// WithCache attaches a read-through cache. ttl <= 0 keeps the default.
func (s *ClientStore) WithCache(cache ports.ConfigCache, ttl time.Duration) *ClientStore {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

// FindClientByID returns the client model or nil when unknown. Cache
// failures degrade to a store read; they never fail the lookup.
func (s *ClientStore) FindClientByID(ctx context.Context, clientID string) (*types.Client, error) {
	if s.cache != nil {
		cached, err := s.cache.GetClient(ctx, clientID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			log.WithError(err).WithField("client_id", clientID).Warn("client cache read failed")
		}
	}

	found, err := s.cfg.Clients(ctx, ports.ByID(clientID))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		log.WithField("client_id", clientID).Debug("client not found in database")
		return nil, nil
	}
	model, err := entities.ClientToModel(found[0])
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.PutClient(ctx, model, s.cacheTTL); err != nil {
			log.WithError(err).WithField("client_id", clientID).Warn("client cache write failed")
		}
	}
	return &model, nil
}
