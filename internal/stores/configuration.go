// Package stores layers the typed store surfaces over the document gateway:
// entity-level configuration and grant stores, and the model-facing stores
// the protocol layer consumes. No store holds mutable state; concurrency
// safety is the gateway's problem.
package stores

import (
	"context"

	log "github.com/sirupsen/logrus"

	"idvault/internal/entities"
	"idvault/internal/ports"
	"idvault/internal/types"
)

// ConfigurationStore reads and inserts client/resource entities in the
// shared configuration collection. All configuration documents live under
// fixed per-kind partitions; the collection is small and read-heavy, so that
// skew is acceptable.
type ConfigurationStore struct {
	gw         ports.DocumentGateway
	collection string
	tier       types.ThroughputTier
}

func NewConfigurationStore(gw ports.DocumentGateway, collection string, tier types.ThroughputTier) *ConfigurationStore {
	return &ConfigurationStore{gw: gw, collection: collection, tier: tier}
}

// AddDocument inserts a configuration entity. Callers (the seeding
// collaborator) check for existence first; a collision surfaces as
// types.ErrConflict.
func (s *ConfigurationStore) AddDocument(ctx context.Context, doc ports.Keyed) error {
	return s.gw.CreateDocument(ctx, s.collection, doc)
}

// Clients queries client entities within the client kind partition. An empty
// query returns every registered client.
func (s *ConfigurationStore) Clients(ctx context.Context, q ports.Query) ([]entities.Client, error) {
	var out []entities.Client
	err := s.gw.QueryDocuments(ctx, s.collection, q, ports.Partition(entities.KindClient), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConfigurationStore) IdentityResources(ctx context.Context, q ports.Query) ([]entities.IdentityResource, error) {
	var out []entities.IdentityResource
	err := s.gw.QueryDocuments(ctx, s.collection, q, ports.Partition(entities.KindIdentityResource), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConfigurationStore) ApiResources(ctx context.Context, q ports.Query) ([]entities.ApiResource, error) {
	var out []entities.ApiResource
	err := s.gw.QueryDocuments(ctx, s.collection, q, ports.Partition(entities.KindApiResource), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureCollection provisions the configuration collection with its
// throughput tier. Must complete before any store accepts traffic.
func (s *ConfigurationStore) EnsureCollection(ctx context.Context) error {
	err := s.gw.EnsureCollection(ctx, ports.CollectionSpec{
		Name: s.collection,
		Tier: s.tier,
	})
	if err != nil {
		return err
	}
	log.WithField("collection", s.collection).Debug("configuration collection ready")
	return nil
}
