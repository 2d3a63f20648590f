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

// PersistedGrantStore is the entity-level CRUD surface over the
// persisted-grant collection. Transient gateway errors pass through
// un-retried beyond the gateway's own policy; NotFound on read paths is an
// empty result, not an error.
type PersistedGrantStore struct {
	gw         ports.DocumentGateway
	collection string
	tier       types.ThroughputTier
	partition  types.GrantPartition
}

func NewPersistedGrantStore(gw ports.DocumentGateway, collection string, tier types.ThroughputTier, partition types.GrantPartition) *PersistedGrantStore {
	return &PersistedGrantStore{gw: gw, collection: collection, tier: tier, partition: partition}
}

// Partition reports the deployment's grant partition strategy, so callers
// can build partition-scoped queries that agree with the write path.
func (s *PersistedGrantStore) Partition() types.GrantPartition { return s.partition }

// Add inserts unconditionally. The caller verified the key is absent; a
// collision means it did not, and surfaces as types.ErrConflict.
func (s *PersistedGrantStore) Add(ctx context.Context, grant entities.PersistedGrant) error {
	return s.gw.CreateDocument(ctx, s.collection, grant)
}

// PersistedGrants queries grants in an explicit scope: a partition value for
// the fast path, CrossPartition() for subject-wide and cleanup queries where
// the partition is unknown ahead of time.
func (s *PersistedGrantStore) PersistedGrants(ctx context.Context, q ports.Query, scope ports.PartitionScope) ([]entities.PersistedGrant, error) {
	var out []entities.PersistedGrant
	if err := s.gw.QueryDocuments(ctx, s.collection, q, scope, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the document wholesale. types.ErrNotFound means the grant
// lost a race with a concurrent delete.
func (s *PersistedGrantStore) Update(ctx context.Context, grant entities.PersistedGrant) error {
	return s.gw.ReplaceDocument(ctx, s.collection, grant)
}

// Upsert inserts or replaces by key. Grant keys are globally unique, so the
// filter-based update this replaces always resolved to a single document;
// the coarser write semantics are deliberate.
func (s *PersistedGrantStore) Upsert(ctx context.Context, grant entities.PersistedGrant) error {
	return s.gw.UpsertDocument(ctx, s.collection, grant)
}

func (s *PersistedGrantStore) Remove(ctx context.Context, grant entities.PersistedGrant) error {
	return s.gw.DeleteDocument(ctx, s.collection, grant.DocumentID(), grant.PartitionValue())
}

// RemoveMatching resolves the query and deletes each member individually;
// there is no atomic bulk delete underneath. The loop is best-effort: a
// failed delete is logged and the loop continues, so a partial failure
// leaves some documents deleted and some not. Already-gone documents count
// as removed (a concurrent sweep or revocation got there first). The
// returned error joins every per-item failure.
func (s *PersistedGrantStore) RemoveMatching(ctx context.Context, q ports.Query, scope ports.PartitionScope) (int, error) {
	grants, err := s.PersistedGrants(ctx, q, scope)
	if err != nil {
		return 0, err
	}
	removed := 0
	var errs []error
	for _, g := range grants {
		err := s.Remove(ctx, g)
		switch {
		case err == nil, errors.Is(err, types.ErrNotFound):
			removed++
		default:
			log.WithError(err).WithField("key", g.Key).Warn("failed to remove persisted grant")
			errs = append(errs, types.Err(err, nil, "remove grant %s", g.Key))
		}
	}
	return removed, errors.Join(errs...)
}

// RemoveExpired deletes every grant whose expiration is strictly earlier
// than now. The expiration range index keeps this off the full-scan path;
// grants with no expiration are not in the index and are never touched.
func (s *PersistedGrantStore) RemoveExpired(ctx context.Context, now time.Time) (int, error) {
	return s.RemoveMatching(ctx, ports.ExpiringBefore(now), ports.CrossPartition())
}

func (s *PersistedGrantStore) EnsureCollection(ctx context.Context) error {
	err := s.gw.EnsureCollection(ctx, ports.CollectionSpec{
		Name:            s.collection,
		ExpirationIndex: true,
		Tier:            s.tier,
	})
	if err != nil {
		return err
	}
	log.WithField("collection", s.collection).Debug("persisted grant collection ready")
	return nil
}
