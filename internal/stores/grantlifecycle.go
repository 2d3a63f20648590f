package stores

import (
	"context"

	log "github.com/sirupsen/logrus"

	"idvault/internal/entities"
	"idvault/internal/ports"
	"idvault/internal/types"
)

// GrantStore is the model-facing grant lifecycle used by the token and
// authorization endpoints. It maps models at the boundary and scopes queries
// to a single partition whenever the grant in hand makes that possible.
type GrantStore struct {
	grants    ports.GrantStore
	partition types.GrantPartition
}

func NewGrantStore(grants ports.GrantStore, partition types.GrantPartition) *GrantStore {
	return &GrantStore{grants: grants, partition: partition}
}

// Store inserts a new grant or refreshes an existing one under the same key.
// A persistence failure is logged, not propagated: one lost grant write must
// not fail a whole protocol flow. The core entity store underneath never
// swallows errors; that policy lives only here.
func (s *GrantStore) Store(ctx context.Context, grant types.PersistedGrant) {
	entity, err := entities.GrantToEntity(grant, s.partition)
	if err != nil {
		log.WithError(err).WithField("key", grant.Key).Error("grant cannot be mapped for storage")
		return
	}

	// The write path knows the partition, so the existence probe stays on
	// the scoped fast path.
	existing, err := s.grants.PersistedGrants(ctx, ports.ByID(entity.Key), ports.Partition(entity.PartitionValue()))
	if err != nil {
		log.WithError(err).WithField("key", grant.Key).Error("failed to probe persisted grant")
		return
	}

	if len(existing) == 0 {
		log.WithField("key", grant.Key).Debug("grant not present, inserting")
		err = s.grants.Add(ctx, entity)
	} else {
		log.WithField("key", grant.Key).Debug("grant present, replacing")
		err = s.grants.Upsert(ctx, entity)
	}
	if err != nil {
		log.WithError(err).WithField("key", grant.Key).Error("failed to store persisted grant")
	}
}

// Get returns the grant for key, or nil when absent. The partition is
// unknown from a bare key, so this is a cross-partition lookup.
func (s *GrantStore) Get(ctx context.Context, key string) (*types.PersistedGrant, error) {
	found, err := s.grants.PersistedGrants(ctx, ports.ByID(key), ports.CrossPartition())
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		log.WithField("key", key).Debug("grant not found in database")
		return nil, nil
	}
	model, err := entities.GrantToModel(found[0])
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// GetAll returns every grant held for a subject, across all partitions.
func (s *GrantStore) GetAll(ctx context.Context, subjectID string) ([]types.PersistedGrant, error) {
	found, err := s.grants.PersistedGrants(ctx, ports.BySubject(subjectID), ports.CrossPartition())
	if err != nil {
		return nil, err
	}
	out := make([]types.PersistedGrant, 0, len(found))
	for _, e := range found {
		m, err := entities.GrantToModel(e)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	log.WithField("subject_id", subjectID).Debugf("%d persisted grants found", len(out))
	return out, nil
}

// Remove deletes the grant for key. A key that is already gone is not an
// error; a revocation racing the expiry sweep settles as absent either way.
func (s *GrantStore) Remove(ctx context.Context, key string) error {
	_, err := s.grants.RemoveMatching(ctx, ports.ByID(key), ports.CrossPartition())
	return err
}

// RemoveAll deletes every grant matching both subject and client.
func (s *GrantStore) RemoveAll(ctx context.Context, subjectID, clientID string) error {
	n, err := s.grants.RemoveMatching(ctx, ports.BySubjectAndClient(subjectID, clientID), s.scopeFor(subjectID, clientID))
	log.WithFields(log.Fields{"subject_id": subjectID, "client_id": clientID}).
		Debugf("removed %d persisted grants", n)
	return err
}

// RemoveAllOfType deletes every grant matching subject, client and grant
// type.
func (s *GrantStore) RemoveAllOfType(ctx context.Context, subjectID, clientID, grantType string) error {
	n, err := s.grants.RemoveMatching(ctx,
		ports.BySubjectClientAndType(subjectID, clientID, grantType), s.scopeFor(subjectID, clientID))
	log.WithFields(log.Fields{"subject_id": subjectID, "client_id": clientID, "type": grantType}).
		Debugf("removed %d persisted grants", n)
	return err
}

// scopeFor narrows bulk removals to the partition the deployment's strategy
// routes by. Both ids are known here, so the removal never needs a
// cross-partition scan.
func (s *GrantStore) scopeFor(subjectID, clientID string) ports.PartitionScope {
	if s.partition == types.GrantPartitionSubject {
		return ports.Partition(subjectID)
	}
	return ports.Partition(clientID)
}
