package ports

import (
	"context"
	"time"

	"idvault/internal/entities"
	"idvault/internal/types"
)

// ConfigurationStore is the entity-level surface over the shared
// configuration collection. The collection is multi-tenant across entity
// kinds; callers scope every read to a kind partition.
type ConfigurationStore interface {
	// AddDocument inserts a configuration entity. types.ErrConflict on id
	// collision; dedup-before-insert is the seeding collaborator's job.
	AddDocument(ctx context.Context, doc Keyed) error

	// Clients / IdentityResources / ApiResources query within the kind
	// partition. An empty query returns every document of that kind.
	Clients(ctx context.Context, q Query) ([]entities.Client, error)
	IdentityResources(ctx context.Context, q Query) ([]entities.IdentityResource, error)
	ApiResources(ctx context.Context, q Query) ([]entities.ApiResource, error)

	// EnsureCollection provisions the configuration collection, including
	// its throughput tier. Fatal at startup if it fails.
	EnsureCollection(ctx context.Context) error
}

// GrantStore is the entity-level surface over the persisted-grant
// collection.
type GrantStore interface {
	// Add inserts unconditionally; the caller has already checked the key is
	// absent.
	Add(ctx context.Context, grant entities.PersistedGrant) error

	// PersistedGrants queries grants. Scope must be explicit: a partition
	// value for the fast path, CrossPartition() for subject-wide and cleanup
	// queries.
	PersistedGrants(ctx context.Context, q Query, scope PartitionScope) ([]entities.PersistedGrant, error)

	// Update replaces the grant document by id. types.ErrNotFound if it no
	// longer exists.
	Update(ctx context.Context, grant entities.PersistedGrant) error

	// Upsert inserts or replaces by the grant's unique key. Grant keys are
	// globally unique, so the filter-shaped update of the original design
	// collapses to this single-document operation.
	Upsert(ctx context.Context, grant entities.PersistedGrant) error

	Remove(ctx context.Context, grant entities.PersistedGrant) error

	// RemoveMatching resolves the query to a result set and deletes each
	// member individually, continuing past per-item failures. Partial
	// failure leaves a mix of deleted and surviving documents; the joined
	// error reports every failed key.
	RemoveMatching(ctx context.Context, q Query, scope PartitionScope) (int, error)

	// RemoveExpired deletes every grant whose expiration is strictly before
	// now. Grants without an expiration are never touched.
	RemoveExpired(ctx context.Context, now time.Time) (int, error)

	EnsureCollection(ctx context.Context) error
}

// ClientReader resolves client registrations for the protocol layer.
type ClientReader interface {
	// FindClientByID returns nil (no error) when the client is unknown.
	FindClientByID(ctx context.Context, clientID string) (*types.Client, error)
}

// ResourceReader resolves identity and API resources for discovery and token
// issuance.
type ResourceReader interface {
	FindIdentityResourcesByScope(ctx context.Context, scopeNames []string) ([]types.IdentityResource, error)
	FindApiResourcesByScope(ctx context.Context, scopeNames []string) ([]types.ApiResource, error)
	FindApiResource(ctx context.Context, name string) (*types.ApiResource, error)
	GetAllResources(ctx context.Context) (*types.Resources, error)
}

// GrantReadWriter is the model-facing grant lifecycle used by the token and
// authorization endpoints.
type GrantReadWriter interface {
	// Store inserts or refreshes a grant under its key. Failures are logged
	// and not propagated, so one persistence hiccup does not fail an entire
	// protocol flow.
	Store(ctx context.Context, grant types.PersistedGrant)

	// Get returns nil (no error) when the key is unknown.
	Get(ctx context.Context, key string) (*types.PersistedGrant, error)

	// GetAll returns every grant for a subject, across partitions.
	GetAll(ctx context.Context, subjectID string) ([]types.PersistedGrant, error)

	Remove(ctx context.Context, key string) error
	RemoveAll(ctx context.Context, subjectID, clientID string) error
	RemoveAllOfType(ctx context.Context, subjectID, clientID, grantType string) error
}
