package ports

import (
	"context"
	"time"

	"idvault/internal/types"
)

// Keyed is anything addressable as a document: a partition value for routing
// and an id unique within that partition.
type Keyed interface {
	DocumentID() string
	PartitionValue() string
}

// PartitionScope says which partitions a query touches. The zero value is
// invalid; callers pick Partition(v) or CrossPartition() explicitly. A
// cross-partition scan is materially more expensive and is never implied.
type PartitionScope struct {
	partition string
	cross     bool
	valid     bool
}

func Partition(value string) PartitionScope {
	return PartitionScope{partition: value, valid: true}
}

func CrossPartition() PartitionScope {
	return PartitionScope{cross: true, valid: true}
}

func (s PartitionScope) Partition() (string, bool) { return s.partition, s.valid && !s.cross }
func (s PartitionScope) IsCross() bool             { return s.valid && s.cross }
func (s PartitionScope) IsValid() bool             { return s.valid }

// Query is a closed set of named, parameterized query shapes. There is no
// arbitrary-predicate surface; every shape the stores need has a constructor
// here, which keeps index design tractable on the backend.
type Query struct {
	// ID matches the document id (grant key, client id, resource name).
	ID string
	// SubjectID / ClientID / GrantType match persisted-grant attributes.
	SubjectID string
	ClientID  string
	GrantType string
	// ExpiringBefore matches grants with a set expiration strictly earlier
	// than the given instant. Grants with no expiration never match.
	ExpiringBefore *time.Time
}

// All matches every document in the queried scope.
func All() Query { return Query{} }

func ByID(id string) Query { return Query{ID: id} }

func BySubject(subjectID string) Query { return Query{SubjectID: subjectID} }

func BySubjectAndClient(subjectID, clientID string) Query {
	return Query{SubjectID: subjectID, ClientID: clientID}
}

func BySubjectClientAndType(subjectID, clientID, grantType string) Query {
	return Query{SubjectID: subjectID, ClientID: clientID, GrantType: grantType}
}

func ExpiringBefore(t time.Time) Query { return Query{ExpiringBefore: &t} }

// IsEmpty reports whether the query matches unconditionally.
func (q Query) IsEmpty() bool {
	return q.ID == "" && q.SubjectID == "" && q.ClientID == "" && q.GrantType == "" &&
		q.ExpiringBefore == nil
}

// CollectionSpec declares a collection the provisioner must guarantee before
// any store accepts traffic.
type CollectionSpec struct {
	Name string
	// ExpirationIndex adds a range index over the expiration attribute so
	// expiry sweeps do not scan the whole collection.
	ExpirationIndex bool
	Tier            types.ThroughputTier
}

// DocumentGateway is the capability surface required from the document
// database: typed create/query/replace/delete over collections plus
// idempotent collection provisioning. Implementations own retry/backoff
// policy for throttled and unavailable responses, drain paged result sets
// transparently, and must be safe for concurrent use by many callers sharing
// one instance.
//
// Error taxonomy: types.ErrConflict (id collision on create, replace race),
// types.ErrNotFound (replace/delete of a missing id), types.ErrThrottled and
// types.ErrUnavailable after retries are exhausted.
type DocumentGateway interface {
	// CreateDocument inserts doc. It fails with types.ErrConflict when a
	// document with the same partition/id already exists.
	CreateDocument(ctx context.Context, collection string, doc Keyed) error

	// QueryDocuments runs a query shape in the given scope and unmarshals the
	// fully drained result set into out, a pointer to a slice of entities.
	// An empty result is not an error.
	QueryDocuments(ctx context.Context, collection string, q Query, scope PartitionScope, out any) error

	// ReplaceDocument overwrites the document with doc's partition/id. It
	// fails with types.ErrNotFound when the document no longer exists.
	ReplaceDocument(ctx context.Context, collection string, doc Keyed) error

	// UpsertDocument writes doc whether or not it already exists.
	UpsertDocument(ctx context.Context, collection string, doc Keyed) error

	DeleteDocument(ctx context.Context, collection, id, partition string) error

	// EnsureCollection creates the collection if absent and returns once it
	// is ready for traffic. Calling it again for an existing collection is a
	// no-op.
	EnsureCollection(ctx context.Context, spec CollectionSpec) error
}
