package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"idvault/internal/entities"
	"idvault/internal/ports"
	"idvault/internal/types"
)

// fakeGateway is an in-memory ports.DocumentGateway that honors partition
// semantics: scoped queries only see their partition, cross-partition
// queries see everything. Documents are held as JSON so the same shapes the
// real gateway marshals round-trip here too.
type fakeGateway struct {
	mu          sync.Mutex
	collections map[string]map[docKey][]byte

	ensured     []ports.CollectionSpec
	ensureCalls int

	failDelete map[string]error // document id -> injected error
	queryErr   error
}

type docKey struct {
	partition string
	id        string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		collections: map[string]map[docKey][]byte{},
		failDelete:  map[string]error{},
	}
}

func (f *fakeGateway) docs(collection string) map[docKey][]byte {
	c, ok := f.collections[collection]
	if !ok {
		c = map[docKey][]byte{}
		f.collections[collection] = c
	}
	return c
}

func (f *fakeGateway) CreateDocument(_ context.Context, collection string, doc ports.Keyed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := docKey{partition: doc.PartitionValue(), id: doc.DocumentID()}
	c := f.docs(collection)
	if _, exists := c[key]; exists {
		return types.Err(types.ErrConflict, nil, "document %s exists", doc.DocumentID())
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c[key] = raw
	return nil
}

func (f *fakeGateway) ReplaceDocument(_ context.Context, collection string, doc ports.Keyed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := docKey{partition: doc.PartitionValue(), id: doc.DocumentID()}
	c := f.docs(collection)
	if _, exists := c[key]; !exists {
		return types.Err(types.ErrNotFound, nil, "document %s missing", doc.DocumentID())
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c[key] = raw
	return nil
}

func (f *fakeGateway) UpsertDocument(_ context.Context, collection string, doc ports.Keyed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f.docs(collection)[docKey{partition: doc.PartitionValue(), id: doc.DocumentID()}] = raw
	return nil
}

func (f *fakeGateway) DeleteDocument(_ context.Context, collection, id, partition string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failDelete[id]; ok {
		return err
	}
	key := docKey{partition: partition, id: id}
	c := f.docs(collection)
	if _, exists := c[key]; !exists {
		return types.Err(types.ErrNotFound, nil, "document %s missing", id)
	}
	delete(c, key)
	return nil
}

func (f *fakeGateway) QueryDocuments(_ context.Context, collection string, q ports.Query, scope ports.PartitionScope, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return f.queryErr
	}
	if !scope.IsValid() {
		return types.Err(types.ErrInvalidEntity, nil, "query without partition scope")
	}

	var matched [][]byte
	for key, raw := range f.docs(collection) {
		if partition, ok := scope.Partition(); ok && key.partition != partition {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return err
		}
		if matches(q, fields) {
			matched = append(matched, raw)
		}
	}

	// Rebuild a JSON array so out gets the same unmarshal treatment the
	// real gateway applies.
	arr := []byte("[")
	for i, raw := range matched {
		if i > 0 {
			arr = append(arr, ',')
		}
		arr = append(arr, raw...)
	}
	arr = append(arr, ']')
	return json.Unmarshal(arr, out)
}

func matches(q ports.Query, doc map[string]any) bool {
	str := func(field string) string {
		v, _ := doc[field].(string)
		return v
	}
	if q.ID != "" && str("id") != q.ID {
		return false
	}
	if q.SubjectID != "" && str("subject_id") != q.SubjectID {
		return false
	}
	if q.ClientID != "" && str("client_id") != q.ClientID {
		return false
	}
	if q.GrantType != "" && str("type") != q.GrantType {
		return false
	}
	if q.ExpiringBefore != nil {
		exp := str("expiration")
		// Timestamps are fixed-width, so string order is time order.
		if exp == "" || exp >= q.ExpiringBefore.UTC().Format(entities.TimeLayout) {
			return false
		}
	}
	return true
}

func (f *fakeGateway) EnsureCollection(_ context.Context, spec ports.CollectionSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	for _, s := range f.ensured {
		if s.Name == spec.Name {
			if s != spec {
				return fmt.Errorf("collection %s redeclared with different spec", spec.Name)
			}
			return nil
		}
	}
	f.ensured = append(f.ensured, spec)
	f.docs(spec.Name)
	return nil
}

// count reports how many documents a collection holds, across partitions.
func (f *fakeGateway) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs(collection))
}
