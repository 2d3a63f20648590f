package ports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroScopeIsInvalid(t *testing.T) {
	var scope PartitionScope

	assert.False(t, scope.IsValid())
	assert.False(t, scope.IsCross())
	_, ok := scope.Partition()
	assert.False(t, ok)
}

func TestScopedPartition(t *testing.T) {
	scope := Partition("portal")

	assert.True(t, scope.IsValid())
	assert.False(t, scope.IsCross())
	v, ok := scope.Partition()
	assert.True(t, ok)
	assert.Equal(t, "portal", v)
}

func TestCrossPartitionScope(t *testing.T) {
	scope := CrossPartition()

	assert.True(t, scope.IsValid())
	assert.True(t, scope.IsCross())
	_, ok := scope.Partition()
	assert.False(t, ok)
}

func TestQueryConstructors(t *testing.T) {
	assert.True(t, All().IsEmpty())
	assert.Equal(t, Query{ID: "k1"}, ByID("k1"))
	assert.Equal(t, Query{SubjectID: "alice"}, BySubject("alice"))
	assert.Equal(t, Query{SubjectID: "alice", ClientID: "portal"}, BySubjectAndClient("alice", "portal"))
	assert.Equal(t,
		Query{SubjectID: "alice", ClientID: "portal", GrantType: "user_consent"},
		BySubjectClientAndType("alice", "portal", "user_consent"))

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := ExpiringBefore(at)
	assert.False(t, q.IsEmpty())
	assert.Equal(t, at, *q.ExpiringBefore)
}
