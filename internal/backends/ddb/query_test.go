package ddb

import (
	"testing"
	"time"

	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idvault/internal/entities"
	"idvault/internal/ports"
)

func strAttr(t *testing.T, p plan, key string) string {
	t.Helper()
	av, ok := p.values[key]
	require.True(t, ok, "expression value %s missing", key)
	s, ok := av.(*ddbTypes.AttributeValueMemberS)
	require.True(t, ok, "expression value %s is not a string", key)
	return s.Value
}

func TestCompileScopedByID(t *testing.T) {
	p := compile(ports.ByID("ghost-7"), ports.Partition("alice"))

	assert.Equal(t, "#pk = :pk AND #id = :id", p.keyCondition)
	assert.Empty(t, p.filter)
	assert.Nil(t, p.index)
	assert.Equal(t, "alice", strAttr(t, p, ":pk"))
	assert.Equal(t, "ghost-7", strAttr(t, p, ":id"))
}

func TestCompileScopedWithAttributeFilters(t *testing.T) {
	p := compile(ports.BySubjectClientAndType("alice", "portal", "refresh_token"), ports.Partition("portal"))

	assert.Equal(t, "#pk = :pk", p.keyCondition)
	assert.Equal(t, "#sid = :sid AND #cid = :cid AND #t = :t", p.filter)
	assert.Nil(t, p.index)
	assert.Equal(t, "subject_id", p.names["#sid"])
	assert.Equal(t, "client_id", p.names["#cid"])
	assert.Equal(t, "type", p.names["#t"])
	assert.Equal(t, "refresh_token", strAttr(t, p, ":t"))
}

func TestCompileExpiryRidesIndex(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	p := compile(ports.ExpiringBefore(at), ports.CrossPartition())

	require.NotNil(t, p.index)
	assert.Equal(t, ExpirationIndexName, *p.index)
	assert.Equal(t, "#gsi = :gsi AND #exp < :exp", p.keyCondition)
	assert.Empty(t, p.filter)
	assert.Equal(t, "grant", strAttr(t, p, ":gsi"))
	assert.Equal(t, at.Format(entities.TimeLayout), strAttr(t, p, ":exp"))
}

func TestCompileScopedExpiryStaysOffIndex(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	p := compile(ports.ExpiringBefore(at), ports.Partition("portal"))

	assert.Nil(t, p.index)
	assert.Equal(t, "#pk = :pk", p.keyCondition)
	assert.Equal(t, "#exp < :exp", p.filter)
}

func TestCompileExpiryTimeIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 3, 14, 11, 0, 0, 0, loc)
	p := compile(ports.ExpiringBefore(at), ports.CrossPartition())

	assert.Equal(t, "2026-03-14T09:00:00.000000000Z", strAttr(t, p, ":exp"))
}

func TestCompileCrossPartitionScan(t *testing.T) {
	p := compile(ports.ByID("ghost-7"), ports.CrossPartition())

	assert.Empty(t, p.keyCondition)
	assert.Nil(t, p.index)
	assert.Equal(t, "#id = :id", p.filter)
	assert.Equal(t, "ghost-7", strAttr(t, p, ":id"))
}

func TestCompileUnfilteredScanHasNoExpressions(t *testing.T) {
	p := compile(ports.All(), ports.CrossPartition())

	assert.Empty(t, p.keyCondition)
	assert.Empty(t, p.filter)
	assert.Nil(t, p.names)
	assert.Nil(t, p.values)
}
