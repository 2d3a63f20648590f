package ddb

import (
	"testing"

	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idvault/internal/ports"
	"idvault/internal/types"
)

func TestCapacityForTiers(t *testing.T) {
	assert.Equal(t, capacity{read: 100, write: 100}, capacityFor(types.TierGlobal))
	assert.Equal(t, capacity{read: 25, write: 25}, capacityFor(types.TierStandard))
	assert.Equal(t, capacity{read: 5, write: 5}, capacityFor(types.TierMinimal))
}

func TestCapacityForUnknownTierFallsBackToMinimal(t *testing.T) {
	assert.Equal(t, tierCapacities[types.TierMinimal], capacityFor(types.ThroughputTier("turbo")))
}

func TestBuildCreateTableInputKeySchema(t *testing.T) {
	in := buildCreateTableInput(ports.CollectionSpec{Name: "idvault_configurations", Tier: types.TierStandard})

	assert.Equal(t, "idvault_configurations", *in.TableName)
	require.Len(t, in.KeySchema, 2)
	assert.Equal(t, "pk", *in.KeySchema[0].AttributeName)
	assert.Equal(t, ddbTypes.KeyTypeHash, in.KeySchema[0].KeyType)
	assert.Equal(t, "id", *in.KeySchema[1].AttributeName)
	assert.Equal(t, ddbTypes.KeyTypeRange, in.KeySchema[1].KeyType)
	assert.Equal(t, int64(25), *in.ProvisionedThroughput.ReadCapacityUnits)
	assert.Equal(t, int64(25), *in.ProvisionedThroughput.WriteCapacityUnits)
	assert.Empty(t, in.GlobalSecondaryIndexes)
	assert.Len(t, in.AttributeDefinitions, 2)
}

func TestBuildCreateTableInputExpirationIndex(t *testing.T) {
	in := buildCreateTableInput(ports.CollectionSpec{
		Name:            "idvault_persisted_grants",
		ExpirationIndex: true,
		Tier:            types.TierGlobal,
	})

	require.Len(t, in.GlobalSecondaryIndexes, 1)
	gsi := in.GlobalSecondaryIndexes[0]
	assert.Equal(t, ExpirationIndexName, *gsi.IndexName)
	require.Len(t, gsi.KeySchema, 2)
	assert.Equal(t, gsiAttr, *gsi.KeySchema[0].AttributeName)
	assert.Equal(t, ddbTypes.KeyTypeHash, gsi.KeySchema[0].KeyType)
	assert.Equal(t, expirationAttr, *gsi.KeySchema[1].AttributeName)
	assert.Equal(t, ddbTypes.KeyTypeRange, gsi.KeySchema[1].KeyType)
	assert.Equal(t, ddbTypes.ProjectionTypeAll, gsi.Projection.ProjectionType)
	assert.Equal(t, int64(100), *gsi.ProvisionedThroughput.ReadCapacityUnits)

	// Index key attributes have to be declared alongside the table keys.
	assert.Len(t, in.AttributeDefinitions, 4)
}
