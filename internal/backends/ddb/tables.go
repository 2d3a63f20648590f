package ddb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"

	"idvault/internal/ports"
	"idvault/internal/types"
)

const tableReadyTimeout = 60 * time.Second

// capacity is provisioned read/write units for one collection.
type capacity struct {
	read  int64
	write int64
}

// tierCapacities is the static named-tier lookup table, resolved once at
// provisioning time. It is not re-tunable per call.
var tierCapacities = map[types.ThroughputTier]capacity{
	types.TierGlobal:   {read: 100, write: 100},
	types.TierStandard: {read: 25, write: 25},
	types.TierMinimal:  {read: 5, write: 5},
}

// capacityFor resolves a tier name; unknown tiers fall back to Minimal.
func capacityFor(tier types.ThroughputTier) capacity {
	if c, ok := tierCapacities[tier]; ok {
		return c
	}
	log.WithField("tier", tier).Warn("unknown throughput tier, using Minimal")
	return tierCapacities[types.TierMinimal]
}

// EnsureCollection creates the table if absent and blocks until it is ready
// for traffic. An already existing table is a no-op. Stores must not accept
// calls before this returns.
func (g *Gateway) EnsureCollection(ctx context.Context, spec ports.CollectionSpec) error {
	in := buildCreateTableInput(spec)
	log.WithFields(log.Fields{"collection": spec.Name, "tier": spec.Tier}).
		Debug("ensuring collection exists")

	_, err := g.cli.CreateTable(ctx, in)
	if err != nil {
		var inUse *ddbTypes.ResourceInUseException
		if !errors.As(err, &inUse) {
			return types.Err(types.ErrUnavailable, err, "create collection %s", spec.Name)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(g.cli)
	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: &spec.Name}, tableReadyTimeout)
	if err != nil {
		return types.Err(types.ErrUnavailable, err, "collection %s not ready", spec.Name)
	}
	return nil
}

func buildCreateTableInput(spec ports.CollectionSpec) *dynamodb.CreateTableInput {
	cu := capacityFor(spec.Tier)
	in := &dynamodb.CreateTableInput{
		TableName: &spec.Name,
		AttributeDefinitions: []ddbTypes.AttributeDefinition{
			{AttributeName: awsString("pk"), AttributeType: ddbTypes.ScalarAttributeTypeS},
			{AttributeName: awsString("id"), AttributeType: ddbTypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbTypes.KeySchemaElement{
			{AttributeName: awsString("pk"), KeyType: ddbTypes.KeyTypeHash},
			{AttributeName: awsString("id"), KeyType: ddbTypes.KeyTypeRange},
		},
		ProvisionedThroughput: &ddbTypes.ProvisionedThroughput{
			ReadCapacityUnits:  &cu.read,
			WriteCapacityUnits: &cu.write,
		},
	}
	if spec.ExpirationIndex {
		in.AttributeDefinitions = append(in.AttributeDefinitions,
			ddbTypes.AttributeDefinition{AttributeName: awsString(gsiAttr), AttributeType: ddbTypes.ScalarAttributeTypeS},
			ddbTypes.AttributeDefinition{AttributeName: awsString(expirationAttr), AttributeType: ddbTypes.ScalarAttributeTypeS},
		)
		in.GlobalSecondaryIndexes = []ddbTypes.GlobalSecondaryIndex{
			{
				IndexName: awsString(ExpirationIndexName),
				KeySchema: []ddbTypes.KeySchemaElement{
					{AttributeName: awsString(gsiAttr), KeyType: ddbTypes.KeyTypeHash},
					{AttributeName: awsString(expirationAttr), KeyType: ddbTypes.KeyTypeRange},
				},
				Projection: &ddbTypes.Projection{ProjectionType: ddbTypes.ProjectionTypeAll},
				ProvisionedThroughput: &ddbTypes.ProvisionedThroughput{
					ReadCapacityUnits:  &cu.read,
					WriteCapacityUnits: &cu.write,
				},
			},
		}
	}
	return in
}
