// Package ddb binds the document-store capability surface to DynamoDB:
// tables are collections, hash keys are partition keys, scans are
// cross-partition queries and a global secondary index carries the
// expiration range predicate.
package ddb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"

	"idvault/internal/ports"
	"idvault/internal/types"
)

const (
	defaultMaxAttempts = 4
	maxRetryInterval   = 2 * time.Second
)

// Gateway implements ports.DocumentGateway on a shared *dynamodb.Client.
// Retry policy lives here and only here: throttled and unavailable responses
// are retried with exponential backoff, everything else surfaces immediately.
// The gateway holds no mutable state and is safe for concurrent use.
type Gateway struct {
	cli         *dynamodb.Client
	maxAttempts uint
}

func NewGateway(cli *dynamodb.Client) *Gateway {
	return &Gateway{cli: cli, maxAttempts: defaultMaxAttempts}
}

func (g *Gateway) CreateDocument(ctx context.Context, collection string, doc ports.Keyed) error {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return types.Err(types.ErrInvalidEntity, err, "marshal document %s", doc.DocumentID())
	}
	_, err = withRetry(ctx, g, func() (struct{}, error) {
		_, err := g.cli.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           &collection,
			Item:                item,
			ConditionExpression: awsString("attribute_not_exists(pk) AND attribute_not_exists(id)"),
		})
		if isConditionFailed(err) {
			return struct{}{}, backoff.Permanent(types.Err(types.ErrConflict, nil,
				"document %s already exists in %s", doc.DocumentID(), collection))
		}
		return struct{}{}, err
	})
	return err
}

func (g *Gateway) ReplaceDocument(ctx context.Context, collection string, doc ports.Keyed) error {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return types.Err(types.ErrInvalidEntity, err, "marshal document %s", doc.DocumentID())
	}
	_, err = withRetry(ctx, g, func() (struct{}, error) {
		_, err := g.cli.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           &collection,
			Item:                item,
			ConditionExpression: awsString("attribute_exists(pk) AND attribute_exists(id)"),
		})
		if isConditionFailed(err) {
			return struct{}{}, backoff.Permanent(types.Err(types.ErrNotFound, nil,
				"document %s no longer exists in %s", doc.DocumentID(), collection))
		}
		return struct{}{}, err
	})
	return err
}

func (g *Gateway) UpsertDocument(ctx context.Context, collection string, doc ports.Keyed) error {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return types.Err(types.ErrInvalidEntity, err, "marshal document %s", doc.DocumentID())
	}
	_, err = withRetry(ctx, g, func() (struct{}, error) {
		_, err := g.cli.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: &collection,
			Item:      item,
		})
		return struct{}{}, err
	})
	return err
}

func (g *Gateway) DeleteDocument(ctx context.Context, collection, id, partition string) error {
	_, err := withRetry(ctx, g, func() (struct{}, error) {
		_, err := g.cli.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: &collection,
			Key: map[string]ddbTypes.AttributeValue{
				"pk": &ddbTypes.AttributeValueMemberS{Value: partition},
				"id": &ddbTypes.AttributeValueMemberS{Value: id},
			},
			ConditionExpression: awsString("attribute_exists(pk) AND attribute_exists(id)"),
		})
		if isConditionFailed(err) {
			return struct{}{}, backoff.Permanent(types.Err(types.ErrNotFound, nil,
				"document %s not found in %s", id, collection))
		}
		return struct{}{}, err
	})
	return err
}

// QueryDocuments drains every result page before unmarshaling, so callers
// always see a complete result set or an error, never a partial one.
func (g *Gateway) QueryDocuments(ctx context.Context, collection string, q ports.Query, scope ports.PartitionScope, out any) error {
	if !scope.IsValid() {
		return types.Err(types.ErrInvalidEntity, nil, "query against %s has no partition scope", collection)
	}
	p := compile(q, scope)

	var items []map[string]ddbTypes.AttributeValue
	var startKey map[string]ddbTypes.AttributeValue
	for {
		var page queryPage
		var err error
		if p.keyCondition != "" {
			page, err = g.queryPage(ctx, collection, p, startKey)
		} else {
			page, err = g.scanPage(ctx, collection, p, startKey)
		}
		if err != nil {
			return err
		}
		items = append(items, page.items...)
		if page.lastKey == nil {
			break
		}
		startKey = page.lastKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return types.Err(types.ErrInvalidEntity, err, "unmarshal %d documents from %s", len(items), collection)
	}
	return nil
}

type queryPage struct {
	items   []map[string]ddbTypes.AttributeValue
	lastKey map[string]ddbTypes.AttributeValue
}

func (g *Gateway) queryPage(ctx context.Context, collection string, p plan, startKey map[string]ddbTypes.AttributeValue) (queryPage, error) {
	return withRetry(ctx, g, func() (queryPage, error) {
		in := &dynamodb.QueryInput{
			TableName:                 &collection,
			IndexName:                 p.index,
			KeyConditionExpression:    &p.keyCondition,
			ExpressionAttributeNames:  p.names,
			ExpressionAttributeValues: p.values,
			ExclusiveStartKey:         startKey,
		}
		if p.filter != "" {
			in.FilterExpression = &p.filter
		}
		out, err := g.cli.Query(ctx, in)
		if err != nil {
			return queryPage{}, err
		}
		return queryPage{items: out.Items, lastKey: out.LastEvaluatedKey}, nil
	})
}

func (g *Gateway) scanPage(ctx context.Context, collection string, p plan, startKey map[string]ddbTypes.AttributeValue) (queryPage, error) {
	return withRetry(ctx, g, func() (queryPage, error) {
		in := &dynamodb.ScanInput{
			TableName:                 &collection,
			ExpressionAttributeNames:  p.names,
			ExpressionAttributeValues: p.values,
			ExclusiveStartKey:         startKey,
		}
		if p.filter != "" {
			in.FilterExpression = &p.filter
		}
		out, err := g.cli.Scan(ctx, in)
		if err != nil {
			return queryPage{}, err
		}
		return queryPage{items: out.Items, lastKey: out.LastEvaluatedKey}, nil
	})
}

// withRetry runs op with exponential backoff on throttled/unavailable
// responses. Ops flag their own permanent outcomes (conflict, not-found)
// with backoff.Permanent before generic mapping applies.
func withRetry[T any](ctx context.Context, g *Gateway, op func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = maxRetryInterval
	v, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return v, err
		}
		mapped := mapError(err)
		if errors.Is(mapped, types.ErrThrottled) || errors.Is(mapped, types.ErrUnavailable) {
			log.WithError(err).Debug("retrying document store call")
			return v, mapped
		}
		return v, backoff.Permanent(mapped)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(g.maxAttempts))
	return v, err
}

// mapError lowers SDK failures onto the store error taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var (
		throughput *ddbTypes.ProvisionedThroughputExceededException
		reqLimit   *ddbTypes.RequestLimitExceeded
		noTable    *ddbTypes.ResourceNotFoundException
	)
	switch {
	case errors.As(err, &throughput), errors.As(err, &reqLimit):
		return types.Err(types.ErrThrottled, err, "")
	case errors.As(err, &noTable):
		return types.Err(types.ErrNotFound, err, "")
	default:
		return types.Err(types.ErrUnavailable, err, "")
	}
}

func isConditionFailed(err error) bool {
	var cc *ddbTypes.ConditionalCheckFailedException
	return errors.As(err, &cc)
}

func awsString(s string) *string { return &s }
