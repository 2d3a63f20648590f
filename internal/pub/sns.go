// Package pub publishes grant cleanup events to an SNS topic.
package pub

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/goccy/go-json"

	"idvault/internal/ports"
)

const grantsRemovedType = "grants_removed"

// SweepPublisher emits grants_removed events as JSON messages on a fixed
// topic. The event type rides both in the body and as a message attribute so
// subscribers can filter without parsing.
type SweepPublisher struct {
	cli   *sns.Client
	topic string
}

func NewSweepPublisher(cli *sns.Client, topicARN string) *SweepPublisher {
	return &SweepPublisher{cli: cli, topic: topicARN}
}

func (p *SweepPublisher) PublishGrantsRemoved(ctx context.Context, event ports.GrantsRemovedEvent) error {
	msg, err := grantsRemovedMessage(event)
	if err != nil {
		return err
	}
	_, err = p.cli.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topic,
		Message:  aws.String(msg),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"content-type": {DataType: aws.String("String"), StringValue: aws.String("application/json")},
			"event-type":   {DataType: aws.String("String"), StringValue: aws.String(grantsRemovedType)},
		},
	})
	return err
}

func grantsRemovedMessage(event ports.GrantsRemovedEvent) (string, error) {
	raw, err := json.Marshal(struct {
		Type string `json:"type"`
		ports.GrantsRemovedEvent
	}{Type: grantsRemovedType, GrantsRemovedEvent: event})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
