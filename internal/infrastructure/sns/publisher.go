package sns

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/deals-api/internal/config"
	"github.com/deals-api/internal/domain"
)

// EventPublisher publishes claim lifecycle events for downstream consumers
// (fulfilment, analytics). Publishing is best-effort: a failed publish never
// fails the request that triggered it.
type EventPublisher interface {
	PublishClaimCreated(ctx context.Context, c *domain.Claim) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

type claimCreatedEvent struct {
	Event     string    `json:"event"`
	ClaimID   string    `json:"claim_id"`
	UserID    string    `json:"user_id"`
	DealID    string    `json:"deal_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, errors.New("SNS_CLAIM_EVENTS_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &publisher{client: sns.NewFromConfig(awsCfg, clientOpts...), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishClaimCreated(ctx context.Context, c *domain.Claim) error {
	payload, err := json.Marshal(claimCreatedEvent{
		Event:     "claim.created",
		ClaimID:   c.ClaimID,
		UserID:    c.UserID,
		DealID:    c.DealID,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return err
	}
	msg := string(payload)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  &msg,
	})
	return err
}
