package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends events to AWS SQS.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
}

// NewSQSPublisher constructs an SQS-backed publisher. An endpoint targets an
// SQS-compatible server such as LocalStack.
func NewSQSPublisher(ctx context.Context, region, queueURL, endpoint string) (*SQSPublisher, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, fmt.Errorf("EVENTS_SQS_QUEUE_URL is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if region = strings.TrimSpace(region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &SQSPublisher{client: client, queueURL: queueURL}, nil
}

// Publish delivers an event to the configured queue.
func (p *SQSPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := Encode(evt)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {DataType: aws.String("String"), StringValue: aws.String(evt.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no persistent connection.
func (p *SQSPublisher) Close() error { return nil }

var _ Publisher = (*SQSPublisher)(nil)
