package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"
)

// SubjectAttribute is the message attribute carrying the event subject so
// queue consumers can filter without decoding the body.
const SubjectAttribute = "Subject"

type sqsSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends events to an SQS queue.
type SQSPublisher struct {
	client   sqsSender
	queueURL string
}

// NewSQSPublisher loads the default AWS configuration and returns a
// publisher for queueURL.
func NewSQSPublisher(ctx context.Context, queueURL string, optFns ...func(*config.LoadOptions) error) (*SQSPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}
	return NewSQSPublisherFromConfig(cfg, queueURL)
}

// NewSQSPublisherFromConfig returns a publisher for queueURL using cfg.
func NewSQSPublisherFromConfig(cfg aws.Config, queueURL string, optFns ...func(*sqs.Options)) (*SQSPublisher, error) {
	if queueURL == "" {
		return nil, errors.New("SQS queue URL is required")
	}
	return &SQSPublisher{
		client:   sqs.NewFromConfig(cfg, optFns...),
		queueURL: queueURL,
	}, nil
}

// Publish marshals data into an Event and sends it to the queue.
func (p *SQSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	body, err := json.Marshal(Event{
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			SubjectAttribute: {
				StringValue: aws.String(subject),
				DataType:    aws.String("String"),
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to send message to SQS")
	}
	return nil
}

func (p *SQSPublisher) Close() {}
