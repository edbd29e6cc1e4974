package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient defines the minimal subset of the SQS client used by sqsNotifier.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsNotifier implements the Notifier interface for AWS SQS.
type sqsNotifier struct {
	id       string
	typ      string
	queueURL string
	client   sqsClient
	log      Logger
}

// newSQSNotifier creates a new SQS notifier with the given configuration.
func newSQSNotifier(ctx context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("notifier %q missing sqs configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.AccessKeyID, cfg.SQS.SecretAccessKey)
	if err != nil {
		return nil, err
	}

	return &sqsNotifier{
		id:       cfg.ID,
		typ:      TypeSQS,
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *sqsNotifier) ID() string   { return s.id }
func (s *sqsNotifier) Type() string { return s.typ }

// Notify sends the notice to the configured SQS queue.
func (s *sqsNotifier) Notify(ctx context.Context, n Notice) error {
	body, err := json.Marshal(wirePayload(n))
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"level": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(n.Level)),
			},
		},
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		s.log.ErrorObj("sqs notifier send failed", "notifier_sqs_error", map[string]any{
			"notifier_id": s.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("send notice to sqs: %w", err)
	}
	s.log.DebugObj("sqs notifier delivered notice", "notifier_sqs_delivery", map[string]any{
		"notifier_id": s.id,
	})
	return nil
}
