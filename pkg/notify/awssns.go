package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient defines the minimal subset of the SNS client used by snsNotifier.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsNotifier implements the Notifier interface for AWS SNS.
type snsNotifier struct {
	id       string
	typ      string
	topicARN string
	client   snsClient
	log      Logger
}

// newSNSNotifier creates a new SNS notifier with the given configuration.
func newSNSNotifier(ctx context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("notifier %q missing sns configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AccessKeyID, cfg.SNS.SecretAccessKey)
	if err != nil {
		return nil, err
	}

	return &snsNotifier{
		id:       cfg.ID,
		typ:      TypeSNS,
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *snsNotifier) ID() string   { return s.id }
func (s *snsNotifier) Type() string { return s.typ }

// Notify publishes the notice to the configured SNS topic.
func (s *snsNotifier) Notify(ctx context.Context, n Notice) error {
	body, err := json.Marshal(wirePayload(n))
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"level": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(n.Level)),
			},
		},
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		s.log.ErrorObj("sns notifier publish failed", "notifier_sns_error", map[string]any{
			"notifier_id": s.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("publish notice to sns: %w", err)
	}
	s.log.DebugObj("sns notifier delivered notice", "notifier_sns_delivery", map[string]any{
		"notifier_id": s.id,
	})
	return nil
}
