package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubNotifier implements the Notifier interface for GCP Pub/Sub.
type pubsubNotifier struct {
	id     string
	typ    string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

// newPubSubNotifier creates a new Pub/Sub notifier with the given configuration.
func newPubSubNotifier(ctx context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("notifier %q missing pubsub configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubNotifier{
		id:     cfg.ID,
		typ:    TypePubSub,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    ensureLogger(log),
	}, nil
}

func (p *pubsubNotifier) ID() string   { return p.id }
func (p *pubsubNotifier) Type() string { return p.typ }

// Notify publishes the notice to the configured Pub/Sub topic.
func (p *pubsubNotifier) Notify(ctx context.Context, n Notice) error {
	body, err := json.Marshal(wirePayload(n))
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	res := p.topic.Publish(ctx, &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"level": string(n.Level),
		},
	})
	if _, err := res.Get(ctx); err != nil {
		p.log.ErrorObj("pubsub notifier publish failed", "notifier_pubsub_error", map[string]any{
			"notifier_id": p.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("publish notice to pubsub: %w", err)
	}
	p.log.DebugObj("pubsub notifier delivered notice", "notifier_pubsub_delivery", map[string]any{
		"notifier_id": p.id,
	})
	return nil
}

// Close flushes pending messages and releases the Pub/Sub client.
func (p *pubsubNotifier) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	p.topic.Stop()
	return p.client.Close()
}
