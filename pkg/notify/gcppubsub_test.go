package notify

import (
	"context"
	"io"
	"os"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubNotifierPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	defer os.Unsetenv("PUBSUB_EMULATOR_HOST")
	os.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := client.CreateTopic(ctx, "notices"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	notifier, err := newPubSubNotifier(ctx, NotifierConfig{
		ID:   "bus",
		Type: TypePubSub,
		PubSub: &PubSubConfig{
			ProjectID: "test-project",
			Topic:     "notices",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubNotifier: %v", err)
	}

	if err := notifier.Notify(ctx, NewNotice("backend down", LevelError)); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	closer, ok := notifier.(io.Closer)
	if !ok {
		t.Fatalf("pubsub notifier should be closable")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewPubSubNotifierRequiresConfig(t *testing.T) {
	_, err := newPubSubNotifier(context.Background(), NotifierConfig{ID: "bus", Type: TypePubSub}, nil)
	if err == nil {
		t.Fatalf("expected error for missing pubsub config")
	}
}
