package notify

import (
	"context"
	"errors"
	"testing"
)

type fakeSeenStore struct {
	seen      map[string]bool
	lookupErr error
}

func (f *fakeSeenStore) SeenNotice(key string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	return f.seen[key], nil
}

func (f *fakeSeenStore) MarkNotice(key string) error {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[key] = true
	return nil
}

type countingSink struct {
	calls int
	err   error
}

func (c *countingSink) Notify(context.Context, Notice) error {
	c.calls++
	return c.err
}

func TestThrottledSuppressesRepeats(t *testing.T) {
	sink := &countingSink{}
	throttled := NewThrottled(sink, &fakeSeenStore{}, nil)
	ctx := context.Background()

	if err := throttled.Notify(ctx, NewNotice("disk almost full", LevelWarn)); err != nil {
		t.Fatalf("first Notify: %v", err)
	}
	if err := throttled.Notify(ctx, NewNotice("disk almost full", LevelWarn)); err != nil {
		t.Fatalf("repeat Notify: %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("repeat notice reached sink, calls = %d", sink.calls)
	}

	if err := throttled.Notify(ctx, NewNotice("backend down", LevelWarn)); err != nil {
		t.Fatalf("distinct Notify: %v", err)
	}
	if sink.calls != 2 {
		t.Fatalf("distinct notice suppressed, calls = %d", sink.calls)
	}
}

func TestThrottledDoesNotMarkFailedDeliveries(t *testing.T) {
	sink := &countingSink{err: errors.New("boom")}
	throttled := NewThrottled(sink, &fakeSeenStore{}, nil)
	ctx := context.Background()

	if err := throttled.Notify(ctx, NewNotice("backend down", LevelError)); err == nil {
		t.Fatalf("expected delivery error")
	}

	// The failure must not count as delivered; the next occurrence retries.
	sink.err = nil
	if err := throttled.Notify(ctx, NewNotice("backend down", LevelError)); err != nil {
		t.Fatalf("retry Notify: %v", err)
	}
	if sink.calls != 2 {
		t.Fatalf("retry did not reach sink, calls = %d", sink.calls)
	}
}

func TestThrottledDeliversWhenLookupFails(t *testing.T) {
	sink := &countingSink{}
	store := &fakeSeenStore{lookupErr: errors.New("store offline")}
	throttled := NewThrottled(sink, store, nil)

	if err := throttled.Notify(context.Background(), NewNotice("backend down", LevelError)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("notice lost on lookup failure, calls = %d", sink.calls)
	}
}

func TestThrottledWithoutStorePassesThrough(t *testing.T) {
	sink := &countingSink{}
	throttled := NewThrottled(sink, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := throttled.Notify(ctx, NewNotice("disk almost full", LevelWarn)); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	if sink.calls != 3 {
		t.Fatalf("calls = %d, want 3", sink.calls)
	}
}
