package notify

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic dedupe key
	"encoding/hex"
)

// SeenStore remembers recently delivered notices across restarts.
type SeenStore interface {
	SeenNotice(key string) (bool, error)
	MarkNotice(key string) error
}

// Throttled suppresses repeat deliveries of the same notice while the backing
// store remembers it. Delivery failures do not mark the notice, so the next
// occurrence retries.
type Throttled struct {
	next  Sink
	store SeenStore
	log   Logger
}

// NewThrottled wraps next with repeat suppression backed by store.
func NewThrottled(next Sink, store SeenStore, log Logger) *Throttled {
	return &Throttled{next: next, store: store, log: ensureLogger(log)}
}

// Notify delivers the notice unless an identical one was delivered recently.
func (t *Throttled) Notify(ctx context.Context, n Notice) error {
	if t == nil || t.next == nil {
		return nil
	}
	if t.store == nil {
		return t.next.Notify(ctx, n)
	}

	key := noticeKey(n)
	seen, err := t.store.SeenNotice(key)
	if err != nil {
		t.log.WarnObj("notice dedupe lookup failed", "throttle_error", map[string]any{
			"error": err.Error(),
		})
	} else if seen {
		t.log.DebugObj("notice suppressed as repeat", "throttle_meta", map[string]any{
			"message": n.Message,
		})
		return nil
	}

	if err := t.next.Notify(ctx, n); err != nil {
		return err
	}

	if err := t.store.MarkNotice(key); err != nil {
		t.log.WarnObj("notice dedupe mark failed", "throttle_error", map[string]any{
			"error": err.Error(),
		})
	}
	return nil
}

// noticeKey hashes level + message so identical notices collapse to one entry.
func noticeKey(n Notice) string {
	sum := sha1.Sum([]byte(string(n.Level) + "\x00" + n.Message))
	return hex.EncodeToString(sum[:])
}
