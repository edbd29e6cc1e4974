package storage

import (
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresNotices(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		NoticeTTL:       1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/cache.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenNotice("key1")
	if err != nil || seen {
		t.Fatalf("expected unseen notice, seen=%v err=%v", seen, err)
	}

	if err := store.MarkNotice("key1"); err != nil {
		t.Fatalf("MarkNotice: %v", err)
	}

	seen, err = store.SeenNotice("key1")
	if err != nil || !seen {
		t.Fatalf("expected notice marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenNotice("key1")
	if err != nil {
		t.Fatalf("SeenNotice after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkNotice("x"); err != nil {
		t.Fatalf("noop store MarkNotice: %v", err)
	}
	seen, err := store.SeenNotice("x")
	if err != nil || seen {
		t.Fatalf("noop store should never report seen, got seen=%v err=%v", seen, err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}

func TestNewStoreBBoltRequiresPath(t *testing.T) {
	if _, err := NewStore("bbolt", "  ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
