package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubNotifier struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubNotifier) ID() string   { return s.id }
func (s *stubNotifier) Type() string { return s.typ }
func (s *stubNotifier) Notify(context.Context, Notice) error {
	s.calls++
	return s.err
}
func (s *stubNotifier) Close() error {
	s.closed = true
	return nil
}

func TestFanoutNotifyAggregatesErrors(t *testing.T) {
	ok := &stubNotifier{id: "ok", typ: "console"}
	bad := &stubNotifier{id: "bad", typ: "webhook", err: errors.New("failed")}
	fanout := NewFanout([]Notifier{ok, bad})

	err := fanout.Notify(context.Background(), NewNotice("backend down", LevelError))
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if !strings.Contains(err.Error(), "webhook notifier[bad]") {
		t.Fatalf("aggregated error should name the notifier, got %v", err)
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every notifier should be tried, ok=%d bad=%d", ok.calls, bad.calls)
	}
}

func TestFanoutDropsNilNotifiers(t *testing.T) {
	fanout := NewFanout([]Notifier{nil, &stubNotifier{id: "a", typ: "console"}})
	if fanout.Size() != 1 {
		t.Fatalf("Size = %d", fanout.Size())
	}
}

func TestFanoutCloseClosesClosers(t *testing.T) {
	stub := &stubNotifier{id: "a", typ: "console"}
	fanout := NewFanout([]Notifier{stub})
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !stub.closed {
		t.Fatalf("notifier was not closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	notifiers, err := BuildAll(context.Background(), reg, []NotifierConfig{
		{ID: "c1", Type: TypeConsole},
		{ID: "l1", Type: TypeLog},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(notifiers) != 2 {
		t.Fatalf("expected 2 notifiers, got %d", len(notifiers))
	}
	if notifiers[0].Type() != TypeConsole || notifiers[1].Type() != TypeLog {
		t.Fatalf("unexpected notifier types %s, %s", notifiers[0].Type(), notifiers[1].Type())
	}
}

func TestBuildAllRejectsUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	_, err := BuildAll(context.Background(), reg, []NotifierConfig{
		{ID: "x", Type: "smoke"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
