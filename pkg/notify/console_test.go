package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
)

func TestConsoleNotifierRendersLevelTag(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf bytes.Buffer
	n := NewConsole("cli", &buf)
	if n.ID() != "cli" || n.Type() != TypeConsole {
		t.Fatalf("unexpected identity %s/%s", n.ID(), n.Type())
	}

	if err := n.Notify(context.Background(), NewNotice("disk almost full", LevelWarn)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := buf.String(); got != "[WARN] disk almost full\n" {
		t.Fatalf("rendered notice = %q", got)
	}

	buf.Reset()
	if err := n.Notify(context.Background(), NewNotice("backend down", LevelError)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := buf.String(); got != "[ERROR] backend down\n" {
		t.Fatalf("rendered notice = %q", got)
	}
}
