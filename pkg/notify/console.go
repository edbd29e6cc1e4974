package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// consoleNotifier renders notices as colored lines, for CLI hosts.
type consoleNotifier struct {
	id  string
	typ string
	out io.Writer
}

// NewConsole returns a notifier that renders notices to w (stderr when nil).
func NewConsole(id string, w io.Writer) Notifier {
	if w == nil {
		w = os.Stderr
	}
	return &consoleNotifier{id: id, typ: TypeConsole, out: w}
}

func newConsoleNotifier(_ context.Context, cfg NotifierConfig, _ Logger) (Notifier, error) {
	return NewConsole(cfg.ID, nil), nil
}

func (c *consoleNotifier) ID() string   { return c.id }
func (c *consoleNotifier) Type() string { return c.typ }

func (c *consoleNotifier) Notify(_ context.Context, n Notice) error {
	label := fmt.Sprintf("[%s]", strings.ToUpper(string(n.Level)))
	if _, err := fmt.Fprintf(c.out, "%s %s\n", levelPaint(n.Level).Sprint(label), n.Message); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}

func levelPaint(level Level) *color.Color {
	switch level {
	case LevelError:
		return color.New(color.FgRed, color.Bold)
	case LevelWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
