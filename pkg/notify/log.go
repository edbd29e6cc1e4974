package notify

import "context"

// logNotifier writes notices to the structured logger, for daemon hosts
// where there is no screen to toast on.
type logNotifier struct {
	id  string
	typ string
	log Logger
}

func newLogNotifier(_ context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	return &logNotifier{id: cfg.ID, typ: TypeLog, log: ensureLogger(log)}, nil
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return l.typ }

func (l *logNotifier) Notify(_ context.Context, n Notice) error {
	fields := map[string]any{
		"message":     n.Message,
		"duration_ms": n.Duration.Milliseconds(),
	}
	if n.RequestID != "" {
		fields["request_id"] = n.RequestID
	}

	switch n.Level {
	case LevelError:
		l.log.ErrorObj("notice raised", "notice", fields)
	case LevelWarn:
		l.log.WarnObj("notice raised", "notice", fields)
	default:
		l.log.InfoObj("notice raised", "notice", fields)
	}
	return nil
}
