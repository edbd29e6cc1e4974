package notify

import "context"

// Notifier delivers notices to a downstream sink (log, webhook, SNS, etc).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, n Notice) error
}

// Sink is the single-method delivery surface wrappers compose over.
// *Fanout and *Throttled both satisfy it.
type Sink interface {
	Notify(ctx context.Context, n Notice) error
}
