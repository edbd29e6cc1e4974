package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout delivers notices to all configured notifiers.
type Fanout struct {
	notifiers []Notifier
}

// NewFanout builds a sink that fans notices out across notifiers.
func NewFanout(notifiers []Notifier) *Fanout {
	cp := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		cp = append(cp, n)
	}
	return &Fanout{notifiers: cp}
}

// Notify forwards the notice to every registered notifier. Failures are
// aggregated so one broken sink does not mute the rest.
func (f *Fanout) Notify(ctx context.Context, n Notice) error {
	if f == nil || len(f.notifiers) == 0 {
		return nil
	}

	var errs []error
	for _, nt := range f.notifiers {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s notifier[%s]: %w", nt.Type(), nt.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of active notifiers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.notifiers)
}

// Close releases notifiers that hold external connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}

	var errs []error
	for _, nt := range f.notifiers {
		closer, ok := nt.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close notifier %s: %w", nt.ID(), err))
		}
	}
	return errors.Join(errs...)
}
