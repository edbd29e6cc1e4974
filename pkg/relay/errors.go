package relay

import (
	"errors"
	"fmt"
)

// Kind classifies a call failure.
type Kind string

const (
	// KindAPI marks failures the backend reported through the envelope.
	KindAPI Kind = "api"
	// KindStatus marks non-2xx responses that carried no envelope.
	KindStatus Kind = "status"
	// KindNetwork marks calls that never produced an HTTP response.
	KindNetwork Kind = "network"
)

// CallError describes a failed call after response shaping.
type CallError struct {
	Kind       Kind
	StatusCode int    // HTTP status, when one was received
	Code       Code   // backend code, when an envelope was present
	Msg        string // user-facing message, as raised to the sink

	// Notified records that the failure has already been surfaced to the
	// user, so upper layers do not raise it again.
	Notified bool

	Err error
}

func (e *CallError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "request failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	if e.Kind == KindStatus && e.StatusCode > 0 {
		return fmt.Sprintf("%s %d: %s", e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *CallError) Unwrap() error { return e.Err }

// Notified reports whether err carries a failure that was already surfaced to
// the user.
func Notified(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Notified
}
