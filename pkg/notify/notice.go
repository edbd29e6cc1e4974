package notify

import "time"

// DefaultDuration is how long a notice stays visible when the caller does not
// override it.
const DefaultDuration = 5 * time.Second

// Level classifies a notice for rendering.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is the user-facing notification payload delivered to sinks.
type Notice struct {
	Message   string
	Level     Level
	Duration  time.Duration
	RequestID string
	At        time.Time
}

// NewNotice builds a notice with the default display duration.
func NewNotice(message string, level Level) Notice {
	return Notice{
		Message:  message,
		Level:    level,
		Duration: DefaultDuration,
		At:       time.Now().UTC(),
	}
}

// payload is the wire shape delivered to remote sinks.
type payload struct {
	Message    string    `json:"message"`
	Level      string    `json:"level"`
	DurationMS int64     `json:"duration_ms"`
	RequestID  string    `json:"request_id,omitempty"`
	At         time.Time `json:"at"`
}

// wirePayload converts a notice into its remote wire shape.
func wirePayload(n Notice) payload {
	return payload{
		Message:    n.Message,
		Level:      string(n.Level),
		DurationMS: n.Duration.Milliseconds(),
		RequestID:  n.RequestID,
		At:         n.At,
	}
}
