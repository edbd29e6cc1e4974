package domain

// Domain contains core models shared across the app.

// TargetStatus describes the outcome of probing one endpoint.
type TargetStatus struct {
	TargetID  string
	Healthy   bool
	Detail    string
	ElapsedMS int64
}
