package metrics

import "time"

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or
// propagate errors. If the metrics backend is unavailable,
// implementations log warnings and continue.
type Sink interface {
	// Client metrics
	RequestCompleted(op string, statusClass string, duration time.Duration)

	// Reconciler metrics
	BulkDeleteCompleted(targeted, failed int)
	SweepCompleted(duration time.Duration, err error)
}

// StatusClass constants for the RequestCompleted metric.
const (
	StatusClass2xx             = "2xx"
	StatusClass4xx             = "4xx"
	StatusClass5xx             = "5xx"
	StatusClassTimeout         = "timeout"
	StatusClassConnectionError = "connection_error"
	StatusClassAuthError       = "auth_error"
	StatusClassRemoteRejection = "remote_rejection"
	StatusClassOtherError      = "other_error"
)
