// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User metrics
	IncUserCreated()
	IncUserDeleted()

	// Todo metrics
	IncTodoCreated()
	IncTodoUpdated()
	IncTodoDeleted()
	AddTodosCascaded(n int)

	// Request outcome metrics
	IncValidationFailed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
