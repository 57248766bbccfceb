// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the screen.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Session
	IncBootstrap(status string) // "ok", "forbidden", "rejected", "transport"

	// Forms
	IncLinkSubmission(status string) // "ok", "invalid", "rejected", "transport"
	IncRegistration(status string)   // "ok", "invalid", "rejected", "transport"

	// Roster and sync
	IncRosterFetch(status string) // "ok", "failed", "stale"
	IncSyncStart()
	IncLogFetch(status string) // "ok", "failed", "stale"
	IncWatchdogFired()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
