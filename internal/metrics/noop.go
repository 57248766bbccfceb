package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncBootstrap is a no-op.
func (n *NoopRecorder) IncBootstrap(status string) {}

// IncLinkSubmission is a no-op.
func (n *NoopRecorder) IncLinkSubmission(status string) {}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(status string) {}

// IncRosterFetch is a no-op.
func (n *NoopRecorder) IncRosterFetch(status string) {}

// IncSyncStart is a no-op.
func (n *NoopRecorder) IncSyncStart() {}

// IncLogFetch is a no-op.
func (n *NoopRecorder) IncLogFetch(status string) {}

// IncWatchdogFired is a no-op.
func (n *NoopRecorder) IncWatchdogFired() {}
