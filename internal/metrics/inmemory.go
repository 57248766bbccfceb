package metrics

import "sync"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Bootstraps      map[string]uint64
	LinkSubmissions map[string]uint64
	Registrations   map[string]uint64
	RosterFetches   map[string]uint64
	LogFetches      map[string]uint64
	SyncStarts      uint64
	WatchdogsFired  uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: Snapshot{
		Bootstraps:      map[string]uint64{},
		LinkSubmissions: map[string]uint64{},
		Registrations:   map[string]uint64{},
		RosterFetches:   map[string]uint64{},
		LogFetches:      map[string]uint64{},
	}}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Bootstraps:      copyCounts(m.snap.Bootstraps),
		LinkSubmissions: copyCounts(m.snap.LinkSubmissions),
		Registrations:   copyCounts(m.snap.Registrations),
		RosterFetches:   copyCounts(m.snap.RosterFetches),
		LogFetches:      copyCounts(m.snap.LogFetches),
		SyncStarts:      m.snap.SyncStarts,
		WatchdogsFired:  m.snap.WatchdogsFired,
	}
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, status string) {
	m.mu.Lock()
	counts[status]++
	m.mu.Unlock()
}

// IncBootstrap increments the bootstrap outcome counter.
func (m *InMemoryRecorder) IncBootstrap(status string) { m.inc(m.snap.Bootstraps, status) }

// IncLinkSubmission increments the link submission outcome counter.
func (m *InMemoryRecorder) IncLinkSubmission(status string) { m.inc(m.snap.LinkSubmissions, status) }

// IncRegistration increments the registration outcome counter.
func (m *InMemoryRecorder) IncRegistration(status string) { m.inc(m.snap.Registrations, status) }

// IncRosterFetch increments the roster fetch outcome counter.
func (m *InMemoryRecorder) IncRosterFetch(status string) { m.inc(m.snap.RosterFetches, status) }

// IncLogFetch increments the log fetch outcome counter.
func (m *InMemoryRecorder) IncLogFetch(status string) { m.inc(m.snap.LogFetches, status) }

// IncSyncStart increments the sync start counter.
func (m *InMemoryRecorder) IncSyncStart() {
	m.mu.Lock()
	m.snap.SyncStarts++
	m.mu.Unlock()
}

// IncWatchdogFired increments the watchdog counter.
func (m *InMemoryRecorder) IncWatchdogFired() {
	m.mu.Lock()
	m.snap.WatchdogsFired++
	m.mu.Unlock()
}

// TotalLogFetches sums log fetch attempts across outcomes.
func (s Snapshot) TotalLogFetches() uint64 {
	var total uint64
	for _, n := range s.LogFetches {
		total += n
	}
	return total
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
