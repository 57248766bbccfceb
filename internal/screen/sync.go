package screen

import (
	"context"

	"github.com/dmanalytics/miniapp/internal/backend"
	"github.com/dmanalytics/miniapp/internal/task"
)

// StartSync moves the poller from idle to polling: it arms a recurring log
// fetch and an unconditional watchdog, then sends the start request.
// The watchdog alone ends polling, however the start request turns out.
// It returns false when a sync is already running or the screen is closed.
func (s *Screen) StartSync(ctx context.Context) bool {
	s.mu.Lock()
	if s.closed || s.state.Syncing {
		s.mu.Unlock()
		return false
	}
	s.state = Reduce(s.state, SyncStarted{})
	s.poll = task.Every(s.clock, s.opts.PollInterval, func() {
		s.FetchLogs(s.ctx)
	})
	s.watchdog = task.After(s.clock, s.opts.Watchdog, s.stopSync)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	s.metrics.IncSyncStart()
	s.logger.Info("sync started", "poll_interval", s.opts.PollInterval, "watchdog", s.opts.Watchdog)

	if err := s.backend.StartSync(ctx); err != nil {
		if _, rejected := backendRejection(err); rejected {
			s.logger.Warn("sync start rejected", "error", err)
		} else {
			s.logger.Error("sync start failed", "error", err)
			s.dispatch(SyncStartFailed{})
		}
	}
	return true
}

// stopSync is the watchdog: it cancels polling and clears the syncing flag.
func (s *Screen) stopSync() {
	s.mu.Lock()
	s.poll.Cancel()
	s.state = Reduce(s.state, SyncStopped{})
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	s.metrics.IncWatchdogFired()
	s.logger.Info("sync polling stopped by watchdog")
}

// FetchLogs reads the sync log once and replaces the buffer. Failures are
// logged and leave the buffer alone. Out-of-order responses are dropped.
func (s *Screen) FetchLogs(ctx context.Context) {
	seq := s.dispatch(LogsRequested{}).LogsSeq

	lines, err := s.backend.SyncLogs(ctx)
	if err != nil {
		s.metrics.IncLogFetch("failed")
		s.logger.Warn("failed to fetch sync logs", "error", err)
		return
	}

	if !s.isLatest(func(st State) uint64 { return st.LogsSeq }, seq) {
		s.metrics.IncLogFetch("stale")
		s.logger.Debug("dropping stale log response", "seq", seq)
		return
	}

	s.metrics.IncLogFetch("ok")
	s.dispatch(LogsLoaded{Seq: seq, Lines: lines})
}

func backendRejection(err error) (*backend.APIError, bool) {
	return backend.AsAPIError(err)
}
