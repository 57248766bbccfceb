package screen

import "context"

// FetchRoster reloads the team roster. Failures are logged and keep the
// previous roster. Only the most recently issued request may land.
func (s *Screen) FetchRoster(ctx context.Context) {
	seq := s.dispatch(RosterRequested{}).RosterSeq

	members, err := s.backend.TeamData(ctx)
	if err != nil {
		s.metrics.IncRosterFetch("failed")
		s.logger.Error("failed to load team roster", "error", err)
		s.dispatch(RosterFailed{Seq: seq})
		return
	}

	if !s.isLatest(func(st State) uint64 { return st.RosterSeq }, seq) {
		s.metrics.IncRosterFetch("stale")
		s.logger.Debug("dropping stale roster response", "seq", seq)
		return
	}

	s.metrics.IncRosterFetch("ok")
	s.dispatch(RosterLoaded{Seq: seq, Members: members})
}

func (s *Screen) isLatest(field func(State) uint64, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return field(s.state) == seq
}
