package screen

import (
	"context"

	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/task"
)

// AddEntry appends a blank link entry and returns its id.
func (s *Screen) AddEntry() string {
	st := s.dispatch(EntryAdded{})
	return st.Entries[len(st.Entries)-1].ID
}

// RemoveEntry drops an entry. The last remaining entry is kept.
func (s *Screen) RemoveEntry(id string) {
	s.dispatch(EntryRemoved{ID: id})
}

// EditURL sets an entry's link and clears its link error.
func (s *Screen) EditURL(id, value string) {
	s.dispatch(URLEdited{ID: id, Value: value})
}

// EditCategory sets an entry's account and clears its account error.
func (s *Screen) EditCategory(id, value string) {
	s.dispatch(CategoryEdited{ID: id, Value: value})
}

// SubmitLinks validates every entry and, when all pass, sends them as one
// batch. Nothing is sent if any entry fails.
func (s *Screen) SubmitLinks(ctx context.Context) error {
	validated := s.dispatch(EntriesChecked{}).Entries
	if !entriesValid(validated) {
		s.metrics.IncLinkSubmission("invalid")
		return ErrInvalidLinks
	}

	items := make([]model.AnalyticsItem, len(validated))
	for i, entry := range validated {
		items[i] = entry.ToAnalyticsItem()
	}

	if err := s.backend.AddAnalytics(ctx, items); err != nil {
		s.logger.Warn("link submission failed", "error", err, "entries", len(items))
		if _, rejected := backendRejection(err); rejected {
			s.metrics.IncLinkSubmission("rejected")
		} else {
			s.metrics.IncLinkSubmission("transport")
		}
		s.host.ShowAlert("Ошибка сети: " + err.Error())
		return err
	}

	s.metrics.IncLinkSubmission("ok")
	s.logger.Info("links submitted", "entries", len(items))
	s.showBanner()
	return nil
}

func entriesValid(entries []model.LinkEntry) bool {
	for _, e := range entries {
		if e.HasErrors() {
			return false
		}
	}
	return true
}

// showBanner resets the form, raises the banner and (re)arms its hide timer.
// A newer banner cancels the previous timer.
func (s *Screen) showBanner() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = Reduce(s.state, LinksSubmitted{})
	gen := s.state.BannerGen
	s.banner.Cancel()
	s.banner = task.After(s.clock, s.opts.BannerDuration, func() {
		s.dispatch(BannerExpired{Gen: gen})
	})
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
}
