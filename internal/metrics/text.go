package metrics

import (
	"fmt"
	"io"
	"sort"
)

// WriteText renders a snapshot in Prometheus exposition format.
func WriteText(w io.Writer, snap Snapshot) error {
	series := []struct {
		name   string
		counts map[string]uint64
	}{
		{"miniapp_bootstraps_total", snap.Bootstraps},
		{"miniapp_link_submissions_total", snap.LinkSubmissions},
		{"miniapp_registrations_total", snap.Registrations},
		{"miniapp_roster_fetches_total", snap.RosterFetches},
		{"miniapp_log_fetches_total", snap.LogFetches},
	}

	for _, s := range series {
		statuses := make([]string, 0, len(s.counts))
		for status := range s.counts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			if _, err := fmt.Fprintf(w, "%s{status=%q} %d\n", s.name, status, s.counts[status]); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "miniapp_sync_starts_total %d\n", snap.SyncStarts); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "miniapp_sync_watchdogs_fired_total %d\n", snap.WatchdogsFired)
	return err
}
