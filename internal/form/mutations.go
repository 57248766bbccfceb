package form

import (
	"github.com/oklog/ulid/v2"

	"github.com/dmanalytics/miniapp/internal/model"
)

// NewEntryID returns a fresh, time-ordered entry id.
func NewEntryID() string {
	return ulid.Make().String()
}

// BlankEntries returns the initial form set: exactly one empty entry.
func BlankEntries() []model.LinkEntry {
	return []model.LinkEntry{{ID: NewEntryID()}}
}

// AddEntry appends a blank entry.
func AddEntry(entries []model.LinkEntry) []model.LinkEntry {
	out := make([]model.LinkEntry, 0, len(entries)+1)
	out = append(out, entries...)
	return append(out, model.LinkEntry{ID: NewEntryID()})
}

// RemoveEntry drops the entry with id unless it is the last one left.
func RemoveEntry(entries []model.LinkEntry, id string) []model.LinkEntry {
	if len(entries) <= 1 {
		return entries
	}

	out := make([]model.LinkEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return entries
	}
	return out
}

// SetURL edits one entry's link and clears its link error.
func SetURL(entries []model.LinkEntry, id, value string) []model.LinkEntry {
	return mapEntry(entries, id, func(e *model.LinkEntry) {
		e.URL = value
		e.URLError = ""
	})
}

// SetCategory edits one entry's account and clears its account error.
func SetCategory(entries []model.LinkEntry, id, value string) []model.LinkEntry {
	return mapEntry(entries, id, func(e *model.LinkEntry) {
		e.Category = value
		e.CategoryError = ""
	})
}

func mapEntry(entries []model.LinkEntry, id string, fn func(*model.LinkEntry)) []model.LinkEntry {
	out := make([]model.LinkEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

// AddAccount appends a blank Instagram binding to the draft.
func AddAccount(d model.NewUserDraft) model.NewUserDraft {
	d = d.Clone()
	d.Accounts = append(d.Accounts, model.BlankAccount())
	return d
}

// RemoveAccount drops the binding at index while more than one remains.
func RemoveAccount(d model.NewUserDraft, index int) model.NewUserDraft {
	if len(d.Accounts) <= 1 || index < 0 || index >= len(d.Accounts) {
		return d
	}
	d = d.Clone()
	d.Accounts = append(d.Accounts[:index], d.Accounts[index+1:]...)
	return d
}

// SetAccountName edits the binding at index. Out-of-range indexes are ignored.
func SetAccountName(d model.NewUserDraft, index int, name string) model.NewUserDraft {
	if index < 0 || index >= len(d.Accounts) {
		return d
	}
	d = d.Clone()
	d.Accounts[index].AccountName = name
	return d
}

// SetAccountNetwork edits the binding's platform at index.
func SetAccountNetwork(d model.NewUserDraft, index int, network model.SocialNetwork) model.NewUserDraft {
	if index < 0 || index >= len(d.Accounts) || !network.IsValid() {
		return d
	}
	d = d.Clone()
	d.Accounts[index].SocialNetwork = network
	return d
}
