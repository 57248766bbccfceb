package screen

import (
	"strings"

	"github.com/dmanalytics/miniapp/internal/form"
	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/model"
)

// Action is one state transition.
type Action interface {
	apply(State) State
}

// Reduce applies a to s and returns the next state. It never mutates s.
func Reduce(s State, a Action) State {
	return a.apply(s.Clone())
}

// Session actions.

// ThemeApplied stores the host colors, falling back to defaults.
type ThemeApplied struct{ Theme host.ThemeParams }

func (a ThemeApplied) apply(s State) State {
	s.Theme = a.Theme.WithDefaults()
	return s
}

// SessionLoaded stores the profile returned by /auth.
type SessionLoaded struct{ User *model.Profile }

func (a SessionLoaded) apply(s State) State {
	s.User = a.User
	return s
}

// AuthRejected switches the screen to the restricted-access notice.
type AuthRejected struct{}

func (AuthRejected) apply(s State) State {
	s.AuthFailed = true
	return s
}

// LoadingFinished clears the loading flag.
type LoadingFinished struct{}

func (LoadingFinished) apply(s State) State {
	s.Loading = false
	return s
}

// CategoriesLoaded sets the account names offered by the category selector.
type CategoriesLoaded struct{ Names []string }

func (a CategoriesLoaded) apply(s State) State {
	s.Categories = append([]string(nil), a.Names...)
	return s
}

// Navigation actions.

// TabSelected switches tabs. Only admins may open the admin tab.
type TabSelected struct{ Tab Tab }

func (a TabSelected) apply(s State) State {
	switch a.Tab {
	case TabLinks:
		s.ActiveTab = TabLinks
	case TabAdmin:
		if s.User.IsAdmin() {
			s.ActiveTab = TabAdmin
		}
	}
	return s
}

// SectionToggled flips an admin panel open or closed.
type SectionToggled struct{ Section Section }

func (a SectionToggled) apply(s State) State {
	s.OpenSections[a.Section] = !s.OpenSections[a.Section]
	return s
}

// Link form actions.

type EntryAdded struct{}

func (EntryAdded) apply(s State) State {
	s.Entries = form.AddEntry(s.Entries)
	return s
}

type EntryRemoved struct{ ID string }

func (a EntryRemoved) apply(s State) State {
	s.Entries = form.RemoveEntry(s.Entries, a.ID)
	return s
}

type URLEdited struct{ ID, Value string }

func (a URLEdited) apply(s State) State {
	s.Entries = form.SetURL(s.Entries, a.ID, a.Value)
	return s
}

type CategoryEdited struct{ ID, Value string }

func (a CategoryEdited) apply(s State) State {
	s.Entries = form.SetCategory(s.Entries, a.ID, a.Value)
	return s
}

// EntriesChecked validates the current entries in place and flags failures.
type EntriesChecked struct{}

func (EntriesChecked) apply(s State) State {
	s.Entries, _ = form.ValidateEntries(s.Entries)
	return s
}

// LinksSubmitted resets the form and raises the success banner.
type LinksSubmitted struct{}

func (LinksSubmitted) apply(s State) State {
	s.Entries = form.BlankEntries()
	s.BannerVisible = true
	s.BannerGen++
	return s
}

// BannerExpired hides the banner raised by generation Gen only.
type BannerExpired struct{ Gen uint64 }

func (a BannerExpired) apply(s State) State {
	if a.Gen == s.BannerGen {
		s.BannerVisible = false
	}
	return s
}

// Draft actions.

// DraftIdentityEdited replaces the top-level draft fields at once.
type DraftIdentityEdited struct{ TelegramID, Username, FullName string }

func (a DraftIdentityEdited) apply(s State) State {
	s.Draft = s.Draft.Clone()
	s.Draft.TelegramID = a.TelegramID
	s.Draft.Username = a.Username
	s.Draft.FullName = a.FullName
	return s
}

type TelegramIDEdited struct{ Value string }

func (a TelegramIDEdited) apply(s State) State {
	s.Draft = s.Draft.Clone()
	s.Draft.TelegramID = a.Value
	return s
}

type UsernameEdited struct{ Value string }

func (a UsernameEdited) apply(s State) State {
	s.Draft = s.Draft.Clone()
	s.Draft.Username = a.Value
	return s
}

type FullNameEdited struct{ Value string }

func (a FullNameEdited) apply(s State) State {
	s.Draft = s.Draft.Clone()
	s.Draft.FullName = a.Value
	return s
}

type AccountAdded struct{}

func (AccountAdded) apply(s State) State {
	s.Draft = form.AddAccount(s.Draft)
	return s
}

type AccountRemoved struct{ Index int }

func (a AccountRemoved) apply(s State) State {
	s.Draft = form.RemoveAccount(s.Draft, a.Index)
	return s
}

type AccountNameEdited struct {
	Index int
	Name  string
}

func (a AccountNameEdited) apply(s State) State {
	s.Draft = form.SetAccountName(s.Draft, a.Index, a.Name)
	return s
}

type AccountNetworkEdited struct {
	Index   int
	Network model.SocialNetwork
}

func (a AccountNetworkEdited) apply(s State) State {
	s.Draft = form.SetAccountNetwork(s.Draft, a.Index, a.Network)
	return s
}

// DraftChecked flags the current draft's invalid fields. Values are kept.
type DraftChecked struct{}

func (DraftChecked) apply(s State) State {
	s.DraftErrors = form.ValidateDraft(s.Draft)
	return s
}

// DraftRegistered resets the draft to its initial shape.
type DraftRegistered struct{}

func (DraftRegistered) apply(s State) State {
	s.Draft = model.NewDraft()
	s.DraftErrors = model.DraftErrors{}
	return s
}

// Roster actions. RosterSeq is bumped per request; only the latest result lands.

type RosterRequested struct{}

func (RosterRequested) apply(s State) State {
	s.RosterSeq++
	s.RosterLoading = true
	return s
}

type RosterLoaded struct {
	Seq     uint64
	Members []model.Member
}

func (a RosterLoaded) apply(s State) State {
	if a.Seq != s.RosterSeq {
		return s
	}
	s.Roster = append([]model.Member{}, a.Members...)
	s.RosterLoading = false
	return s
}

type RosterFailed struct{ Seq uint64 }

func (a RosterFailed) apply(s State) State {
	if a.Seq == s.RosterSeq {
		s.RosterLoading = false
	}
	return s
}

// Sync actions.

type SyncStarted struct{}

func (SyncStarted) apply(s State) State {
	s.Syncing = true
	s.SyncLogs = LogsConnectingText
	return s
}

// SyncStartFailed appends the failure line to the log buffer.
type SyncStartFailed struct{}

func (SyncStartFailed) apply(s State) State {
	s.SyncLogs += LogsStartFailed
	return s
}

type SyncStopped struct{}

func (SyncStopped) apply(s State) State {
	s.Syncing = false
	return s
}

type LogsRequested struct{}

func (LogsRequested) apply(s State) State {
	s.LogsSeq++
	return s
}

// LogsLoaded replaces the log buffer wholesale, unless a newer fetch was issued.
type LogsLoaded struct {
	Seq   uint64
	Lines []string
}

func (a LogsLoaded) apply(s State) State {
	if a.Seq != s.LogsSeq {
		return s
	}
	s.SyncLogs = strings.Join(a.Lines, "\n")
	return s
}
