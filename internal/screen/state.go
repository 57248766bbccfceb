package screen

import (
	"github.com/dmanalytics/miniapp/internal/form"
	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/model"
)

// Tab is a top-level navigation tab.
type Tab string

const (
	TabLinks Tab = "user"
	TabAdmin Tab = "admin"
)

// Section is a collapsible panel on the admin tab.
type Section string

const (
	SectionRegistration Section = "registration"
	SectionTeam         Section = "team"
	SectionAnalytics    Section = "analytics"
)

// Sections lists the admin panels in display order.
var Sections = []Section{SectionRegistration, SectionTeam, SectionAnalytics}

// User-facing texts.
const (
	LogsIdleText       = "Нажмите кнопку для начала сбора..."
	LogsConnectingText = "Подключение к серверу..."
	LogsStartFailed    = "\n Ошибка запуска"

	RestrictedTitle = "Доступ ограничен"
	RestrictedHint  = "Пожалуйста, обратитесь к администратору @daniilMalgin"
)

// State is everything the screen renders. It is only changed through Reduce.
type State struct {
	// Session
	Loading    bool
	AuthFailed bool
	User       *model.Profile
	Theme      host.ThemeParams

	ActiveTab    Tab
	OpenSections map[Section]bool

	// Link-submission form set
	Categories    []string
	Entries       []model.LinkEntry
	BannerVisible bool
	BannerGen     uint64

	// Admin registration
	Draft       model.NewUserDraft
	DraftErrors model.DraftErrors

	// Roster
	Roster        []model.Member
	RosterLoading bool
	RosterSeq     uint64

	// Sync
	SyncLogs string
	Syncing  bool
	LogsSeq  uint64
}

// InitialState is the state at mount.
func InitialState() State {
	return State{
		Loading:   true,
		ActiveTab: TabLinks,
		OpenSections: map[Section]bool{
			SectionRegistration: true,
			SectionTeam:         false,
			SectionAnalytics:    false,
		},
		Entries:  form.BlankEntries(),
		Draft:    model.NewDraft(),
		SyncLogs: LogsIdleText,
	}
}

// Clone returns a deep copy safe to hand to renderers.
func (s State) Clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	open := make(map[Section]bool, len(s.OpenSections))
	for k, v := range s.OpenSections {
		open[k] = v
	}
	s.OpenSections = open
	s.Categories = append([]string(nil), s.Categories...)
	s.Entries = append([]model.LinkEntry(nil), s.Entries...)
	s.Draft = s.Draft.Clone()
	s.DraftErrors.Accounts = append([]bool(nil), s.DraftErrors.Accounts...)
	s.Roster = append([]model.Member(nil), s.Roster...)
	return s
}

// ContentVisible reports whether the main content may be shown: loading is
// over, access was not denied and a profile arrived.
func (s State) ContentVisible() bool {
	return !s.Loading && !s.AuthFailed && s.User != nil
}
