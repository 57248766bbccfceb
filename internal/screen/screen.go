// Package screen is the headless Mini App screen: a state container driven
// by user events and timers, talking to the backend on the user's behalf.
package screen

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/metrics"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/task"
)

// Default timings.
const (
	DefaultPollInterval   = 3 * time.Second
	DefaultWatchdog       = 120 * time.Second
	DefaultBannerDuration = 3 * time.Second
)

// Screen errors.
var (
	ErrInvalidLinks = errors.New("link form has invalid entries")
)

// Backend is the subset of the backend API the screen uses.
type Backend interface {
	Auth(ctx context.Context) (*model.Profile, error)
	AccountsList(ctx context.Context) ([]string, error)
	TeamData(ctx context.Context) ([]model.Member, error)
	AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error
	RegisterUser(ctx context.Context, req model.RegisterUserRequest) error
	StartSync(ctx context.Context) error
	SyncLogs(ctx context.Context) ([]string, error)
}

// Options tunes timers and collaborators. Zero values fall back to defaults.
type Options struct {
	PollInterval   time.Duration
	Watchdog       time.Duration
	BannerDuration time.Duration
	Clock          task.Clock
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	// OnChange is called after every state change with a snapshot.
	OnChange func(State)
}

// Screen owns the state and serializes every transition under one lock.
// Network calls run outside the lock.
type Screen struct {
	backend Backend
	host    host.Host
	clock   task.Clock
	logger  *slog.Logger
	metrics metrics.Recorder
	opts    Options

	// ctx is cancelled by Close so timer-driven requests stop with the screen.
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	state        State
	bootstrapped bool
	closed       bool
	poll         *task.Task
	watchdog     *task.Task
	banner       *task.Task
}

// New creates a screen in its initial (loading) state.
func New(b Backend, h host.Host, opts Options) *Screen {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Watchdog <= 0 {
		opts.Watchdog = DefaultWatchdog
	}
	if opts.BannerDuration <= 0 {
		opts.BannerDuration = DefaultBannerDuration
	}
	if opts.Clock == nil {
		opts.Clock = task.RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Screen{
		backend: b,
		host:    h,
		clock:   opts.Clock,
		logger:  opts.Logger.With("component", "screen"),
		metrics: opts.Metrics,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		state:   InitialState(),
	}
}

// Snapshot returns a copy of the current state.
func (s *Screen) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// dispatch applies a under the lock and notifies OnChange.
func (s *Screen) dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Screen) notify(snap State) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
}

// Close tears the screen down: every timer is cancelled and in-flight
// timer-driven requests are aborted. Safe to call more than once.
func (s *Screen) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.poll.Cancel()
	s.watchdog.Cancel()
	s.banner.Cancel()
	s.mu.Unlock()

	s.cancel()
	s.logger.Debug("screen closed")
}

// SelectTab switches tabs. Non-admins stay on the links tab.
func (s *Screen) SelectTab(tab Tab) Tab {
	return s.dispatch(TabSelected{Tab: tab}).ActiveTab
}

// ToggleSection flips an admin panel and reports whether it is now open.
// Opening the team panel refetches the roster; opening the analytics panel
// fetches the sync log once.
func (s *Screen) ToggleSection(ctx context.Context, section Section) bool {
	open := s.dispatch(SectionToggled{Section: section}).OpenSections[section]
	if !open {
		return false
	}

	switch section {
	case SectionTeam:
		s.FetchRoster(ctx)
	case SectionAnalytics:
		s.FetchLogs(ctx)
	}
	return true
}
