package screen

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dmanalytics/miniapp/internal/backend"
	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/logging"
	"github.com/dmanalytics/miniapp/internal/metrics"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/testutil"
)

var errTransport = errors.New("dial tcp: connection refused")

// fakeBackend answers with canned values; each func field overrides one call.
type fakeBackend struct {
	mu sync.Mutex

	authFn     func() (*model.Profile, error)
	accountsFn func() ([]string, error)
	teamFn     func() ([]model.Member, error)
	addFn      func([]model.AnalyticsItem) error
	registerFn func(model.RegisterUserRequest) error
	startFn    func() error
	logsFn     func() ([]string, error)

	authCalls  int
	logCalls   int
	added      [][]model.AnalyticsItem
	registered []model.RegisterUserRequest
}

func (f *fakeBackend) Auth(ctx context.Context) (*model.Profile, error) {
	f.mu.Lock()
	f.authCalls++
	f.mu.Unlock()
	if f.authFn != nil {
		return f.authFn()
	}
	return &model.Profile{Username: "@boss", Whois: model.RoleAdmin}, nil
}

func (f *fakeBackend) AccountsList(ctx context.Context) ([]string, error) {
	if f.accountsFn != nil {
		return f.accountsFn()
	}
	return []string{"acc_1", "acc_2"}, nil
}

func (f *fakeBackend) TeamData(ctx context.Context) ([]model.Member, error) {
	if f.teamFn != nil {
		return f.teamFn()
	}
	return []model.Member{{FullName: "Ivan", Username: "@ivan", Whois: "user"}}, nil
}

func (f *fakeBackend) AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error {
	f.mu.Lock()
	f.added = append(f.added, items)
	f.mu.Unlock()
	if f.addFn != nil {
		return f.addFn(items)
	}
	return nil
}

func (f *fakeBackend) RegisterUser(ctx context.Context, req model.RegisterUserRequest) error {
	f.mu.Lock()
	f.registered = append(f.registered, req)
	f.mu.Unlock()
	if f.registerFn != nil {
		return f.registerFn(req)
	}
	return nil
}

func (f *fakeBackend) StartSync(ctx context.Context) error {
	if f.startFn != nil {
		return f.startFn()
	}
	return nil
}

func (f *fakeBackend) SyncLogs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.logCalls++
	n := f.logCalls
	f.mu.Unlock()
	if f.logsFn != nil {
		return f.logsFn()
	}
	if n == 1 {
		return []string{"started"}, nil
	}
	return []string{"started", "collecting"}, nil
}

func (f *fakeBackend) logFetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logCalls
}

func apiError(path string, status int, detail string) error {
	return &backend.APIError{Method: http.MethodPost, Path: path, StatusCode: status, Detail: detail}
}

type fixture struct {
	screen  *Screen
	backend *fakeBackend
	host    *host.Recorder
	clock   *testutil.FakeClock
	metrics *metrics.InMemoryRecorder
}

func newFixture(b *fakeBackend) *fixture {
	if b == nil {
		b = &fakeBackend{}
	}
	f := &fixture{
		backend: b,
		host:    host.NewRecorder("query_id=1"),
		clock:   testutil.NewFakeClock(),
		metrics: metrics.NewInMemory(),
	}
	f.screen = New(b, f.host, Options{
		Clock:   f.clock,
		Logger:  logging.Discard(),
		Metrics: f.metrics,
	})
	return f
}
