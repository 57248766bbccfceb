package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmanalytics/miniapp/internal/analytics"
	"github.com/dmanalytics/miniapp/internal/auth"
	"github.com/dmanalytics/miniapp/internal/backend"
	"github.com/dmanalytics/miniapp/internal/handler"
	"github.com/dmanalytics/miniapp/internal/logging"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/store"
)

const (
	adminID  = 100
	memberID = 200
	strayID  = 300
)

type testEnv struct {
	srv    *httptest.Server
	store  *store.Memory
	worker *analytics.SyncWorker
}

func newEnv(t *testing.T, stepDelay time.Duration) *testEnv {
	t.Helper()
	ctx := context.Background()

	mem := store.NewMemory()
	_ = mem.CreateUser(ctx, &store.User{TelegramID: adminID, Username: "@boss", FullName: "Boss", Whois: model.RoleAdmin})
	_ = mem.CreateUser(ctx, &store.User{
		TelegramID: memberID,
		Username:   "@ivan",
		FullName:   "Ivan",
		Whois:      model.RoleUser,
		Accounts:   []model.AccountBinding{{AccountName: "ivan_inst", SocialNetwork: model.NetworkInstagram}},
	})

	logger := logging.Discard()
	worker := analytics.NewSyncWorker(mem, logger, stepDelay)
	t.Cleanup(func() { _ = worker.Shutdown(context.Background()) })

	router := handler.NewRouter(handler.RouterConfig{
		Handler:     handler.New(mem, worker, logger),
		Health:      handler.NewHealthHandler(map[string]handler.HealthChecker{"store": mem}),
		Logger:      logger,
		CORSOrigins: []string{"*"},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: mem, worker: worker}
}

func (e *testEnv) client(t *testing.T, telegramID int64) *backend.Client {
	t.Helper()
	token, err := auth.Encode(auth.TelegramUser{ID: telegramID, FirstName: "T"}, "")
	if err != nil {
		t.Fatalf("encode init data: %v", err)
	}
	return backend.New(e.srv.URL, token, backend.WithLogger(logging.Discard()))
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := backend.AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.StatusCode
}

func TestAuth(t *testing.T) {
	env := newEnv(t, time.Millisecond)
	ctx := context.Background()

	profile, err := env.client(t, adminID).Auth(ctx)
	if err != nil {
		t.Fatalf("admin auth: %v", err)
	}
	if !profile.IsAdmin() || profile.Username != "@boss" {
		t.Errorf("unexpected admin profile %+v", profile)
	}

	_, err = env.client(t, strayID).Auth(ctx)
	if !errors.Is(err, backend.ErrForbidden) {
		t.Fatalf("expected forbidden for unknown user, got %v", err)
	}

	_, err = backend.New(env.srv.URL, "", backend.WithLogger(logging.Discard())).Auth(ctx)
	if got := statusOf(t, err); got != http.StatusUnauthorized {
		t.Errorf("expected 401 without init data, got %d", got)
	}
}

func TestAccountsAndTeam(t *testing.T) {
	env := newEnv(t, time.Millisecond)
	ctx := context.Background()

	names, err := env.client(t, memberID).AccountsList(ctx)
	if err != nil {
		t.Fatalf("accounts list: %v", err)
	}
	if len(names) != 1 || names[0] != "ivan_inst" {
		t.Errorf("unexpected accounts %v", names)
	}

	members, err := env.client(t, adminID).TeamData(ctx)
	if err != nil {
		t.Fatalf("team data: %v", err)
	}
	if len(members) != 2 || members[0].RoleLabel() != "ADMIN" || members[1].FullName != "Ivan" {
		t.Errorf("unexpected members %+v", members)
	}

	_, err = env.client(t, memberID).TeamData(ctx)
	if !errors.Is(err, backend.ErrForbidden) {
		t.Errorf("expected forbidden team data for member, got %v", err)
	}
}

func TestAnalyticsAdd(t *testing.T) {
	env := newEnv(t, time.Millisecond)
	ctx := context.Background()
	c := env.client(t, memberID)

	items := []model.AnalyticsItem{
		{PostURL: "instagram.com/p/1", AccountName: "ivan_inst"},
		{PostURL: "https://vk.com/wall1", AccountName: "ivan_inst"},
	}
	if err := c.AddAnalytics(ctx, items); err != nil {
		t.Fatalf("add analytics: %v", err)
	}
	if n, _ := env.store.CountAnalytics(ctx); n != 2 {
		t.Errorf("expected 2 stored links, got %d", n)
	}

	err := c.AddAnalytics(ctx, []model.AnalyticsItem{{PostURL: "x.com"}})
	if got := statusOf(t, err); got != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for blank account, got %d", got)
	}
}

func TestRegisterUser(t *testing.T) {
	env := newEnv(t, time.Millisecond)
	ctx := context.Background()

	req := model.RegisterUserRequest{
		TelegramID: 555,
		Username:   "@olga",
		FullName:   "Olga",
		Accounts:   []model.AccountBinding{{AccountName: "olga_tt", SocialNetwork: model.NetworkTiktok, Handle: "@olga"}},
	}

	err := env.client(t, memberID).RegisterUser(ctx, req)
	if !errors.Is(err, backend.ErrForbidden) {
		t.Fatalf("expected forbidden for member, got %v", err)
	}

	admin := env.client(t, adminID)
	if err := admin.RegisterUser(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}

	err = admin.RegisterUser(ctx, req)
	if got := statusOf(t, err); got != http.StatusConflict {
		t.Errorf("expected 409 on duplicate, got %d", got)
	}
	apiErr, _ := backend.AsAPIError(err)
	if apiErr.Message() != handler.DetailUserExists {
		t.Errorf("expected detail %q, got %q", handler.DetailUserExists, apiErr.Message())
	}

	profile, err := env.client(t, 555).Auth(ctx)
	if err != nil {
		t.Fatalf("new user auth: %v", err)
	}
	if profile.IsAdmin() {
		t.Error("registered user must not be admin")
	}

	names, _ := admin.AccountsList(ctx)
	if len(names) != 2 || names[1] != "olga_tt" {
		t.Errorf("expected new account listed, got %v", names)
	}
}

func TestRegisterUser_Invalid(t *testing.T) {
	env := newEnv(t, time.Millisecond)

	err := env.client(t, adminID).RegisterUser(context.Background(), model.RegisterUserRequest{
		TelegramID: 1,
		Username:   "no_marker",
		FullName:   "X",
		Accounts:   []model.AccountBinding{{AccountName: "a", SocialNetwork: model.NetworkVK}},
	})
	if got := statusOf(t, err); got != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", got)
	}
}

func TestSync(t *testing.T) {
	env := newEnv(t, time.Hour)
	ctx := context.Background()
	admin := env.client(t, adminID)

	if err := admin.StartSync(ctx); err != nil {
		t.Fatalf("start sync: %v", err)
	}

	err := admin.StartSync(ctx)
	if got := statusOf(t, err); got != http.StatusConflict {
		t.Errorf("expected 409 while running, got %d", got)
	}

	lines, err := backend.New(env.srv.URL, "", backend.WithLogger(logging.Discard())).SyncLogs(ctx)
	if err != nil {
		t.Fatalf("sync logs without auth: %v", err)
	}
	if len(lines) == 0 || lines[0] != analytics.LineStarted {
		t.Errorf("unexpected log lines %v", lines)
	}

	err = env.client(t, memberID).StartSync(ctx)
	if !errors.Is(err, backend.ErrForbidden) {
		t.Errorf("expected forbidden sync start for member, got %v", err)
	}
}

func TestRouter_NotFoundAndCORS(t *testing.T) {
	env := newEnv(t, time.Millisecond)

	resp, err := http.Get(env.srv.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	var body model.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Detail == "" {
		t.Errorf("expected detail body, got %+v (%v)", body, err)
	}

	req, _ := http.NewRequest(http.MethodOptions, env.srv.URL+"/auth", nil)
	req.Header.Set("Origin", "https://web.telegram.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	pre.Body.Close()
	if pre.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", pre.StatusCode)
	}
	if !strings.Contains(pre.Header.Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Errorf("unexpected allow headers %q", pre.Header.Get("Access-Control-Allow-Headers"))
	}
}

func TestRouter_Readyz(t *testing.T) {
	env := newEnv(t, time.Millisecond)

	resp, err := http.Get(env.srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var health handler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || health.Checks["store"] != "ok" {
		t.Errorf("unexpected readiness %d %+v", resp.StatusCode, health)
	}
}
