package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dmanalytics/miniapp/internal/auth"
	"github.com/dmanalytics/miniapp/internal/logging"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/store"
)

const (
	adminID  = 1
	memberID = 2
	strayID  = 3
)

func testUsers(t *testing.T) *store.Memory {
	t.Helper()
	users := store.NewMemory()
	ctx := context.Background()
	_ = users.CreateUser(ctx, &store.User{TelegramID: adminID, Whois: model.RoleAdmin})
	_ = users.CreateUser(ctx, &store.User{TelegramID: memberID, Whois: model.RoleUser})
	return users
}

func initHeader(id int64) string {
	return InitDataScheme + " user=" + url.QueryEscape(`{"id":`+jsonInt(id)+`}`)
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestInitData(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		admin      bool
		wantStatus int
	}{
		{"missing header", "", false, http.StatusUnauthorized},
		{"wrong scheme", "Bearer abc", false, http.StatusUnauthorized},
		{"empty token", InitDataScheme + " ", false, http.StatusUnauthorized},
		{"no user field", InitDataScheme + " query_id=1", false, http.StatusUnauthorized},
		{"unknown user", initHeader(strayID), false, http.StatusForbidden},
		{"member", initHeader(memberID), false, http.StatusOK},
		{"admin", initHeader(adminID), false, http.StatusOK},
		{"member on admin route", initHeader(memberID), true, http.StatusForbidden},
		{"admin on admin route", initHeader(adminID), true, http.StatusOK},
	}

	users := testUsers(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var final http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if auth.CallerFromContext(r.Context()) == nil {
					t.Error("caller missing from context")
				}
				w.WriteHeader(http.StatusOK)
			})
			if tt.admin {
				final = RequireAdmin(final)
			}
			handler := InitData(InitDataConfig{Logger: logging.Discard(), Users: users})(final)

			req := httptest.NewRequest(http.MethodPost, "/auth", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Code != http.StatusOK {
				var body model.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Detail == "" {
					t.Errorf("expected detail body, got %v (%v)", body, err)
				}
			}
		})
	}
}

func TestInitData_Signature(t *testing.T) {
	const botToken = "42:abc"
	users := testUsers(t)
	handler := InitData(InitDataConfig{Logger: logging.Discard(), Users: users, BotToken: botToken})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	signed, _ := auth.Encode(auth.TelegramUser{ID: memberID}, botToken)
	forged, _ := auth.Encode(auth.TelegramUser{ID: memberID}, "other")

	for name, tc := range map[string]struct {
		token string
		want  int
	}{
		"signed": {signed, http.StatusOK},
		"forged": {forged, http.StatusUnauthorized},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/accounts_list", nil)
			req.Header.Set("Authorization", InitDataScheme+" "+tc.token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "client-id" || rec.Header().Get(RequestIDHeader) != "client-id" {
		t.Errorf("expected client id to be reused, got %q", seen)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 36 {
		t.Errorf("expected generated uuid, got %q", seen)
	}
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(logging.Discard(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body model.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Detail == "" {
		t.Errorf("expected detail body, got %v (%v)", body, err)
	}
}

func TestMaxBodySize(t *testing.T) {
	handler := MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/analytics_add", nil)
	req.ContentLength = 10
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
