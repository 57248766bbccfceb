package screen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/dmanalytics/miniapp/internal/backend"
	"github.com/dmanalytics/miniapp/internal/form"
	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/model"
)

func fillDraft(s *Screen) {
	s.EditDraft("12345", "@abc", "Ivan Petrov")
	s.SetAccountName(0, "acc_main")
}

func TestRegisterUser_SuccessResetsDraft(t *testing.T) {
	f := newFixture(nil)
	fillDraft(f.screen)

	if err := f.screen.RegisterUser(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(f.backend.registered) != 1 {
		t.Fatalf("expected one create request, got %d", len(f.backend.registered))
	}
	req := f.backend.registered[0]
	if req.TelegramID != 12345 || req.Username != "@abc" || req.Accounts[0].Handle != "@abc" {
		t.Errorf("unexpected payload %+v", req)
	}

	st := f.screen.Snapshot()
	want := model.NewDraft()
	if st.Draft.TelegramID != "" || st.Draft.Username != "" || st.Draft.FullName != "" {
		t.Errorf("draft not reset: %+v", st.Draft)
	}
	if len(st.Draft.Accounts) != 1 || st.Draft.Accounts[0] != want.Accounts[0] {
		t.Errorf("expected one blank Instagram account, got %+v", st.Draft.Accounts)
	}
	if st.DraftErrors.Any() {
		t.Errorf("errors should be cleared, got %+v", st.DraftErrors)
	}

	if n := f.host.Notifications(); len(n) != 1 || n[0] != host.NotificationSuccess {
		t.Errorf("expected success cue, got %v", n)
	}
	if a := f.host.Alerts(); len(a) != 1 || a[0] != MsgRegistered {
		t.Errorf("expected confirmation alert, got %v", a)
	}
}

func TestRegisterUser_UsernameWithoutMarker(t *testing.T) {
	f := newFixture(nil)
	fillDraft(f.screen)
	f.screen.SetUsername("abc")

	err := f.screen.RegisterUser(context.Background())
	if !errors.Is(err, form.ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}

	st := f.screen.Snapshot()
	if !st.DraftErrors.Username {
		t.Error("expected username error")
	}
	if st.DraftErrors.TelegramID || st.DraftErrors.FullName || st.DraftErrors.Accounts != nil {
		t.Errorf("only username should fail, got %+v", st.DraftErrors)
	}
	if st.Draft.Username != "abc" || st.Draft.TelegramID != "12345" {
		t.Errorf("entered values must be kept, got %+v", st.Draft)
	}
	if len(f.backend.registered) != 0 {
		t.Error("invalid draft must not be sent")
	}
	if n := f.host.Notifications(); len(n) != 1 || n[0] != host.NotificationError {
		t.Errorf("expected error cue, got %v", n)
	}
	if len(f.host.Alerts()) != 0 {
		t.Errorf("validation failures are inline only, got alerts %v", f.host.Alerts())
	}
}

func TestRegisterUser_AccountFlagsAreParallel(t *testing.T) {
	f := newFixture(nil)
	fillDraft(f.screen)
	f.screen.AddAccount()
	f.screen.AddAccount()
	f.screen.SetAccountName(2, "third")
	f.screen.SetAccountNetwork(2, model.NetworkYouTube)

	_ = f.screen.RegisterUser(context.Background())

	flags := f.screen.Snapshot().DraftErrors.Accounts
	if len(flags) != 3 || flags[0] || !flags[1] || flags[2] {
		t.Errorf("unexpected account flags %v", flags)
	}
}

func TestRegisterUser_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		detail    string
		wantAlert string
	}{
		{"with_detail", "user exists", "Ошибка сервера: user exists"},
		{"fallback", "", "Ошибка сервера: " + MsgRegisterFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&fakeBackend{
				registerFn: func(model.RegisterUserRequest) error {
					return apiError(backend.PathRegisterUser, http.StatusConflict, tt.detail)
				},
			})
			fillDraft(f.screen)

			if err := f.screen.RegisterUser(context.Background()); err == nil {
				t.Fatal("expected error")
			}

			if a := f.host.Alerts(); len(a) != 1 || a[0] != tt.wantAlert {
				t.Errorf("expected alert %q, got %v", tt.wantAlert, a)
			}
			if n := f.host.Notifications(); len(n) != 1 || n[0] != host.NotificationError {
				t.Errorf("expected error cue, got %v", n)
			}
			if f.screen.Snapshot().Draft.Username != "@abc" {
				t.Error("draft must be kept on rejection")
			}
		})
	}
}

func TestRegisterUser_Transport(t *testing.T) {
	f := newFixture(&fakeBackend{
		registerFn: func(model.RegisterUserRequest) error { return errTransport },
	})
	fillDraft(f.screen)

	_ = f.screen.RegisterUser(context.Background())

	if a := f.host.Alerts(); len(a) != 1 || a[0] != MsgRegisterTransport {
		t.Errorf("expected connectivity alert, got %v", a)
	}
	if f.metrics.Snapshot().Registrations["transport"] != 1 {
		t.Error("expected transport registration metric")
	}
}

func TestRemoveAccount_Floor(t *testing.T) {
	f := newFixture(nil)
	f.screen.RemoveAccount(0)
	if got := len(f.screen.Snapshot().Draft.Accounts); got != 1 {
		t.Errorf("expected 1 account, got %d", got)
	}
}

func TestDraftEdits_ConcurrentFieldsAllLand(t *testing.T) {
	f := newFixture(nil)
	f.screen.AddAccount()

	const rounds = 200
	edits := []func(i int){
		func(i int) { f.screen.SetTelegramID(fmt.Sprint(i)) },
		func(i int) { f.screen.SetUsername(fmt.Sprintf("@u%d", i)) },
		func(i int) { f.screen.SetFullName(fmt.Sprintf("name %d", i)) },
		func(i int) { f.screen.SetAccountName(0, fmt.Sprintf("a%d", i)) },
		func(i int) { f.screen.SetAccountName(1, fmt.Sprintf("b%d", i)) },
	}

	var wg sync.WaitGroup
	for _, edit := range edits {
		wg.Add(1)
		go func(edit func(int)) {
			defer wg.Done()
			for i := 1; i <= rounds; i++ {
				edit(i)
			}
		}(edit)
	}
	wg.Wait()

	d := f.screen.Snapshot().Draft
	last := fmt.Sprint(rounds)
	if d.TelegramID != last || d.Username != "@u"+last || d.FullName != "name "+last {
		t.Errorf("concurrent field edits lost: %+v", d)
	}
	if len(d.Accounts) != 2 || d.Accounts[0].AccountName != "a"+last || d.Accounts[1].AccountName != "b"+last {
		t.Errorf("concurrent account edits lost: %+v", d.Accounts)
	}
}
