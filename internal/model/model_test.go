package model

import (
	"encoding/json"
	"testing"
)

func TestParseSocialNetwork(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"Instagram", false},
		{"Tiktok", false},
		{"YouTube", false},
		{"VK", false},
		{"instagram", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSocialNetwork(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSocialNetwork(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.in {
				t.Errorf("expected %q, got %q", tt.in, got)
			}
		})
	}
}

func TestNewDraft(t *testing.T) {
	d := NewDraft()
	if len(d.Accounts) != 1 || d.Accounts[0].SocialNetwork != NetworkInstagram {
		t.Fatalf("unexpected blank draft %+v", d)
	}

	clone := d.Clone()
	clone.Accounts[0].AccountName = "changed"
	if d.Accounts[0].AccountName != "" {
		t.Error("clone shares the accounts slice")
	}
}

func TestLinkEntry_ToAnalyticsItem(t *testing.T) {
	e := LinkEntry{ID: "x", URL: "vk.com/wall1", Category: "acc", URLError: "bad"}
	if !e.HasErrors() {
		t.Error("expected HasErrors")
	}

	raw, err := json.Marshal(AnalyticsBatch{Data: []AnalyticsItem{e.ToAnalyticsItem()}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"data":[{"post_url":"vk.com/wall1","account_name":"acc","likes":0,"views":0}]}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestProfile_IsAdmin(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.IsAdmin() {
		t.Error("nil profile must not be admin")
	}
	if !(&Profile{Whois: RoleAdmin}).IsAdmin() {
		t.Error("expected admin")
	}
	if (Member{Whois: RoleUser}).RoleLabel() != "USER" {
		t.Error("expected upper-case role label")
	}
}
