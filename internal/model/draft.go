package model

import "fmt"

// SocialNetwork is the platform an account lives on.
type SocialNetwork string

const (
	NetworkInstagram SocialNetwork = "Instagram"
	NetworkTiktok    SocialNetwork = "Tiktok"
	NetworkYouTube   SocialNetwork = "YouTube"
	NetworkVK        SocialNetwork = "VK"
)

// SocialNetworks lists the selectable platforms in display order.
var SocialNetworks = []SocialNetwork{NetworkInstagram, NetworkTiktok, NetworkYouTube, NetworkVK}

// IsValid checks if the network is one of the known platforms.
func (n SocialNetwork) IsValid() bool {
	for _, known := range SocialNetworks {
		if n == known {
			return true
		}
	}
	return false
}

// ParseSocialNetwork matches a platform name exactly.
func ParseSocialNetwork(s string) (SocialNetwork, error) {
	n := SocialNetwork(s)
	if !n.IsValid() {
		return "", fmt.Errorf("unknown social network %q", s)
	}
	return n, nil
}

// AccountBinding links a social account to the user being registered.
// Handle is filled from the username at submit time.
type AccountBinding struct {
	AccountName   string        `json:"account_name"`
	SocialNetwork SocialNetwork `json:"social_network"`
	Handle        string        `json:"username_at,omitempty"`
}

// NewUserDraft is the admin registration form.
type NewUserDraft struct {
	TelegramID string           `json:"telegram_id"`
	Username   string           `json:"username"`
	FullName   string           `json:"name_soname"`
	Accounts   []AccountBinding `json:"accounts"`
}

// NewDraft returns the initial empty draft with one blank account.
func NewDraft() NewUserDraft {
	return NewUserDraft{
		Accounts: []AccountBinding{BlankAccount()},
	}
}

// BlankAccount is the default binding appended by "add account".
func BlankAccount() AccountBinding {
	return AccountBinding{SocialNetwork: NetworkInstagram}
}

// Clone returns a deep copy of the draft.
func (d NewUserDraft) Clone() NewUserDraft {
	d.Accounts = append([]AccountBinding(nil), d.Accounts...)
	return d
}

// DraftErrors flags the draft fields that failed validation.
// Accounts is parallel to NewUserDraft.Accounts and nil when all accounts pass.
type DraftErrors struct {
	TelegramID bool   `json:"telegram_id,omitempty"`
	Username   bool   `json:"username,omitempty"`
	FullName   bool   `json:"name_soname,omitempty"`
	Accounts   []bool `json:"accounts,omitempty"`
}

// Any reports whether at least one field failed.
func (e DraftErrors) Any() bool {
	return e.TelegramID || e.Username || e.FullName || len(e.Accounts) > 0
}

// RegisterUserRequest is the normalized /register_user body.
type RegisterUserRequest struct {
	TelegramID int64            `json:"telegram_id"`
	Username   string           `json:"username"`
	FullName   string           `json:"name_soname"`
	Accounts   []AccountBinding `json:"accounts"`
}
