// Package model defines domain entities for the application.
package model

import "strings"

// Roles reported by the backend in the "whois" field.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UsernameMarker is the prefix every registered username must carry.
const UsernameMarker = "@"

// Profile is the current user as returned by /auth.
type Profile struct {
	TelegramID int64  `json:"telegram_id,omitempty"`
	Username   string `json:"username"`
	FullName   string `json:"name_soname,omitempty"`
	Whois      string `json:"whois"`
}

// IsAdmin returns true if the profile may see the admin tab.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Whois == RoleAdmin
}

// Member is one row of the team roster.
type Member struct {
	FullName string `json:"name_soname"`
	Username string `json:"username"`
	Whois    string `json:"whois"`
}

// RoleLabel is the upper-cased role shown next to a member.
func (m Member) RoleLabel() string {
	return strings.ToUpper(m.Whois)
}

// AuthResponse is the /auth success body.
type AuthResponse struct {
	User *Profile `json:"user"`
}

// TeamResponse is the /admin/get_full_team_data success body.
type TeamResponse struct {
	Members []Member `json:"members"`
}

// SyncLogsResponse is the /sync/logs success body.
type SyncLogsResponse struct {
	Logs []string `json:"logs"`
}

// ErrorResponse is the optional body of a non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
